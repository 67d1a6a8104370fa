package debugging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSumArray(t *testing.T) {
	tests := []struct {
		name    string
		numbers []int
		want    int
	}{
		{"nil", nil, 0},
		{"empty", []int{}, 0},
		{"single", []int{7}, 7},
		{"sample", []int{10, 20, 30, 40}, 100},
		{"negatives", []int{-5, 5, -10}, -10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SumArray(tt.numbers))
		})
	}
}

func TestSumArrayDoesNotMutateInput(t *testing.T) {
	in := []int{1, 2, 3}
	SumArray(in)
	assert.Equal(t, []int{1, 2, 3}, in)
}

func TestReportSum(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ReportSum(&buf, []int{10, 20, 30, 40}))
	assert.Equal(t, "Sum: 100\n", buf.String())
}
