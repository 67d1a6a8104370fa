package debugging

import (
	"fmt"
	"io"
)

// SumArray returns the arithmetic total of numbers. A nil or empty slice sums to 0.
func SumArray(numbers []int) int {
	total := 0
	for _, n := range numbers {
		total += n
	}
	return total
}

// ReportSum writes "Sum: <total>" for numbers.
func ReportSum(w io.Writer, numbers []int) error {
	_, err := fmt.Fprintf(w, "Sum: %d\n", SumArray(numbers))
	return err
}
