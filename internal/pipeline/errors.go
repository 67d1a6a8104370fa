package pipeline

import (
	"errors"
	"fmt"
)

// ErrPanic marks a step that panicked instead of returning an error.
var ErrPanic = errors.New("step panicked")

// StepError ties a failure to the step that produced it.
type StepError struct {
	Step  Step
	Err   error
	Stack []byte // goroutine stack captured at the panic site, nil for plain errors
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
