package sim

import (
	"fmt"
	"time"
)

// StepError records a body that could not be placed during a run.
type StepError struct {
	Step    int
	Time    time.Time
	Body    string
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s) %s: %v", e.Step, e.Time.Format(time.RFC3339), e.Body, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
