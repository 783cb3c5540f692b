package stream

import "fmt"

// SampleOverflow is an error type caused by attempting to add more
// observations than remain in a declared finite population
type SampleOverflow struct {
	Requested int
	Taken     int
	PopSize   int
}

func (e *SampleOverflow) Error() string {
	return fmt.Sprintf("exceeded population size: tried to add %d observations when %d/%d observations had already been taken",
		e.Requested, e.Taken, e.PopSize)
}
