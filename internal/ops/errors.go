package ops

import "fmt"

// InvalidParameterError reports an operation request that failed catalog
// validation. It is returned before any store query executes.
type InvalidParameterError struct {
	Op     Kind
	Param  string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("%s: invalid parameter %s: %s", e.Op, e.Param, e.Reason)
}
