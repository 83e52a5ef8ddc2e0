package services

import (
	"errors"
	"fmt"
)

// ErrPersonalization is the class for validation failures that make a plan
// impossible. Transports match it with errors.Is and map it to a client
// error; everything else coming out of the planner is an upstream fault.
var ErrPersonalization = errors.New("personalization error")

var (
	ErrDepartmentNotSupported = fmt.Errorf("%w: department is not supported", ErrPersonalization)
	ErrEmptyCatalog           = fmt.Errorf("%w: department has no configured skills", ErrPersonalization)
)
