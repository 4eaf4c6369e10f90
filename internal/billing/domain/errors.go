package billing

import "errors"

var (
	// ErrNotFound is returned when a referenced client or meter does not exist.
	ErrNotFound = errors.New("billing: not found")
	// ErrInvalidArgument is returned for out-of-range periods, days, hours or negative kWh.
	ErrInvalidArgument = errors.New("billing: invalid argument")
	// ErrInvalidState is returned when a grid is read before it was initialized.
	ErrInvalidState = errors.New("billing: invalid state")
)
