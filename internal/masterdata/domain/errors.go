package masterdata

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is the class of lookup failures.
	ErrNotFound = errors.New("masterdata: not found")
	// ErrClientNotFound is returned when a client id does not exist.
	ErrClientNotFound = fmt.Errorf("%w: client", ErrNotFound)
	// ErrMeterNotFound is returned when a meter id does not exist for a client.
	ErrMeterNotFound = fmt.Errorf("%w: meter", ErrNotFound)
	// ErrEmptyClientID is returned when a client id is blank.
	ErrEmptyClientID = errors.New("masterdata: empty client id")
	// ErrEmptyMeterID is returned when a meter id is blank.
	ErrEmptyMeterID = errors.New("masterdata: empty meter id")
	// ErrDuplicateClient is returned when a client id is already registered.
	ErrDuplicateClient = errors.New("masterdata: duplicate client")
	// ErrDuplicateMeter is returned when a client already owns a meter with the same id.
	ErrDuplicateMeter = errors.New("masterdata: duplicate meter")
	// ErrNilClient is returned when saving a nil client.
	ErrNilClient = errors.New("masterdata: nil client")
)
