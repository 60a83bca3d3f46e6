package httperr

import "errors"

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// ConflictError is raised when a requested time window collides with a
// confirmed booking or a live hold. It carries enough context for the
// client to offer alternatives.
type ConflictError struct {
	Code   string
	HostID uint
	Date   string
}

func (e ConflictError) Error() string {
	return e.Code
}

func ErrTimeSlotTaken(hostID uint, date string) error {
	return ConflictError{
		Code:   "time_slot_taken",
		HostID: hostID,
		Date:   date,
	}
}

func AsConflict(err error) (ConflictError, bool) {
	var ce ConflictError
	if errors.As(err, &ce) {
		return ce, true
	}
	return ConflictError{}, false
}
