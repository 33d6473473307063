package path

import "errors"

// Path engine errors. Other engine packages wrap these so callers can use errors.Is.
var (
	ErrIndexOutOfRange = errors.New("waypoint index out of range")
	ErrInvalidState    = errors.New("invalid path state")
)
