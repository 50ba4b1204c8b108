package shows

import "errors"

var (
	ErrShowNotFound  = errors.New("show not found")
	ErrInvalidShowID = errors.New("invalid show id")
)
