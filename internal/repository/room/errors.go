package room

import "errors"

var (
	ErrDumpNotFound      = errors.New("dump not found")
	ErrAlreadyRegistered = errors.New("room already registered")
)
