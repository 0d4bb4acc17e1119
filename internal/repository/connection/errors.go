package connection

import "errors"

var (
	ErrAlreadyExists = errors.New("connection already exists")
	ErrNotFound      = errors.New("connection not found")
	ErrQueueFull     = errors.New("send queue full")
)
