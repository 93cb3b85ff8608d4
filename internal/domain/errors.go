package domain

import "errors"

var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates invalid input data
	ErrInvalidInput = errors.New("invalid input")

	// ErrConnection indicates a connection failure
	ErrConnection = errors.New("connection failed")

	// ErrTimeout indicates an operation timeout
	ErrTimeout = errors.New("timeout")

	// ErrNoData indicates the device answered with nothing usable
	ErrNoData = errors.New("no data")
)
