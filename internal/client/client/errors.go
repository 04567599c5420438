package client

import "errors"

var (
	ErrUnavailable  = errors.New("backend unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
)
