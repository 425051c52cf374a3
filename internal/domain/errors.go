package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrPermissionDeny  = errors.New("permission denied")
	ErrConflict        = errors.New("already exists")
	ErrSystemRole      = errors.New("system roles cannot be modified")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrUpstream        = errors.New("upstream unavailable")
)
