package domain

import "errors"

var (
	ErrForbidden = errors.New("role is not allowed to perform this action")
	ErrNotFound  = errors.New("not found")
)
