package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrNilQueryInput     = errors.New("query options is nil")
	ErrUnknownPermission = errors.New("unknown permission")
	ErrUnknownRole       = errors.New("unknown role")
	ErrInvalidMatrix     = errors.New("invalid role-permission matrix")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrTokenRevoked      = errors.New("token revoked")
	ErrUserInactive      = errors.New("user is not active")
	ErrDuplicateUser     = errors.New("user already exists")
)
