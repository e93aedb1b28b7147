package services

import "errors"

// Sentinel errors for domain rule violations. Handlers map these to HTTP
// statuses; the user-facing Thai message travels separately where one exists.
var (
	ErrPermission    = errors.New("permission denied")
	ErrNotFound      = errors.New("not found")
	ErrQuotaExceeded = errors.New("quota exceeded")
	ErrVouchMissing  = errors.New("vouch no longer exists")
	ErrSelfVouch     = errors.New("cannot vouch for yourself")
	ErrAlreadyDone   = errors.New("already done")
)
