package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNoBranchAssignment rejects quotation work from users without a branch.
	ErrNoBranchAssignment = errors.New("user has no branch assignment")
)
