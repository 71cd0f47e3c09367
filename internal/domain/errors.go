package domain

import "errors"

// Provider failure taxonomy. Adapters wrap these sentinels so callers can
// branch with errors.Is without depending on adapter packages.
var (
	// ErrDirtyWorkingTree indicates uncommitted changes; checkout or rebase
	// on a dirty tree risks data loss, so preparation refuses to proceed.
	ErrDirtyWorkingTree = errors.New("working tree has uncommitted changes")

	// ErrRebaseConflict indicates the temporary branch could not be rebased
	// onto the base branch. Conflicts must be resolved manually.
	ErrRebaseConflict = errors.New("rebase conflict")

	// ErrCleanup indicates teardown restored the original branch but could
	// not delete the temporary branch.
	ErrCleanup = errors.New("temporary branch cleanup failed")

	// ErrBranchNotFound indicates the comparison branch does not exist.
	ErrBranchNotFound = errors.New("branch not found")

	// ErrDecode indicates file content is not valid text.
	ErrDecode = errors.New("content is not valid text")

	// ErrUnsupported indicates the provider does not implement the requested
	// capability.
	ErrUnsupported = errors.New("operation not supported by this provider")
)
