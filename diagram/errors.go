package diagram

import (
	"errors"
	"fmt"
)

// Error kinds reported by graph mutations. Callers classify with errors.Is.
var (
	ErrNotFound        = errors.New("node not found")
	ErrInvalidRelation = errors.New("relation not valid for node kind")
	ErrForbidden       = errors.New("operation not permitted on trigger node")

	// ErrInvalidSource is returned when an add names an unknown source node.
	ErrInvalidSource = fmt.Errorf("invalid source: %w", ErrNotFound)

	// ErrBranchTaken is returned when an add would overwrite a set yes/no branch.
	ErrBranchTaken = fmt.Errorf("branch already connected: %w", ErrInvalidRelation)
)
