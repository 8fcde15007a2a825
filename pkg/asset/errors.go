package asset

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds returned by the Manager. Callers classify with errors.Is.
var (
	ErrNotFound        = errors.New("photo not found")
	ErrDuplicateName   = errors.New("photo already exists")
	ErrInvalidName     = errors.New("invalid file name")
	ErrDecode          = errors.New("unreadable image")
	ErrUnsupportedType = errors.New("unsupported content type")
	ErrBlobWrite       = errors.New("blob write failed")
	ErrBlobRename      = errors.New("blob rename failed")
	ErrBlobDelete      = errors.New("blob delete failed")
	ErrMetadata        = errors.New("metadata store failed")
	ErrPartialFailure  = errors.New("partial failure")
)

// PartialFailureError reports the blobs a best-effort operation could not remove.
type PartialFailureError struct {
	Failed []string
	Errs   []error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("%d blob(s) could not be deleted: %s", len(e.Failed), strings.Join(e.Failed, ", "))
}

func (e *PartialFailureError) Is(target error) bool {
	return target == ErrPartialFailure
}

func (e *PartialFailureError) Unwrap() []error {
	return e.Errs
}
