package features

import (
	"errors"
	"fmt"
)

var (
	// ErrExtraction marks a clip that could not be turned into a feature vector
	ErrExtraction = errors.New("feature extraction failed")

	// ErrNumericDegeneracy marks a zero-variance feature under the fail policy
	ErrNumericDegeneracy = errors.New("numeric degeneracy")

	// ErrDuplicateClip marks a job whose clip id was already submitted
	ErrDuplicateClip = errors.New("duplicate clip")
)

// ClipError records why one clip was skipped
type ClipError struct {
	ClipID    string
	Partition Partition
	Err       error
}

func (e *ClipError) Error() string {
	return fmt.Sprintf("clip %s (%s): %v", e.ClipID, e.Partition, e.Err)
}

func (e *ClipError) Unwrap() error {
	return e.Err
}
