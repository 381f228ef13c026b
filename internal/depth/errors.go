package depth

import "fmt"

// MissingMetadataError indicates that physical metadata required for
// the computation is absent from the dataset (or set to the NaN
// sentinel). The caller must populate the field and retry; there is no
// in-band recovery.
type MissingMetadataError struct {
	Field string
}

func (e *MissingMetadataError) Error() string {
	return fmt.Sprintf("depth: no %q field in the dataset - set it and try again", e.Field)
}

// UserAbortedError indicates the operator declined to proceed without a
// recommended field. Fatal; the computation stops immediately.
type UserAbortedError struct {
	Field string
}

func (e *UserAbortedError) Error() string {
	return fmt.Sprintf("depth: aborted by operator (missing %s)", e.Field)
}
