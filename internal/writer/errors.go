package writer

import "fmt"

// SerializationError reports a document that could not be encoded or persisted.
// The affected auction house's data is dropped from the run.
type SerializationError struct {
	Path string
	Op   string // "encode" or "write"
	Err  error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}
