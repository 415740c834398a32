package export

import "fmt"

// RenderError wraps any failure raised while laying out or serializing a resume PDF
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("failed to generate PDF: %v", e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
