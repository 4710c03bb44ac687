package signup

import (
	"fmt"
	"strings"
)

// MissingFieldsError rejects a submission before it reaches the boundary.
type MissingFieldsError struct {
	Fields []string // JSON names of the empty or malformed fields
}

func (e *MissingFieldsError) Error() string {
	return "missing or invalid fields: " + strings.Join(e.Fields, ", ")
}

// SubmissionFailure means the boundary answered with success=false.
type SubmissionFailure struct {
	Message string
}

func (e *SubmissionFailure) Error() string {
	if e.Message == "" {
		return "sign-up failed"
	}
	return "sign-up failed: " + e.Message
}

// SubmissionError means the boundary call itself failed.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("sign-up error: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}
