package config

import "fmt"

// ErrorKind classifies configuration and decision-syntax failures.
type ErrorKind int

const (
	// OutOfRange is a numeric decision index outside [0, 127].
	OutOfRange ErrorKind = iota
	// InvalidChoice is a decision that cannot apply to the dimension
	// it names.
	InvalidChoice
	// InvalidIdentifier is a malformed dimension, branch, or variable
	// name.
	InvalidIdentifier
	// InvalidFile is a configuration file that does not load.
	InvalidFile
)

func (k ErrorKind) String() string {
	switch k {
	case OutOfRange:
		return "out of range"
	case InvalidChoice:
		return "invalid choice"
	case InvalidIdentifier:
		return "invalid identifier"
	case InvalidFile:
		return "invalid configuration file"
	}
	return fmt.Sprintf("error(%d)", int(k))
}

// Error is a configuration failure with its classification.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

func errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
