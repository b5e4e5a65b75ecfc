package query

import "fmt"

// ValidationError reports an argument combination the remote service would
// reject. It is raised before any remote call is made and is never retried.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a resolution that matched nothing after exactly one
// lookup attempt.
type NotFoundError struct {
	Kind string // what was being resolved, e.g. "collaborator"
	Name string // the identifier that matched nothing
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}
