package nativeload

import "fmt"

// LinkError reports a materialized library that the OS dynamic loader
// rejected: wrong architecture, corrupt binary, or an unresolved
// transitive dependency. It is fatal and never retried.
type LinkError struct {
	Path string
	Err  error
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("link %s: %v", e.Path, e.Err)
}

func (e *LinkError) Unwrap() error {
	return e.Err
}
