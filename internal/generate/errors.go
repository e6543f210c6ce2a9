package generate

import (
	"errors"
	"fmt"
)

var (
	ErrNotReady = errors.New("template data is not loaded yet, please wait")
	ErrNotFound = errors.New("Theme/Type not found")
)

// NotFoundError names the missing theme or quest type.
type NotFoundError struct {
	Kind  string
	Theme string
	Type  string
}

func (e *NotFoundError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("%s: quest type %q not found in theme %q", ErrNotFound, e.Type, e.Theme)
	}
	return fmt.Sprintf("%s: theme %q not found in %s data", ErrNotFound, e.Theme, e.Kind)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
