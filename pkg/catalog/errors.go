package catalog

import (
	"errors"
	"fmt"
)

// ErrUnknownValue is matched by every decode failure in this package
var ErrUnknownValue = errors.New("unknown enumerated value")

// UnknownCategoryError is returned when a string matches none of the rating labels
type UnknownCategoryError struct {
	Value string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown rating: %q", e.Value)
}

// Is reports whether target is ErrUnknownValue
func (e *UnknownCategoryError) Is(target error) bool {
	return target == ErrUnknownValue
}

// UnknownFeatureError is returned when a token matches none of the special feature labels
type UnknownFeatureError struct {
	Value string
}

func (e *UnknownFeatureError) Error() string {
	return fmt.Sprintf("unknown special feature: %q", e.Value)
}

// Is reports whether target is ErrUnknownValue
func (e *UnknownFeatureError) Is(target error) bool {
	return target == ErrUnknownValue
}
