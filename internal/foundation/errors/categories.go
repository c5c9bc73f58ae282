package errors

import (
	"maps"
	"net/http"
	"slices"
)

// ErrorCategory classifies an error for status mapping, exit codes and logging.
type ErrorCategory string

const (
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"
	CategoryNotFound   ErrorCategory = "not_found"

	// Content loading. Both degrade instead of failing a request.
	CategorySourceUnavailable ErrorCategory = "source_unavailable"
	CategoryMalformedDate     ErrorCategory = "malformed_date"

	CategoryRender     ErrorCategory = "render"
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryRuntime    ErrorCategory = "runtime"
	CategoryInternal   ErrorCategory = "internal"
)

// ErrorSeverity indicates the impact level of an error.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution completely
	SeverityError   ErrorSeverity = "error"   // Fails the current operation
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

type categoryTraits struct {
	status     int
	exitCode   int
	severity   ErrorSeverity
	userFacing bool // shown without the cause chain unless -v
}

var traits = map[ErrorCategory]categoryTraits{
	CategoryConfig:            {http.StatusBadRequest, 7, SeverityFatal, true},
	CategoryValidation:        {http.StatusBadRequest, 2, SeverityFatal, true},
	CategoryNotFound:          {http.StatusNotFound, 4, SeverityInfo, true},
	CategorySourceUnavailable: {http.StatusServiceUnavailable, 3, SeverityWarning, true},
	CategoryMalformedDate:     {http.StatusUnprocessableEntity, 11, SeverityWarning, false},
	CategoryRender:            {http.StatusInternalServerError, 11, SeverityError, false},
	CategoryFileSystem:        {http.StatusInternalServerError, 11, SeverityError, false},
	CategoryRuntime:           {http.StatusServiceUnavailable, 12, SeverityFatal, false},
	CategoryInternal:          {http.StatusInternalServerError, 10, SeverityFatal, false},
}

func (c ErrorCategory) traits() categoryTraits {
	if t, ok := traits[c]; ok {
		return t
	}
	return categoryTraits{http.StatusInternalServerError, 1, SeverityError, false}
}

// HTTPStatus is the response status for errors of this category.
func (c ErrorCategory) HTTPStatus() int { return c.traits().status }

// ExitCode is the process exit code for errors of this category.
func (c ErrorCategory) ExitCode() int { return c.traits().exitCode }

// DefaultSeverity is applied by NewError.
func (c ErrorCategory) DefaultSeverity() ErrorSeverity { return c.traits().severity }

// UserFacing reports whether the message alone is meaningful to an operator.
func (c ErrorCategory) UserFacing() bool { return c.traits().userFacing }

// ErrorContext carries structured detail such as the store, record id or config field.
type ErrorContext map[string]any

// Set adds or updates a context value, allocating on a nil context.
func (c ErrorContext) Set(key string, value any) ErrorContext {
	if c == nil {
		c = ErrorContext{}
	}
	c[key] = value
	return c
}

// Get retrieves a context value.
func (c ErrorContext) Get(key string) (any, bool) {
	v, ok := c[key]
	return v, ok
}

// GetString retrieves a string context value.
func (c ErrorContext) GetString(key string) (string, bool) {
	s, ok := c[key].(string)
	return s, ok
}

// Merge returns a new context holding c overlaid with other.
func (c ErrorContext) Merge(other ErrorContext) ErrorContext {
	out := make(ErrorContext, len(c)+len(other))
	maps.Copy(out, c)
	maps.Copy(out, other)
	return out
}

// Keys returns the context keys in sorted order.
func (c ErrorContext) Keys() []string {
	return slices.Sorted(maps.Keys(c))
}
