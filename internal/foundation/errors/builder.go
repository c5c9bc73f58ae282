package errors

// ErrorBuilder assembles a ClassifiedError.
type ErrorBuilder struct {
	err ClassifiedError
}

// NewError starts an error with the category's default severity.
func NewError(category ErrorCategory, message string) *ErrorBuilder {
	return &ErrorBuilder{err: ClassifiedError{
		category: category,
		severity: category.DefaultSeverity(),
		message:  message,
	}}
}

// WrapError starts an error that wraps cause.
func WrapError(cause error, category ErrorCategory, message string) *ErrorBuilder {
	return NewError(category, message).WithCause(cause)
}

func (b *ErrorBuilder) WithSeverity(severity ErrorSeverity) *ErrorBuilder {
	b.err.severity = severity
	return b
}

func (b *ErrorBuilder) WithCause(err error) *ErrorBuilder {
	b.err.cause = err
	return b
}

func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.err.context = b.err.context.Set(key, value)
	return b
}

func (b *ErrorBuilder) Fatal() *ErrorBuilder   { return b.WithSeverity(SeverityFatal) }
func (b *ErrorBuilder) Warning() *ErrorBuilder { return b.WithSeverity(SeverityWarning) }
func (b *ErrorBuilder) Info() *ErrorBuilder    { return b.WithSeverity(SeverityInfo) }

// Build returns the error. The builder can keep being used; later calls do
// not affect errors already built.
func (b *ErrorBuilder) Build() *ClassifiedError {
	e := b.err
	e.context = ErrorContext{}.Merge(b.err.context)
	return &e
}

func ConfigError(message string) *ErrorBuilder {
	return NewError(CategoryConfig, message)
}

// ValidationError is a data or usage error; loaders attach store, id and field.
func ValidationError(message string) *ErrorBuilder {
	return NewError(CategoryValidation, message)
}

// NotFoundError is a lookup miss. Callers recover it locally into fallback output.
func NotFoundError(kind, id string) *ErrorBuilder {
	return NewError(CategoryNotFound, kind+" not found").
		WithContext("kind", kind).
		WithContext("id", id)
}

// SourceUnavailableError marks a data file that could not be opened or parsed.
func SourceUnavailableError(store string, cause error) *ErrorBuilder {
	return WrapError(cause, CategorySourceUnavailable, "content source unavailable").
		WithContext("store", store)
}

func MalformedDateError(raw string) *ErrorBuilder {
	return NewError(CategoryMalformedDate, "unparsable date").WithContext("value", raw)
}

func RenderError(message string) *ErrorBuilder {
	return NewError(CategoryRender, message)
}

func FileSystemError(message string) *ErrorBuilder {
	return NewError(CategoryFileSystem, message)
}

func RuntimeError(message string) *ErrorBuilder {
	return NewError(CategoryRuntime, message)
}

func InternalError(message string) *ErrorBuilder {
	return NewError(CategoryInternal, message)
}
