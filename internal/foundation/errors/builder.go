package errors

// ErrorBuilder provides a fluent API for creating ClassifiedError instances.
type ErrorBuilder struct {
	category ErrorCategory
	severity ErrorSeverity
	message  string
	cause    error
	context  ErrorContext
}

// NewError creates a new ErrorBuilder with the specified category and message.
func NewError(category ErrorCategory, message string) *ErrorBuilder {
	return &ErrorBuilder{
		category: category,
		severity: SeverityError,
		message:  message,
		context:  make(ErrorContext),
	}
}

// WrapError creates a new ErrorBuilder that wraps an existing error.
func WrapError(err error, category ErrorCategory, message string) *ErrorBuilder {
	b := NewError(category, message)
	b.cause = err
	return b
}

// WithSeverity sets the error severity.
func (b *ErrorBuilder) WithSeverity(severity ErrorSeverity) *ErrorBuilder {
	b.severity = severity
	return b
}

// WithContext adds a context key-value pair.
func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.context = b.context.Set(key, value)
	return b
}

// Fatal sets the severity to fatal.
func (b *ErrorBuilder) Fatal() *ErrorBuilder {
	return b.WithSeverity(SeverityFatal)
}

// Silent marks an error whose details have already been reported to the
// user; the CLI adapter only exits with the mapped code.
func (b *ErrorBuilder) Silent() *ErrorBuilder {
	return b.WithContext(contextSilent, true)
}

// Build creates the final ClassifiedError.
func (b *ErrorBuilder) Build() *ClassifiedError {
	return &ClassifiedError{
		category: b.category,
		severity: b.severity,
		message:  b.message,
		cause:    b.cause,
		context:  b.context,
	}
}

// DocumentReadError creates an error for a document that cannot be read or decoded.
func DocumentReadError(path string, cause error) *ErrorBuilder {
	return WrapError(cause, CategoryDocumentRead, "cannot read document").WithContext("path", path)
}

// DocumentParseError creates an error for a document that cannot be converted to a tree.
func DocumentParseError(path string, cause error) *ErrorBuilder {
	return WrapError(cause, CategoryDocumentParse, "cannot parse document").WithContext("path", path)
}

// ConfigError creates an error for a configuration file that cannot be used.
func ConfigError(path, message string, cause error) *ErrorBuilder {
	return WrapError(cause, CategoryConfig, message).WithContext("path", path).Fatal()
}

// ValidationError creates a usage/validation error.
func ValidationError(message string) *ErrorBuilder {
	return NewError(CategoryValidation, message).Fatal()
}

// FileSystemError creates a filesystem error.
func FileSystemError(message string) *ErrorBuilder {
	return NewError(CategoryFileSystem, message)
}
