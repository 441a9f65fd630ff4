// Package errors provides the classified error primitives used across mdimages.
//
// Errors carry a category (what kind of boundary failed), a severity and a
// free-form context map. The CLI adapter turns them into exit codes and
// user-facing messages.
//
// Example usage:
//
//	err := errors.WrapError(ioErr, errors.CategoryDocumentRead, "failed to read document").
//		WithContext("path", path).
//		Build()
package errors
