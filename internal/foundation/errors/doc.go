// Package errors provides classified error primitives shared by the docsite packages.
//
// A ClassifiedError carries a category (config, content, not_found, ...), a severity
// and free-form context. The HTTP and CLI adapters turn categories into status codes
// and exit codes so callers never switch on error strings.
//
// Example usage:
//
//	err := errors.NotFoundError("page not found").
//		WithContext("slug", slug).
//		Build()
package errors
