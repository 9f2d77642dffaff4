// Package errors provides the structured error type used for configuration,
// connection setup, and middleware failures.
//
// Errors raised by the HTTP/2 transport itself are never wrapped in an
// AppError; they reach the caller exactly as the transport produced them.
package errors
