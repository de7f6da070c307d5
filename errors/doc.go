// Package errors provides the error taxonomy shared by every speechkit task.
// It implements a structured error type with machine codes, HTTP status
// mapping, and cause chaining following RFC 7807.
package errors
