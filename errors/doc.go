// Package errors provides the structured error type shared by the asynchttp
// packages. Every synchronous failure (bad configuration, use after shutdown,
// invalid input) is an *AppError carrying a machine-readable code, so callers
// can branch on the code instead of matching strings.
package errors
