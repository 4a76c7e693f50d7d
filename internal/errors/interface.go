// Package errors provides coded errors. Every failure the application
// reports carries an ErrorCode that callers can match with HasCode, an
// optional payload describing the offending value, and the wrapped cause.
package errors

// ErrorCode identifies a class of failure independent of its message.
type ErrorCode string

// Error is a coded error. WithMessage and WithData return modified copies.
type Error interface {
	error
	Code() ErrorCode
	WithMessage(msg string) Error
	WithData(data any) Error
	// Data returns the payload attached with WithData, or nil.
	Data() any
	Unwrap() error
}

// Factory builds coded errors.
type Factory interface {
	New(code ErrorCode) Error
	Wrap(code ErrorCode, err error) Error
	WithMessage(code ErrorCode, msg string) Error
	WithData(code ErrorCode, data any) Error
}
