// Package errors provides structured errors with stable codes for the
// Unison runtime and CLI.
//
// Each registered code carries a category, a message, and usually a
// suggestion and documentation link:
//
//	return errors.New("E141").Wrap(err)
//
// The CLI prints these with Format; the server forwards Code and
// Message to clients in error frames.
package errors
