package gasless

import (
	"fmt"
	"strings"
)

// ValidationError reports a client input problem: a missing field, a
// non-positive amount, or a malformed address. These map to HTTP 400 at the
// boundary and are never retryable.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

// validationErrorf is a helper to format validation error strings.
func validationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{msg: strings.TrimSpace(fmt.Sprintf(format, args...))}
}

// TokenAddressError reports a token mint that failed to parse as a public
// key. The raw parse error is preserved for diagnosis and surfaced to the
// caller with a 400.
type TokenAddressError struct {
	Mint string
	Err  error
}

func (e *TokenAddressError) Error() string {
	return fmt.Sprintf("invalid token address %q: %v", e.Mint, e.Err)
}

func (e *TokenAddressError) Unwrap() error {
	return e.Err
}

// ConfigError reports a deployment problem, most notably a missing fee-payer
// secret. Clients cannot fix these by retrying; they map to HTTP 500 until an
// operator intervenes.
type ConfigError struct {
	msg string
}

func (e *ConfigError) Error() string {
	return e.msg
}

// BuildError wraps a failure while deriving or querying token accounts during
// instruction building. Nothing was mutated, so the caller may safely retry
// the whole request; this package never retries internally.
type BuildError struct {
	Err error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("failed to build transfer instructions: %v", e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// AssemblyError wraps a failure while fetching the blockhash, signing, or
// serializing the transaction. Same retry semantics as BuildError.
type AssemblyError struct {
	Err error
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("failed to assemble transaction: %v", e.Err)
}

func (e *AssemblyError) Unwrap() error {
	return e.Err
}
