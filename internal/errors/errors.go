// Package errors defines the error taxonomy for the Parquet modular
// encryption core. Every failure is terminal for the affected module:
// the core performs no retries and no recovery, and panics are reserved
// for true programmer errors (out-of-range slice access), never for
// expected failure modes.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for AEAD setup and operation (component C1).
var (
	// ErrCryptoSetup indicates an unsupported key length or algorithm.
	ErrCryptoSetup = errors.New("pqcrypt: unsupported key length or algorithm")

	// ErrRandomness indicates the OS CSPRNG failed during seed or
	// file-AAD generation.
	ErrRandomness = errors.New("pqcrypt: secure random source failed")

	// ErrNonceExhausted indicates a BlockEncryptor's nonce counter has
	// wrapped around; the key must be rotated before further encryption.
	ErrNonceExhausted = errors.New("pqcrypt: nonce sequence exhausted, rekey required")

	// ErrAuthenticationFailed indicates a GCM open failed: bad key,
	// tampered ciphertext, truncated frame, or mismatched AAD.
	ErrAuthenticationFailed = errors.New("pqcrypt: authentication failed")

	// ErrFrameTooShort indicates a frame is too small to contain a valid
	// length prefix, nonce, and tag.
	ErrFrameTooShort = errors.New("pqcrypt: encrypted frame too short")
)

// Sentinel errors for AAD construction (component C2).
var (
	// ErrAadOrdinal indicates a negative or out-of-range ordinal was
	// passed to the AAD builder.
	ErrAadOrdinal = errors.New("pqcrypt: row-group, column, or page ordinal out of range")
)

// Sentinel errors for key routing and properties (components C3-C6).
var (
	// ErrUnencryptedColumn indicates a column encryptor/decryptor was
	// requested for a column path absent from a selective key map.
	ErrUnencryptedColumn = errors.New("pqcrypt: column is not configured for encryption")

	// ErrMissingFooterKey indicates decryption properties were built
	// without a footer key where one is required.
	ErrMissingFooterKey = errors.New("pqcrypt: footer key is required")
)

// Sentinel errors for page encryption (component C7).
var (
	// ErrUnsupportedPageType indicates page-header encryption was
	// requested for a page type other than data v1/v2 or dictionary.
	ErrUnsupportedPageType = errors.New("pqcrypt: unsupported page type for header encryption")
)

// Sentinel errors for the object codec (component C8).
var (
	// ErrSerialization indicates the caller's Marshaler failed to produce
	// bytes for an object being encrypted, or its Unmarshaler failed to
	// decode a decrypted object.
	ErrSerialization = errors.New("pqcrypt: object serialization failed")
)

// CryptoError wraps an AEAD-layer error with the operation that failed.
type CryptoError struct {
	Op  string // Operation that failed, e.g. "BlockEncryptor.Seal"
	Err error  // Underlying sentinel error
}

func (e *CryptoError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *CryptoError) Unwrap() error {
	return e.Err
}

// NewCryptoError creates a new CryptoError.
func NewCryptoError(op string, err error) *CryptoError {
	return &CryptoError{Op: op, Err: err}
}

// ModuleError wraps an error with the Parquet module and the operation it
// occurred during, for precise diagnostics at the writer/reader boundary.
type ModuleError struct {
	Module string // Module type name, e.g. "DataPage"
	Op     string // Operation that failed, e.g. "encrypt", "decrypt", "buildAAD"
	Err    error  // Underlying sentinel error
}

func (e *ModuleError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Module, e.Op, e.Err)
}

func (e *ModuleError) Unwrap() error {
	return e.Err
}

// NewModuleError creates a new ModuleError.
func NewModuleError(module, op string, err error) *ModuleError {
	return &ModuleError{Module: module, Op: op, Err: err}
}

// Is reports whether any error in err's chain matches target. Convenience
// wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// Convenience wrapper around errors.As.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
