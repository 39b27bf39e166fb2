package ecdsa

// ErrorKind identifies a kind of error. It has full support for errors.Is
// and errors.As, so the caller can directly check against an error kind
// when determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific Error.
const (
	// ErrInvalidPrivateKey is returned when a private key scalar is not in
	// the range [1, n-1].
	ErrInvalidPrivateKey = ErrorKind("ErrInvalidPrivateKey")

	// ErrInvalidPublicKey is returned when public key coordinates are out of
	// range or do not describe a point on the curve.
	ErrInvalidPublicKey = ErrorKind("ErrInvalidPublicKey")

	// ErrEntropy is returned when the random source fails or keeps producing
	// unusable values.
	ErrEntropy = ErrorKind("ErrEntropy")

	// ErrNonceExhausted is returned when every nonce drawn while signing led
	// to a degenerate signature.
	ErrNonceExhausted = ErrorKind("ErrNonceExhausted")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// Error identifies an error related to ECDSA keys or signatures. It has
// full support for errors.Is and errors.As, so the caller can ascertain the
// specific reason for the error by checking the underlying error.
type Error struct {
	Err         error
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	return e.Description
}

// Unwrap returns the underlying wrapped error.
func (e Error) Unwrap() error {
	return e.Err
}

// makeError creates an Error given a set of arguments.
func makeError(kind ErrorKind, desc string) Error {
	return Error{Err: kind, Description: desc}
}
