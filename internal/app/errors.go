package app

import "errors"

var (
	// ErrIdentityMismatch is returned when the registry lists this node
	// with a public key other than the one derived from the signing config.
	ErrIdentityMismatch = errors.New("registry key does not match node identity")

	// ErrNoKeySource is returned when neither a key file nor a passphrase
	// is configured.
	ErrNoKeySource = errors.New("no signing key source configured")
)
