package pkg

import "errors"

// Failure taxonomy shared by pool discovery, quoting and transaction
// building. Callers match with errors.Is; nothing is retried internally.
var (
	// ErrPoolNotFound means no account exists at the address, or no active
	// pool matched the token pair.
	ErrPoolNotFound = errors.New("pool not found")

	// ErrOwnershipMismatch means an account exists but is not owned by the
	// expected swap program.
	ErrOwnershipMismatch = errors.New("account not owned by swap program")

	// ErrMalformedAccount means account data is shorter than the fixed
	// pool layout.
	ErrMalformedAccount = errors.New("malformed pool account data")

	// ErrVaultUnavailable means a vault balance read failed, so no quote
	// can be produced.
	ErrVaultUnavailable = errors.New("vault balance unavailable")

	// ErrMintAccountMissing means the mint account needed to determine the
	// owning token program does not exist.
	ErrMintAccountMissing = errors.New("mint account missing")
)
