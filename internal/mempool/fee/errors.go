package fee

import "errors"

var (
	// ErrDecode reports that a transaction's argument payload could not be
	// parsed for fee extraction. The item is rejected from the mempool and
	// reported to its submitter.
	ErrDecode = errors.New("fee: malformed payload")

	// ErrUnknownBackend reports that fee extraction cannot classify which
	// backend a transaction targets.
	ErrUnknownBackend = errors.New("fee: unknown backend")

	// ErrInvalidPolyjuiceArgs reports a Polyjuice argument payload shorter
	// than the 52-byte minimum accepted length. Wrapped together with
	// ErrDecode so callers can match on either.
	ErrInvalidPolyjuiceArgs = errors.New("fee: invalid polyjuice args")
)
