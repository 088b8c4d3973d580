package vouch

import "errors"

// Sentinel kinds for vouch validation. These are returned, never panicked,
// so front-ends can surface them to end users.
var (
	ErrEmptyAgent         = errors.New("empty agent identifier")
	ErrSelfVouch          = errors.New("cannot vouch for yourself")
	ErrVoucherScoreTooLow = errors.New("voucher trust too low")
	ErrStakeTooHigh       = errors.New("stake exceeds allowed fraction of voucher score")
	ErrVouchLimit         = errors.New("max active vouches reached")
	ErrDuplicateVouch     = errors.New("already vouching for this agent")
	ErrInvalidSeverity    = errors.New("severity must be between 0 and 1")
)
