package embedded

import (
	"github.com/pkg/errors"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidTier       = errors.New("invalid tier")
	ErrNoFloor           = errors.New("no floor")
	ErrFloorFull         = errors.New("floor is full")
	ErrFloorNotFull      = errors.New("floor is not full")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrOverflow          = errors.New("overflow")
	ErrInvalidTimestamp  = errors.New("invalid timestamp")
	ErrNothingToClaim    = errors.New("nothing to claim")

	ErrAlreadyDeployed = errors.New("contract is already deployed")
	ErrUnknownMethod   = errors.New("unknown method")
	ErrInvalidConfig   = errors.New("invalid contract config")
)

var knownErrors = []error{
	ErrNotFound, ErrInvalidTier, ErrNoFloor, ErrFloorFull, ErrFloorNotFull, ErrInsufficientFunds,
	ErrOverflow, ErrInvalidTimestamp, ErrNothingToClaim, ErrAlreadyDeployed, ErrUnknownMethod, ErrInvalidConfig,
}

// ErrorCode returns the stable code of a contract error or an empty string for foreign errors.
func ErrorCode(err error) string {
	for _, known := range knownErrors {
		if errors.Is(err, known) {
			return codes[known]
		}
	}
	return ""
}

var codes = map[error]string{
	ErrNotFound:          "NotFound",
	ErrInvalidTier:       "InvalidTier",
	ErrNoFloor:           "NoFloor",
	ErrFloorFull:         "FloorFull",
	ErrFloorNotFull:      "FloorNotFull",
	ErrInsufficientFunds: "InsufficientFunds",
	ErrOverflow:          "Overflow",
	ErrInvalidTimestamp:  "InvalidTimestamp",
	ErrNothingToClaim:    "NothingToClaim",
	ErrAlreadyDeployed:   "AlreadyDeployed",
	ErrUnknownMethod:     "UnknownMethod",
	ErrInvalidConfig:     "InvalidConfig",
}
