package wallet

import "errors"

// Error is a deterministic validation or business-rule failure with a stable
// code the gateway surfaces to callers. Infrastructure failures stay plain
// wrapped errors and are never cached or surfaced verbatim.
type Error struct {
	Code string
}

func (e *Error) Error() string { return e.Code }

var (
	ErrInvalidAccount         = &Error{Code: "INVALID_ACCOUNT"}
	ErrInvalidAmount          = &Error{Code: "INVALID_AMOUNT"}
	ErrInvalidTable           = &Error{Code: "INVALID_TABLE"}
	ErrIdempotencyKeyRequired = &Error{Code: "IDEMPOTENCY_KEY_REQUIRED"}
	ErrInsufficientBalance    = &Error{Code: "INSUFFICIENT_BALANCE"}
	ErrReservationExpired     = &Error{Code: "RESERVATION_EXPIRED"}
	ErrReservationNotActive   = &Error{Code: "RESERVATION_NOT_ACTIVE"}
)

// CodeOf extracts the business error code, reporting false for
// infrastructure failures.
func CodeOf(err error) (string, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}

	return "", false
}

var knownErrors = map[string]*Error{
	ErrInvalidAccount.Code:         ErrInvalidAccount,
	ErrInvalidAmount.Code:          ErrInvalidAmount,
	ErrInvalidTable.Code:           ErrInvalidTable,
	ErrIdempotencyKeyRequired.Code: ErrIdempotencyKeyRequired,
	ErrInsufficientBalance.Code:    ErrInsufficientBalance,
	ErrReservationExpired.Code:     ErrReservationExpired,
	ErrReservationNotActive.Code:   ErrReservationNotActive,
}

// errByCode maps a replayed failure snapshot back to its sentinel so retried
// calls fail with the identical error value.
func errByCode(code string) error {
	if e, ok := knownErrors[code]; ok {
		return e
	}

	return &Error{Code: code}
}
