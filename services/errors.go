// services/errors.go
package services

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNotAMember rejects callers whose account is not a member account.
	ErrNotAMember = errors.New("account is not a member account")

	// ErrInvalidPeriodRange rejects period creation with missing or inverted dates.
	ErrInvalidPeriodRange = errors.New("profit period requires a valid start and end date")

	// ErrPeriodNotFound means the requested profit period does not exist.
	ErrPeriodNotFound = errors.New("profit period not found")

	// ErrFinalizedPeriodMutation rejects any attempt to alter or delete a
	// period past the status that allows it.
	ErrFinalizedPeriodMutation = errors.New("profit period status does not allow this operation")
)

// MemberCalculationError isolates one member's failure inside a period
// calculation batch. It is collected, not propagated, so a bad member record
// never aborts the whole period.
type MemberCalculationError struct {
	MemberID primitive.ObjectID
	Err      error
}

func (e *MemberCalculationError) Error() string {
	return fmt.Sprintf("member %s: %v", e.MemberID.Hex(), e.Err)
}

func (e *MemberCalculationError) Unwrap() error {
	return e.Err
}
