package tradelog

import (
	"encoding/json"
	"fmt"
)

// RejectReason tells why the ledger refused a transaction.
//
// Reasons are matched by value inside the engine; String returns the
// historical messages shown to users, which must not change.
type RejectReason int

const (
	NotRejected RejectReason = iota
	MissingRequiredFields
	NegativeEquity
	CrossingZero
	NonPositiveQuantity
)

func (r RejectReason) String() string {
	switch r {
	case NotRejected:
		return ""
	case MissingRequiredFields:
		return "Missing required fields"
	case NegativeEquity:
		return "Equities cannot be negative (long-only)"
	case CrossingZero:
		return "Crossing zero not allowed"
	case NonPositiveQuantity:
		return "Quantity must be positive"
	default:
		return fmt.Sprintf("unknown reason %d", int(r))
	}
}

// MarshalJSON renders the reason as its message.
func (r RejectReason) MarshalJSON() ([]byte, error) { return json.Marshal(r.String()) }

// UnmarshalJSON parses a reason message.
func (r *RejectReason) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for _, c := range []RejectReason{NotRejected, MissingRequiredFields, NegativeEquity, CrossingZero, NonPositiveQuantity} {
		if c.String() == s {
			*r = c
			return nil
		}
	}
	return fmt.Errorf("unknown reject reason %q", s)
}
