package normalize

import "fmt"

// MissingRoundError reports a raw record whose round could not be
// determined. The record is rejected; the rest of the batch proceeds.
type MissingRoundError struct {
	// Raw is the value found under the round key, nil if absent.
	Raw any
}

func (e *MissingRoundError) Error() string {
	if e.Raw == nil {
		return "round missing from raw record"
	}
	return fmt.Sprintf("round not resolvable from %q", fmt.Sprint(e.Raw))
}

// Reject pairs a normalization failure with the record's position in the
// source batch, so the failure can be logged and excluded without
// aborting the remaining records.
type Reject struct {
	Pos int
	Err error
}

func (r Reject) Error() string {
	return fmt.Sprintf("record %d: %v", r.Pos, r.Err)
}

func (r Reject) Unwrap() error { return r.Err }
