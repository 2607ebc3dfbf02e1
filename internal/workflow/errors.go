package workflow

import (
	"fmt"

	"github.com/BEAUVILLE/abos/internal/validate"
)

// Kind classifies how a submission attempt failed. Every attempt ends in
// exactly one kind or in success; no partial state is exposed.
type Kind string

const (
	// KindConfig: storage URL or key missing. Aborts before any network
	// call.
	KindConfig Kind = "config"
	// KindValidation: one specific field failed a rule. No network calls
	// have happened.
	KindValidation Kind = "validation"
	// KindUpload: the storage write failed. Nothing was registered; the
	// object may or may not exist in storage.
	KindUpload Kind = "upload"
	// KindRegistration: the privileged procedure failed or rejected the
	// payment. The uploaded object is now orphaned from any record.
	KindRegistration Kind = "registration"
	// KindBusy: another submission is already past validation.
	KindBusy Kind = "busy"
)

// Error is the single failure type a submission can end in. Field is set
// only for validation failures, so the caller can point the payer at the
// offending control.
type Error struct {
	Kind  Kind
	Field validate.Field
	Err   error
}

func (e *Error) Error() string {
	if e.Field != validate.FieldNone {
		return fmt.Sprintf("%s failed on %s: %v", e.Kind, e.Field, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func fail(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}
