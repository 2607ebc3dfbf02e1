package models

import "time"

type AttemptState string

func (s AttemptState) String() string {
	return string(s)
}

const (
	AttemptUploading  AttemptState = "UPLOADING"
	AttemptUploaded   AttemptState = "UPLOADED"
	AttemptRegistered AttemptState = "REGISTERED"
	AttemptFailed     AttemptState = "FAILED"
	// AttemptOrphaned marks an upload that never got a matching payment
	// record and aged past the reconciliation threshold.
	AttemptOrphaned AttemptState = "ORPHANED"
)

// Attempt is one journal row per submission that made it past validation.
// The journal only observes the workflow; the payment backend stays the
// system of record.
type Attempt struct {
	ID        string       `json:"id"`
	Reference string       `json:"reference"`
	Slug      string       `json:"slug"`
	Phone     string       `json:"phone"`
	Module    string       `json:"module"`
	Plan      string       `json:"plan"`
	Amount    int64        `json:"amount"`
	ProofPath string       `json:"proof_path"`
	State     AttemptState `json:"state"`
	Error     string       `json:"error,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
