package models

// ProofArtifact is the payment screenshot selected by the payer. It lives
// only for the duration of one submission attempt.
type ProofArtifact struct {
	Content     []byte
	ContentType string
	Size        int64
	Filename    string
}

// StorageObjectRef describes where a proof artifact ended up after a
// successful upload. Immutable once returned.
type StorageObjectRef struct {
	Bucket   string         `json:"bucket"`
	Path     string         `json:"path"`
	Metadata map[string]any `json:"metadata,omitempty"`
}
