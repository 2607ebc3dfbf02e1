package validate

import (
	"strings"

	"github.com/BEAUVILLE/abos/models"
)

// Field identifies the input control that failed validation so the
// presentation layer can scroll to, highlight and focus it.
type Field string

const (
	FieldNone   Field = ""
	FieldPhone  Field = "phone"
	FieldAmount Field = "amount"
	FieldProof  Field = "proof"
	FieldModule Field = "module"
	FieldPlan   Field = "plan"
)

const (
	// MaxProofSize is the upload ceiling for a proof image.
	MaxProofSize = 8 << 20

	// MinAmount is the smallest accepted amount, in the smallest
	// currency unit.
	MinAmount = 100

	minPhoneDigits = 9
)

// Outcome reports either a valid submission or the first field that
// failed and why. It is a value, never persisted.
type Outcome struct {
	Valid  bool
	Field  Field
	Reason string
}

func OK() Outcome {
	return Outcome{Valid: true}
}

func Fail(field Field, reason string) Outcome {
	return Outcome{Field: field, Reason: reason}
}

// NormalizePhone strips everything but decimal digits. Numbers with fewer
// than 9 digits are treated as missing and collapse to the empty string.
// No country-code canonicalization is attempted.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() < minPhoneDigits {
		return ""
	}
	return b.String()
}

// NormalizeSlug lower-cases, trims, collapses whitespace runs to single
// hyphens, drops everything outside [a-z0-9-], collapses repeated hyphens
// and trims leading/trailing ones. Idempotent.
func NormalizeSlug(raw string) string {
	s := strings.Join(strings.Fields(strings.ToLower(raw)), "-")

	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	s = b.String()

	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return strings.Trim(s, "-")
}

// ValidAmount reports whether n is an acceptable payment amount.
func ValidAmount(n int64) bool {
	return n >= MinAmount
}

// Proof validates the selected artifact: required, image MIME type, at
// most MaxProofSize bytes.
func Proof(a *models.ProofArtifact) Outcome {
	if a == nil || (a.Size == 0 && len(a.Content) == 0) {
		return Fail(FieldProof, "payment proof image is required")
	}
	if !strings.HasPrefix(a.ContentType, "image/") {
		return Fail(FieldProof, "only image files are accepted")
	}
	if a.Size > MaxProofSize {
		return Fail(FieldProof, "file too large (max 8 MiB)")
	}
	return OK()
}

// Submission runs the full validation pipeline in its fixed order:
// phone, amount, artifact, then the required order fields. It
// short-circuits on the first failure and returns the normalized phone
// so the caller can write it back into the order. The slug is never a
// hard failure; the workflow regenerates unusable slugs instead.
func Submission(o *models.Order, a *models.ProofArtifact) (string, Outcome) {
	phone := NormalizePhone(o.Phone)
	if phone == "" {
		return "", Fail(FieldPhone, "phone number is required (ex: 221771234567)")
	}
	if !ValidAmount(o.Amount) {
		return phone, Fail(FieldAmount, "invalid amount (ex: 12900)")
	}
	if out := Proof(a); !out.Valid {
		return phone, out
	}
	if strings.TrimSpace(o.Module) == "" {
		return phone, Fail(FieldModule, "module is required")
	}
	if strings.TrimSpace(o.Plan) == "" {
		return phone, Fail(FieldPlan, "plan is required")
	}
	return phone, OK()
}
