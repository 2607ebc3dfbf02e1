// Package ident invents human-readable, collision-resistant identifiers
// for submissions that arrive without usable ones. No uniqueness check is
// performed here; the payment backend arbitrates collisions.
package ident

import (
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/BEAUVILLE/abos/internal/validate"
)

const (
	// DefaultSlugWord is the slug prefix of last resort when the caller
	// supplied nothing normalizable.
	DefaultSlugWord = "digiy"

	// ReferencePrefix starts every client-proposed payment reference.
	ReferencePrefix = "DIGIY"

	referenceDelim = "-"
	moduleMaxLen   = 12
	slugSuffixLen  = 8
	refSuffixLen   = 6
)

const hexDigits = "0123456789abcdef"

// RandHex returns n random lowercase hex characters. Not cryptographic;
// entropy here only needs to make collisions astronomically unlikely.
func RandHex(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = hexDigits[rand.Intn(len(hexDigits))]
	}
	return string(b)
}

// Slug builds a URL-safe slug from a prefix and a random suffix, e.g.
// "standard-a1b2c3d4". The prefix is normalized first and falls back to
// DefaultSlugWord when nothing survives normalization.
func Slug(prefix string) string {
	p := validate.NormalizeSlug(prefix)
	if p == "" {
		p = DefaultSlugWord
	}
	return p + "-" + RandHex(slugSuffixLen)
}

// Reference proposes a payment reference of the form
// DIGIY-{MODULE}-{epochMillis}-{RANDOM}. The server may still answer
// with a different canonical reference, which always wins.
func Reference(module string) string {
	parts := []string{
		ReferencePrefix,
		sanitizeModule(module),
		strconv.FormatInt(time.Now().UnixMilli(), 10),
		strings.ToUpper(RandHex(refSuffixLen)),
	}
	return strings.Join(parts, referenceDelim)
}

// sanitizeModule upper-cases the module code, strips everything outside
// [A-Z0-9_] and caps the length. An empty result falls back to "PAY".
func sanitizeModule(module string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(strings.TrimSpace(module)) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		}
		if b.Len() >= moduleMaxLen {
			break
		}
	}
	if b.Len() == 0 {
		return "PAY"
	}
	return b.String()
}

// ExtFromFilename derives a storage extension from the original filename:
// the trailing dot-segment of letters and digits, lower-cased. Defaults
// to "jpg" when absent or unparseable.
func ExtFromFilename(name string) string {
	lower := strings.ToLower(name)
	i := strings.LastIndexByte(lower, '.')
	if i < 0 || i == len(lower)-1 {
		return "jpg"
	}
	ext := lower[i+1:]
	for _, r := range ext {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return "jpg"
		}
	}
	return ext
}
