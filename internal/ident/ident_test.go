package ident

import (
	"regexp"
	"strings"
	"testing"

	"github.com/BEAUVILLE/abos/internal/validate"
	"github.com/stretchr/testify/assert"
)

var slugShape = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*-[0-9a-f]{8}$`)

func TestSlug(t *testing.T) {
	t.Run("PlanPrefix", func(t *testing.T) {
		s := Slug("standard")
		assert.True(t, strings.HasPrefix(s, "standard-"), s)
		assert.Regexp(t, slugShape, s)
	})

	t.Run("PrefixIsNormalized", func(t *testing.T) {
		s := Slug("  Boutique Awa ")
		assert.True(t, strings.HasPrefix(s, "boutique-awa-"), s)
	})

	t.Run("EmptyPrefixFallsBack", func(t *testing.T) {
		for _, raw := range []string{"", "   ", "!!!"} {
			s := Slug(raw)
			assert.True(t, strings.HasPrefix(s, DefaultSlugWord+"-"), s)
		}
	})

	t.Run("SurvivesNormalization", func(t *testing.T) {
		// Generated slugs are already in normalized form.
		s := Slug("POS")
		assert.Equal(t, s, validate.NormalizeSlug(s))
		assert.GreaterOrEqual(t, len(s), 3)
	})
}

func TestReference(t *testing.T) {
	ref := Reference("POS")
	parts := strings.Split(ref, "-")
	assert.Len(t, parts, 4)
	assert.Equal(t, "DIGIY", parts[0])
	assert.Equal(t, "POS", parts[1])
	assert.Regexp(t, `^\d{10,}$`, parts[2])
	assert.Regexp(t, `^[0-9A-F]{6}$`, parts[3])
}

func TestReferenceModuleSanitized(t *testing.T) {
	tests := []struct {
		name   string
		module string
		want   string
	}{
		{"Lowercased", "pos", "POS"},
		{"SymbolsStripped", "pos/café", "POSCAF"},
		{"LengthCapped", "averyverylongmodulename", "AVERYVERYLON"},
		{"EmptyFallsBack", "", "PAY"},
		{"OnlySymbolsFallsBack", "***", "PAY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := Reference(tt.module)
			assert.Equal(t, tt.want, strings.Split(ref, "-")[1])
		})
	}
}

func TestExtFromFilename(t *testing.T) {
	tests := []struct {
		name string
		file string
		want string
	}{
		{"SimpleJPG", "proof.jpg", "jpg"},
		{"UppercasePNG", "IMG_0042.PNG", "png"},
		{"MultiDot", "archive.tar.gz", "gz"},
		{"NoExtension", "screenshot", "jpg"},
		{"TrailingDot", "weird.", "jpg"},
		{"SymbolInExt", "file.jp!g", "jpg"},
		{"Empty", "", "jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtFromFilename(tt.file))
		})
	}
}

func TestRandHex(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		h := RandHex(8)
		assert.Regexp(t, `^[0-9a-f]{8}$`, h)
		seen[h] = true
	}
	assert.Greater(t, len(seen), 1, "random suffixes should vary")
}
