package redirect

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitURL(t *testing.T) {
	got := WaitURL("/abos/wait.html", "DIGIY-POS-1-ABC", Params{
		Phone:  "221771234567",
		Module: "POS",
		Slug:   "standard-a1b2c3d4",
	})

	u, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "/abos/wait.html", u.Path)

	q := u.Query()
	assert.Equal(t, "DIGIY-POS-1-ABC", q.Get("ref"))
	assert.Equal(t, "221771234567", q.Get("phone"))
	assert.Equal(t, "POS", q.Get("module"))
	assert.Equal(t, "standard-a1b2c3d4", q.Get("slug"))
}

func TestWaitURLOmitsEmptyContext(t *testing.T) {
	got := WaitURL("/abos/wait.html", "REF-1", Params{})

	u, err := url.Parse(got)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "REF-1", q.Get("ref"))
	assert.NotContains(t, q, "phone")
	assert.NotContains(t, q, "module")
	assert.NotContains(t, q, "slug")
}

func TestWaitURLEncodesReference(t *testing.T) {
	got := WaitURL("/abos/wait.html", "REF WITH SPACE&=", Params{})

	u, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "REF WITH SPACE&=", u.Query().Get("ref"))
}
