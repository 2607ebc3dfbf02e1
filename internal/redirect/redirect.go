// Package redirect builds the wait-page hand-off URL. Navigation itself
// is the browser's job; this side only decides what the destination
// needs to resume polling.
package redirect

import "net/url"

// Params is the optional context appended alongside the mandatory
// reference so the wait page does not have to re-ask the payer.
type Params struct {
	Phone  string
	Module string
	Slug   string
}

// WaitURL appends the canonical reference and any known context to the
// wait page path, percent-encoded.
func WaitURL(path, reference string, p Params) string {
	q := url.Values{}
	q.Set("ref", reference)
	if p.Phone != "" {
		q.Set("phone", p.Phone)
	}
	if p.Module != "" {
		q.Set("module", p.Module)
	}
	if p.Slug != "" {
		q.Set("slug", p.Slug)
	}
	return path + "?" + q.Encode()
}
