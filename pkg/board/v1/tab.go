package boardv1

import (
	"net/http"
	"sync"
)

// TabHeader carries the tab token. The server returns a token whenever it
// issues or rotates one; the page keeps it in sessionStorage and sends it
// back on every call, so each browser tab has its own state.
const TabHeader = "Board-Tab"

// TabTransport makes an HTTP client act as a single tab: it sends the
// last token the server returned and records new ones.
type TabTransport struct {
	// Base is the underlying transport; nil means http.DefaultTransport
	Base http.RoundTripper

	mu    sync.Mutex
	token string
}

// Token returns the current tab token, empty before the first call
func (t *TabTransport) Token() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.token
}

func (t *TabTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if token := t.Token(); token != "" {
		req = req.Clone(req.Context())
		req.Header.Set(TabHeader, token)
	}

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	resp, err := base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if token := resp.Header.Get(TabHeader); token != "" {
		t.mu.Lock()
		t.token = token
		t.mu.Unlock()
	}
	return resp, nil
}
