package search

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
)

// dumpTransport appends the body of every outgoing request to a file so the
// traffic can be replayed or inspected offline. It wraps the real transport
// and restores the body before forwarding, so the request goes out intact.
type dumpTransport struct {
	path string
	next http.RoundTripper

	mu sync.Mutex
}

func newDumpTransport(path string, next http.RoundTripper) *dumpTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &dumpTransport{path: path, next: next}
}

func (t *dumpTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		var err error
		body, err = io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return nil, err
		}
		req.Body = io.NopCloser(bytes.NewReader(body))
	}

	if err := t.append(req.Method, req.URL.String(), body); err != nil {
		// A broken dump file should never fail the search itself.
		return t.next.RoundTrip(req)
	}

	return t.next.RoundTrip(req)
}

func (t *dumpTransport) append(method, url string, body []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	f, err := os.OpenFile(t.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%s %s\n%s\n\n", method, url, body); err != nil {
		return err
	}
	return nil
}
