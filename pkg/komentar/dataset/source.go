package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"golang.org/x/net/html/charset"

	"github.com/cognicore/komentar/pkg/komentar/internalerr"
)

// Source opens the raw delimited table.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	String() string
}

// FileSource reads the table from the local filesystem.
type FileSource struct {
	Path string
}

// Open implements Source.
func (s FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", internalerr.ErrSourceUnavailable, s.Path, err)
	}
	return f, nil
}

func (s FileSource) String() string { return s.Path }

// HTTPSource fetches the table over HTTP. Bodies in a non-UTF-8 charset
// declared by Content-Type are decoded to UTF-8.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

// Open implements Source. Any non-2xx status is reported as
// internalerr.ErrSourceUnavailable and is not retried.
func (s HTTPSource) Open(ctx context.Context) (io.ReadCloser, error) {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", internalerr.ErrInvalidInput, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", internalerr.ErrSourceUnavailable, s.URL, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: fetch %s: status %d", internalerr.ErrSourceUnavailable, s.URL, resp.StatusCode)
	}

	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: decode %s: %v", internalerr.ErrSourceUnavailable, s.URL, err)
	}
	return decodedBody{Reader: body, closer: resp.Body}, nil
}

func (s HTTPSource) String() string { return s.URL }

type decodedBody struct {
	io.Reader
	closer io.Closer
}

func (b decodedBody) Close() error { return b.closer.Close() }
