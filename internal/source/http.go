package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/andybalholm/brotli"

	"cert-roster/internal/httpx"
	"cert-roster/internal/roster"
)

// HTTPSource fetches a snapshot exported by the personnel web application.
type HTTPSource struct {
	URL         string
	BearerToken string
	HTTP        *http.Client
	Retry       httpx.RetryPolicy
}

func NewHTTPSource(url, token string) *HTTPSource {
	tr := &http.Transport{
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &HTTPSource{
		URL:         strings.TrimSpace(url),
		BearerToken: strings.TrimSpace(token),
		HTTP:        &http.Client{Transport: tr, Timeout: 2 * time.Minute},
		Retry:       httpx.DefaultRetryPolicy(),
	}
}

func (s *HTTPSource) Name() string { return "http:" + s.URL }

func (s *HTTPSource) Load(ctx context.Context) (*roster.Snapshot, error) {
	resp, body, err := httpx.Do(ctx, s.HTTP, func(ctx context.Context) (*http.Request, error) {
		r, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
		if err != nil {
			return nil, err
		}
		r.Header.Set("Accept", "application/json, application/yaml")
		// Setting Accept-Encoding ourselves disables the transport's
		// transparent gzip, so only br and identity are offered.
		r.Header.Set("Accept-Encoding", "br, identity")
		if s.BearerToken != "" {
			r.Header.Set("Authorization", "Bearer "+s.BearerToken)
		}
		return r, nil
	}, s.Retry)
	if err != nil {
		return nil, fmt.Errorf("source: fetch roster: %w", err)
	}

	var r io.Reader = bytes.NewReader(body)
	if strings.EqualFold(strings.TrimSpace(resp.Header.Get("Content-Encoding")), "br") {
		r = brotli.NewReader(r)
	}

	snap, err := roster.Decode(r, formatFromContentType(resp.Header.Get("Content-Type")))
	if err != nil {
		return nil, fmt.Errorf("source: %s: %w", s.URL, err)
	}
	return snap, nil
}

func formatFromContentType(ct string) roster.Format {
	ct = strings.ToLower(ct)
	if strings.Contains(ct, "yaml") {
		return roster.FormatYAML
	}
	return roster.FormatJSON
}
