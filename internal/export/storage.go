package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Storage uploads rendered documents to the object store over HTTP and
// returns the public URL the voucher should record.
type Storage struct {
	baseURL    string
	publicURL  string
	httpClient *http.Client
}

// NewStorage constructs a storage client. publicURL may differ from
// baseURL when uploads go through an internal endpoint.
func NewStorage(baseURL, publicURL string) *Storage {
	if publicURL == "" {
		publicURL = baseURL
	}
	return &Storage{
		baseURL:   strings.TrimRight(baseURL, "/"),
		publicURL: strings.TrimRight(publicURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Upload stores the document bytes under the given filename.
func (s *Storage) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	if s == nil || s.baseURL == "" {
		return "", fmt.Errorf("storage not configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.baseURL+"/"+filename, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/pdf")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return "", fmt.Errorf("storage response %d: %s", resp.StatusCode, string(body))
	}
	return s.publicURL + "/" + filename, nil
}
