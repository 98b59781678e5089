package database

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// RemoteStore talks to the hosted document database over its REST API:
//
//	GET   {base}/collections/{c}/documents?field=value
//	POST  {base}/collections/{c}/documents        {"documentId": id, "data": {...}}
//	PATCH {base}/collections/{c}/documents/{id}   {"data": {...}}
type RemoteStore struct {
	baseURL    *url.URL
	apiKey     string
	httpClient *http.Client
}

func NewRemoteStore(baseURL, apiKey string) (*RemoteStore, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid document API URL %q: %w", baseURL, err)
	}
	return &RemoteStore{
		baseURL: u,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}, nil
}

type listResponse struct {
	Documents []Document `json:"documents"`
}

func (s *RemoteStore) ListDocuments(ctx context.Context, collection string, filters Filters) ([]Document, error) {
	endpoint := s.baseURL.JoinPath("collections", collection, "documents")
	q := endpoint.Query()
	for k, v := range filters {
		q.Set(k, fmt.Sprint(v))
	}
	endpoint.RawQuery = q.Encode()

	var out listResponse
	if err := s.do(ctx, http.MethodGet, endpoint.String(), nil, &out); err != nil {
		return nil, storeErr("list", collection, err)
	}
	return out.Documents, nil
}

func (s *RemoteStore) CreateDocument(ctx context.Context, collection, id string, fields map[string]interface{}) (Document, error) {
	endpoint := s.baseURL.JoinPath("collections", collection, "documents")
	body := map[string]interface{}{"documentId": id, "data": fields}

	var doc Document
	if err := s.do(ctx, http.MethodPost, endpoint.String(), body, &doc); err != nil {
		return nil, storeErr("create", collection, err)
	}
	return doc, nil
}

func (s *RemoteStore) UpdateDocument(ctx context.Context, collection, id string, fields map[string]interface{}) (Document, error) {
	endpoint := s.baseURL.JoinPath("collections", collection, "documents", id)
	body := map[string]interface{}{"data": fields}

	var doc Document
	if err := s.do(ctx, http.MethodPatch, endpoint.String(), body, &doc); err != nil {
		return nil, storeErr("update", collection, err)
	}
	return doc, nil
}

// Transaction runs fn directly: the hosted API has no multi-document
// transactions, so steps inside fn commit one by one.
func (s *RemoteStore) Transaction(ctx context.Context, fn func(tx DocumentStore) error) error {
	return fn(s)
}

func (s *RemoteStore) do(ctx context.Context, method, endpoint string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-API-Key", s.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to document API failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("document API returned %d: %s", resp.StatusCode, string(msg))
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("failed to decode document API response: %w", err)
	}
	return nil
}
