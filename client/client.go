// Package client talks to the attendance API the way the web UI does.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/attendance/core/attendance"
)

const attendancePath = "/api/attendance"

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Message    string
	Fields     map[string]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

// IsValidationError reports whether err is an API rejection of the submitted record.
func IsValidationError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusBadRequest
}

type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a Client for the API at baseURL (e.g. http://localhost:5000).
func New(baseURL string, httpClient ...*http.Client) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	if len(httpClient) > 0 && httpClient[0] != nil {
		c.http = httpClient[0]
	}
	return c
}

// List fetches every attendance record, in store order.
func (c *Client) List(ctx context.Context) ([]attendance.Record, error) {
	recs := make([]attendance.Record, 0)
	if err := c.do(ctx, http.MethodGet, nil, http.StatusOK, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// Create submits a new attendance record and returns it as stored.
func (c *Client) Create(ctx context.Context, nr attendance.NewRecord) (attendance.Record, error) {
	var rec attendance.Record
	if err := c.do(ctx, http.MethodPost, nr, http.StatusCreated, &rec); err != nil {
		return attendance.Record{}, err
	}
	return rec, nil
}

func (c *Client) do(ctx context.Context, method string, in interface{}, wantCode int, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "encoding request")
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+attendancePath, body)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, attendancePath)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantCode {
		return decodeAPIError(resp)
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decoding response")
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var payload struct {
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Message != "" {
		apiErr.Message = payload.Message
		apiErr.Fields = payload.Fields
	} else {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
