// Package colab fetches citizen requests from the ColabGov case management API.
package colab

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gea-gov/gea/pkg/domain/interfaces"
	"github.com/gea-gov/gea/pkg/domain/model"
	"github.com/gea-gov/gea/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
)

var (
	ErrUnauthorized = goerr.New("external API rejected the credentials")
	ErrBadStatus    = goerr.New("external API returned an unexpected status")
)

const maxErrorBody = 512

// Client implements interfaces.CaseSource over HTTP with basic authentication
type Client struct {
	endpoint   *url.URL
	user       string
	password   string
	httpClient *http.Client
}

var _ interfaces.CaseSource = (*Client)(nil)

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// New creates a client for the case listing endpoint
func New(endpoint, user, password string, opts ...Option) (*Client, error) {
	endpoint = strings.TrimSpace(endpoint)
	u, err := url.Parse(endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, goerr.New("invalid external API endpoint", goerr.V("endpoint", endpoint))
	}

	c := &Client{
		endpoint:   u,
		user:       user,
		password:   password,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FetchCases downloads every case record. Any transport, authentication or decoding
// failure fails the whole call.
func (c *Client) FetchCases(ctx context.Context) ([]*model.ExternalCase, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint.String(), nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build request")
	}
	req.Header.Set("Accept", "application/json")
	if c.user != "" || c.password != "" {
		req.SetBasicAuth(c.user, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to call external API", goerr.V("host", c.endpoint.Host))
	}
	defer safe.Close(ctx, resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read external API response")
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, goerr.Wrap(ErrUnauthorized, "cannot fetch cases", goerr.V("status", resp.StatusCode))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, goerr.Wrap(ErrBadStatus, "cannot fetch cases",
			goerr.V("status", resp.StatusCode), goerr.V("body", truncate(body, maxErrorBody)))
	}

	records, err := decodeRecords(body)
	if err != nil {
		return nil, err
	}

	out := make([]*model.ExternalCase, 0, len(records))
	for _, r := range records {
		out = append(out, r.toModel())
	}
	return out, nil
}

// decodeRecords accepts a bare JSON array or an object wrapping it in "data"
func decodeRecords(body []byte) ([]record, error) {
	body = bytes.TrimSpace(body)

	var records []record
	if len(body) > 0 && body[0] == '{' {
		var envelope struct {
			Data []record `json:"data"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, goerr.Wrap(err, "failed to decode external API response")
		}
		return envelope.Data, nil
	}

	if err := json.Unmarshal(body, &records); err != nil {
		return nil, goerr.Wrap(err, "failed to decode external API response")
	}
	return records, nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}
