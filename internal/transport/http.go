package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"rmap/internal/domain"
)

// Config carries the tunables for one peer.
type Config struct {
	Base string // server base URL, e.g. http://127.0.0.1:5000

	HTTP *http.Client // optional; defaults to http.DefaultClient

	ProbeTimeout time.Duration // connectivity probe
	CallTimeout  time.Duration // handshake round trips
	FetchTimeout time.Duration // artifact download
}

// Client talks JSON over HTTP to the RMAP peer.
type Client struct {
	base  string
	http  *http.Client
	probe time.Duration
	call  time.Duration
	fetch time.Duration
}

func New(cfg Config) *Client {
	c := &Client{
		base:  cfg.Base,
		http:  cfg.HTTP,
		probe: cfg.ProbeTimeout,
		call:  cfg.CallTimeout,
		fetch: cfg.FetchTimeout,
	}
	if c.http == nil {
		c.http = http.DefaultClient
	}
	if c.probe <= 0 {
		c.probe = 10 * time.Second
	}
	if c.call <= 0 {
		c.call = 30 * time.Second
	}
	if c.fetch <= 0 {
		c.fetch = 60 * time.Second
	}
	return c
}

var _ domain.Transport = (*Client)(nil)

// Post sends in as JSON and decodes the 2xx response body into out.
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(in); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.call)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: post %s: %v", domain.ErrConnectivity, path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("%w: post %s: %s", domain.ErrServer, path, resp.Status)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: post %s: %v", domain.ErrMalformedResponse, path, err)
		}
	}
	return nil
}

// Fetch GETs path and returns status, declared content type and raw body.
// The status is reported, not judged; that is the caller's contract to apply.
func (c *Client) Fetch(ctx context.Context, path string) (int, string, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.fetch)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return 0, "", nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, "", nil, fmt.Errorf("%w: get %s: %v", domain.ErrConnectivity, path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, "", nil, fmt.Errorf("%w: get %s: %v", domain.ErrConnectivity, path, err)
	}
	return resp.StatusCode, resp.Header.Get("Content-Type"), body, nil
}

// Probe checks that the peer answers at all, with the short timeout. Any
// response counts as reachable; only transport failure is an error.
func (c *Client) Probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.probe)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrConnectivity, err)
	}
	resp.Body.Close()
	return nil
}
