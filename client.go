// Package routewire is the runtime for routewire-generated service clients
// and route tables.
//
// Service contracts are plain Go interfaces marked with //routewire:service.
// The generator (wiregen, driven by cmd/routewire) emits an HTTP client that
// implements the interface and a Map*Endpoints function that registers the
// matching routes on an *http.ServeMux. This package carries the pieces both
// artifacts call into: the Caller transport handle, the generic call and
// handler helpers, and the error envelope.
package routewire

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Caller is the transport handle held by generated clients.
// One Caller may be shared by any number of clients and goroutines.
type Caller struct {
	base string
	hc   *http.Client
}

// CallerOption configures a Caller.
type CallerOption func(*Caller)

// WithHTTPClient sets the underlying *http.Client. Defaults to http.DefaultClient.
func WithHTTPClient(hc *http.Client) CallerOption {
	return func(c *Caller) { c.hc = hc }
}

// NewCaller creates a Caller issuing requests against base,
// e.g. "http://localhost:8080".
func NewCaller(base string, opts ...CallerOption) *Caller {
	c := &Caller{
		base: strings.TrimRight(base, "/"),
		hc:   http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Post issues a body-carrying call to route and decodes the response as Res.
func Post[Req, Res any](ctx context.Context, c *Caller, route string, req Req) (Res, error) {
	var res Res
	body, err := c.do(ctx, http.MethodPost, route, req)
	if err != nil {
		return res, err
	}
	defer body.Close()
	if err := json.NewDecoder(body).Decode(&res); err != nil {
		return res, decodeError(route, err)
	}
	return res, nil
}

// PostVoid issues a body-carrying call to route for a method with no result.
func PostVoid[Req any](ctx context.Context, c *Caller, route string, req Req) error {
	body, err := c.do(ctx, http.MethodPost, route, req)
	if err != nil {
		return err
	}
	return body.Close()
}

// Get issues a bodiless call to route and decodes the response as Res.
func Get[Res any](ctx context.Context, c *Caller, route string) (Res, error) {
	var res Res
	body, err := c.do(ctx, http.MethodGet, route, nil)
	if err != nil {
		return res, err
	}
	defer body.Close()
	if err := json.NewDecoder(body).Decode(&res); err != nil {
		return res, decodeError(route, err)
	}
	return res, nil
}

// GetVoid issues a bodiless call to route for a method with no result.
func GetVoid(ctx context.Context, c *Caller, route string) error {
	body, err := c.do(ctx, http.MethodGet, route, nil)
	if err != nil {
		return err
	}
	return body.Close()
}

// do performs one request. There is no queuing and no retry: one call, one
// outstanding request. Cancellation is cooperative through ctx.
func (c *Caller) do(ctx context.Context, method, route string, payload any) (io.ReadCloser, error) {
	var body io.Reader
	if payload != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(payload); err != nil {
			return nil, fmt.Errorf("encoding request for %q: %w", route, err)
		}
		body = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+"/"+route, body)
	if err != nil {
		return nil, fmt.Errorf("building request for %q: %w", route, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		// A canceled context must surface as a cancellation outcome,
		// not as a transport failure.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("call to %q: %w", route, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, missingEndpointError(route)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		resp.Body.Close()
		return nil, transportError(route, resp.StatusCode)
	}

	return resp.Body, nil
}
