// Package client talks to a remote season backend over its REST API and
// satisfies the same repository contract as the local database.
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

	"paprika/pkg/calendar"
	"paprika/pkg/season/repository"
)

const signalSeasonComplete = "season_complete"

type Client struct {
	base  string
	token string
	httpc *http.Client
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.httpc = h } }

// WithToken sends token as a bearer credential on every request.
func WithToken(token string) Option { return func(c *Client) { c.token = token } }

// New returns a client for the API rooted at baseURL, e.g.
// http://localhost:8080/api.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		base:  strings.TrimRight(baseURL, "/"),
		httpc: &http.Client{Timeout: 15 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

var _ repository.SeasonRepository = (*Client)(nil)

type view struct {
	Season calendar.Record `json:"season"`
}

func (c *Client) Fetch(ctx context.Context, farmerID uint, year int) (calendar.Record, error) {
	var v view
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/farmers/%d/seasons/%d", farmerID, year), nil, &v); err != nil {
		return calendar.Record{}, err
	}
	return v.Season, nil
}

func (c *Client) FindByID(ctx context.Context, id uint) (calendar.Record, error) {
	var rec calendar.Record
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/seasons/%d", id), nil, &rec); err != nil {
		return calendar.Record{}, err
	}
	return rec, nil
}

func (c *Client) ListByFarmer(ctx context.Context, farmerID uint) ([]calendar.Record, error) {
	var views []view
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/farmers/%d/seasons", farmerID), nil, &views); err != nil {
		return nil, err
	}
	out := make([]calendar.Record, 0, len(views))
	for _, v := range views {
		out = append(out, v.Season)
	}
	return out, nil
}

func (c *Client) Create(ctx context.Context, r calendar.Record) (calendar.Record, error) {
	var out calendar.Record
	if err := c.do(ctx, http.MethodPost, "/seasons", r, &out); err != nil {
		return calendar.Record{}, err
	}
	return out, nil
}

func (c *Client) Update(ctx context.Context, r calendar.Record) (calendar.Record, error) {
	if r.IsNew() {
		return calendar.Record{}, repository.ErrNotFound
	}
	var out calendar.Record
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/seasons/%d", r.ID), r, &out); err != nil {
		return calendar.Record{}, err
	}
	return out, nil
}

type errorBody struct {
	Error    string         `json:"error"`
	Signal   string         `json:"signal"`
	Kind     calendar.Kind  `json:"kind"`
	Stage    calendar.Stage `json:"stage"`
	Field    calendar.Field `json:"field"`
	Conflict calendar.Stage `json:"conflict"`
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return statusError(method, path, resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

func statusError(method, path string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var eb errorBody
	_ = json.Unmarshal(raw, &eb)

	switch resp.StatusCode {
	case http.StatusNotFound:
		return repository.ErrNotFound
	case http.StatusConflict:
		if eb.Signal == signalSeasonComplete {
			return calendar.ErrSeasonComplete
		}
		return repository.ErrConflict
	case http.StatusUnprocessableEntity:
		return &calendar.ValidationError{
			Kind:     eb.Kind,
			Stage:    eb.Stage,
			Field:    eb.Field,
			Conflict: eb.Conflict,
			Message:  eb.Error,
		}
	}
	msg := eb.Error
	if msg == "" {
		msg = strings.TrimSpace(string(raw))
	}
	return fmt.Errorf("%s %s: %s: %s", method, path, resp.Status, msg)
}
