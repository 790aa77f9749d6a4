package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/quickbite/ordersync/internal/order"
)

// DefaultTimeout bounds every request. One attempt per call; retry
// policy belongs to the caller.
const DefaultTimeout = 10 * time.Second

// Client talks to the order authority over its REST contract. It
// performs exactly one network attempt per call and classifies failures
// into FetchError (transport), ErrNotFound and ServerRejectedError
// (logical), so callers can react differently.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a Client for the authority at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
}

// FetchAll returns every order, newest-first as the authority sorts them.
func (c *Client) FetchAll(ctx context.Context) ([]order.Order, error) {
	var out []order.Order
	if err := c.do(ctx, http.MethodGet, "/api/orders", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchOne returns the order with the given id.
func (c *Client) FetchOne(ctx context.Context, id string) (order.Order, error) {
	var out order.Order
	if err := c.do(ctx, http.MethodGet, "/api/orders/"+id, nil, &out); err != nil {
		return order.Order{}, err
	}
	return out, nil
}

// RequestTransition asks the authority to move the order to target and
// returns the authoritative post-transition order. The server is the
// sole arbiter of legality and may refuse with ServerRejectedError.
func (c *Client) RequestTransition(ctx context.Context, id string, target order.Status) (order.Order, error) {
	body := struct {
		Status order.Status `json:"status"`
	}{Status: target}

	var out order.Order
	if err := c.do(ctx, http.MethodPatch, "/api/orders/"+id+"/status", body, &out); err != nil {
		return order.Order{}, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var reqBody io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &FetchError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s %s: %w", method, path, ErrNotFound)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return &ServerRejectedError{
			StatusCode: resp.StatusCode,
			Reason:     errorReason(resp.Body),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &FetchError{Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// errorReason extracts the authority's {"message": ...} payload, falling
// back to the raw body.
func errorReason(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(raw) == 0 {
		return "no error detail"
	}

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return string(bytes.TrimSpace(raw))
}
