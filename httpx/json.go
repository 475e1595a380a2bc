package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// decodeSuccess decodes a 2xx body into dst. A body that is not exactly one
// JSON value is reported as KindDecode. 204 No Content decodes to nothing.
func decodeSuccess(ex *exchange, dst any) error {
	raw, err := io.ReadAll(ex.resp.Body)
	if err != nil {
		return &Error{
			Kind:       KindNetwork,
			Method:     ex.method,
			URL:        ex.url,
			StatusCode: ex.resp.StatusCode,
			Message:    err.Error(),
			RequestID:  ex.requestID,
			Cause:      err,
		}
	}
	if ex.resp.StatusCode == http.StatusNoContent && len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	if err := decodeJSON(raw, dst); err != nil {
		return &Error{
			Kind:       KindDecode,
			Method:     ex.method,
			URL:        ex.url,
			StatusCode: ex.resp.StatusCode,
			Message:    fmt.Sprintf("Malformed response (status %d): %v", ex.resp.StatusCode, err),
			RequestID:  ex.requestID,
			RawBody:    truncate(raw, DefaultMaxErrorBodyBytes),
			Cause:      err,
		}
	}
	return nil
}

func decodeJSON(raw []byte, dst any) error {
	if dst == nil {
		var discard any
		dst = &discard
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(dst); err != nil {
		return err
	}
	// Ensure there's no extra non-whitespace payload.
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err != nil {
			return err
		}
		return errors.New("unexpected extra JSON value in response body")
	}
	return nil
}

func truncate(b []byte, n int64) []byte {
	if int64(len(b)) > n {
		b = b[:n]
	}
	return append([]byte(nil), b...)
}

// Fetch is a generic helper around Client.Request.
func Fetch[T any](ctx context.Context, c *Client, path string, opts ...RequestOption) (T, error) {
	var out T
	if err := c.Request(ctx, path, &out, opts...); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
