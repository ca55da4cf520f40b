package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var (
	// ErrTimeout reports a backend call abandoned after the configured bound.
	ErrTimeout = errors.New("backend timeout")
	// ErrUnreachable reports a transport-level failure before any backend reply.
	ErrUnreachable = errors.New("backend unreachable")
)

// Error is a structured rejection from the backend, carrying its status
// code and whatever machine-readable detail it provided.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("ML service error (status %d): %s", e.Status, e.Detail)
}

// newError extracts the detail field from an error response body, falling
// back to a generic message when the backend gave nothing usable.
func newError(res *http.Response) *Error {
	e := &Error{Status: res.StatusCode, Detail: "ML service error"}

	body, err := io.ReadAll(io.LimitReader(res.Body, 4<<10))
	if err != nil {
		return e
	}

	var parsed struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return e
	}
	if d := strings.TrimSpace(parsed.Detail); d != "" {
		e.Detail = d
	} else if d := strings.TrimSpace(parsed.Error); d != "" {
		e.Detail = d
	}
	return e
}
