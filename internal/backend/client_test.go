package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSuccess(t *testing.T) {
	var gotAuth string
	var gotBody generateRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/generate", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response":"Here is the news...","relevant_sources":["src1","src2"]}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "test-key", 5*time.Second)
	res, err := c.Generate(context.Background(), "latest AI news", "abc123")
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "latest AI news", gotBody.Query)
	assert.Equal(t, "abc123", gotBody.SessionID)
	assert.Equal(t, "Here is the news...", res.Content)
	require.Len(t, res.Sources, 2)
	assert.JSONEq(t, `"src1"`, string(res.Sources[0]))
}

func TestGenerateMissingResponseField(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"relevant_sources":[]}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "k", 5*time.Second)
	res, err := c.Generate(context.Background(), "q", "s")
	require.NoError(t, err)
	assert.Equal(t, PlaceholderContent, res.Content)
}

func TestGenerateBackendError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":"query too long"}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "k", 5*time.Second)
	_, err := c.Generate(context.Background(), "q", "s")

	var be *Error
	require.ErrorAs(t, err, &be)
	assert.Equal(t, http.StatusUnprocessableEntity, be.Status)
	assert.Equal(t, "query too long", be.Detail)
}

func TestGenerateBackendErrorWithoutDetail(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`unexpected crash`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "k", 5*time.Second)
	_, err := c.Generate(context.Background(), "q", "s")

	var be *Error
	require.ErrorAs(t, err, &be)
	assert.Equal(t, http.StatusInternalServerError, be.Status)
	assert.Equal(t, "ML service error", be.Detail)
}

func TestGenerateTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"response":"late"}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "k", 20*time.Millisecond)
	_, err := c.Generate(context.Background(), "q", "s")
	require.ErrorIs(t, err, ErrTimeout)
}

func TestGenerateUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	ts.Close()

	c := NewClient(ts.URL, "k", time.Second)
	_, err := c.Generate(context.Background(), "q", "s")
	require.ErrorIs(t, err, ErrUnreachable)
}

func TestGenerateUnconfigured(t *testing.T) {
	c := NewClient("", "", time.Second)
	_, err := c.Generate(context.Background(), "q", "s")
	require.ErrorIs(t, err, ErrUnreachable)
}
