package http

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

func TestClient_DoJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Zoho-oauthtoken abc", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"echo": in["name"]})
	}))
	defer srv.Close()

	c := NewClient(time.Second).WithHeader("Authorization", "Zoho-oauthtoken abc")

	var out map[string]string
	status, err := c.DoJSON(context.Background(), http.MethodPost, srv.URL, map[string]string{"name": "Asha"}, &out)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Asha", out["echo"])
}

func TestClient_DoJSON_StatusError(t *testing.T) {
	tests := []struct {
		status    int
		transient bool
	}{
		{http.StatusBadRequest, false},
		{http.StatusUnauthorized, false},
		{http.StatusTooManyRequests, true},
		{http.StatusBadGateway, true},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"code":"X"}`))
			}))
			defer srv.Close()

			_, err := NewClient(time.Second).DoJSON(context.Background(), http.MethodGet, srv.URL, nil, nil)
			require.Error(t, err)

			statusErr, ok := err.(*StatusError)
			require.True(t, ok)
			assert.Equal(t, tt.status, statusErr.StatusCode)
			assert.Equal(t, tt.transient, statusErr.Transient())
		})
	}
}

func TestClient_WithHeaderDoesNotMutateParent(t *testing.T) {
	parent := NewClient(time.Second)
	child := parent.WithHeader("X-Test", "1")
	assert.Empty(t, parent.headers)
	assert.Equal(t, "1", child.headers["X-Test"])
}
