package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "fiscal-forum/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIntrospectionServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/realms/fiscal-forum/protocol/openid-connect/token/introspect", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "lead-admin", r.PostForm.Get("client_id"))

		switch r.PostForm.Get("token") {
		case "good":
			_, _ = w.Write([]byte(`{"active":true,"username":"ops","realm_access":{"roles":["leads-admin","offline_access"]}}`))
		case "broken":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			_, _ = w.Write([]byte(`{"active":false}`))
		}
	}))
}

func TestKeycloakClient_ValidateToken(t *testing.T) {
	srv := newIntrospectionServer(t)
	defer srv.Close()

	k := NewKeycloakClient(srv.URL+"/", "fiscal-forum", "lead-admin", "secret")

	info, err := k.ValidateToken(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "ops", info.Username)
	assert.True(t, info.HasRole("leads-admin"))
	assert.False(t, info.HasRole("realm-admin"))
}

func TestKeycloakClient_ValidateTokenErrors(t *testing.T) {
	srv := newIntrospectionServer(t)
	defer srv.Close()

	k := NewKeycloakClient(srv.URL, "fiscal-forum", "lead-admin", "secret")

	tests := []struct {
		token string
		code  apperrors.ErrorCode
	}{
		{"", apperrors.ErrCodeAuthentication},
		{"expired", apperrors.ErrCodeTokenInvalid},
		{"broken", apperrors.ErrCodeExternalService},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			_, err := k.ValidateToken(context.Background(), tt.token)
			require.Error(t, err)
			assert.Equal(t, tt.code, apperrors.AsStandardError(err).Code)
		})
	}
}
