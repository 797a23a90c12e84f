package zoho

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

func TestCRMClient_CreateLead(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Leads", r.URL.Path)
		assert.Equal(t, "Zoho-oauthtoken tok", r.Header.Get("Authorization"))

		var body struct {
			Data []Lead `json:"data"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Data, 1)
		assert.Equal(t, "Sharma", body.Data[0].LastName)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":[{"code":"SUCCESS","status":"success","message":"record added","details":{"id":"5725767000000524157"}}]}`))
	}))
	defer srv.Close()

	c := NewCRMClient(srv.URL, "tok", time.Second)
	id, err := c.CreateLead(context.Background(), &Lead{FirstName: "Asha", LastName: "Sharma", Email: "asha@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "5725767000000524157", id)
}

func TestCRMClient_CreateLeadRecordError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"code":"MANDATORY_NOT_FOUND","status":"error","message":"required field not found"}]}`))
	}))
	defer srv.Close()

	_, err := NewCRMClient(srv.URL, "tok", time.Second).CreateLead(context.Background(), &Lead{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MANDATORY_NOT_FOUND")
}

func TestCRMClient_SearchLeadsByEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Leads/search", r.URL.Path)
		if r.URL.Query().Get("email") == "nobody@example.com" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		_, _ = w.Write([]byte(`{"data":[{"id":"42","Last_Name":"Sharma","Email":"asha@example.com"}]}`))
	}))
	defer srv.Close()

	c := NewCRMClient(srv.URL, "tok", time.Second)

	leads, err := c.SearchLeadsByEmail(context.Background(), "asha@example.com")
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "42", leads[0].ID)

	leads, err = c.SearchLeadsByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Empty(t, leads)
}

func TestCRMClient_UpdateLeadHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	err := NewCRMClient(srv.URL, "bad", time.Second).UpdateLead(context.Background(), "42", &Lead{LeadStatus: "Contacted"})
	assert.Error(t, err)
}
