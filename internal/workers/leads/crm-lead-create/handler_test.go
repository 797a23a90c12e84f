package crmleadcreate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fiscal-forum/internal/common/config"
	apperrors "fiscal-forum/internal/common/errors"
	"fiscal-forum/internal/common/logger"
	"fiscal-forum/internal/common/zoho"
)

// ==========================
// Test Helpers
// ==========================

type fakeZoho struct {
	searchStatus int
	searchBody   string
	createStatus int
	updateStatus int
	created      []zoho.Lead
	updated      map[string]zoho.Lead
}

func (f *fakeZoho) server(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/Leads/search":
			if f.searchStatus == http.StatusNoContent {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			w.WriteHeader(f.searchStatus)
			_, _ = w.Write([]byte(f.searchBody))
		case r.Method == http.MethodPost && r.URL.Path == "/Leads":
			var body struct {
				Data []zoho.Lead `json:"data"`
			}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			f.created = append(f.created, body.Data...)
			w.WriteHeader(f.createStatus)
			_, _ = w.Write([]byte(`{"data":[{"code":"SUCCESS","status":"success","message":"record added","details":{"id":"zcrm_5001"}}]}`))
		case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/Leads/"):
			var body struct {
				Data []zoho.Lead `json:"data"`
			}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			if f.updated == nil {
				f.updated = make(map[string]zoho.Lead)
			}
			id := strings.TrimPrefix(r.URL.Path, "/Leads/")
			f.updated[id] = body.Data[0]
			w.WriteHeader(f.updateStatus)
			_, _ = w.Write([]byte(`{"data":[{"code":"SUCCESS","status":"success","message":"record updated","details":{"id":"` + id + `"}}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestHandler(t *testing.T, f *fakeZoho) *Handler {
	t.Helper()
	srv := f.server(t)
	h, err := NewHandler(DefaultConfig(), zoho.NewCRMClient(srv.URL, "test-token", 5*time.Second), logger.NewTestLogger(t))
	require.NoError(t, err)
	return h
}

func createValidInput() *Input {
	return &Input{
		LeadID:   "3f7a5f7e-1c1e-4d59-9a6e-5b8a1f0c2d11",
		FormType: "home-loan",
		FullName: "Asha Rani Menon",
		Email:    "asha@example.com",
		Phone:    "9812345678",
		City:     "Kochi",
		Priority: "high",
	}
}

// ==========================
// Execute Tests
// ==========================

func TestHandler_Execute_CreatesLead(t *testing.T) {
	f := &fakeZoho{searchStatus: http.StatusNoContent, createStatus: http.StatusCreated}
	h := newTestHandler(t, f)

	out, err := h.Execute(context.Background(), createValidInput())
	require.NoError(t, err)
	assert.Equal(t, "zcrm_5001", out.CRMLeadID)
	assert.True(t, out.Created)

	require.Len(t, f.created, 1)
	lead := f.created[0]
	assert.Equal(t, "Asha Rani", lead.FirstName)
	assert.Equal(t, "Menon", lead.LastName)
	assert.Equal(t, "Fiscal Forum - home-loan", lead.LeadSource)
	assert.Equal(t, "Not Contacted", lead.LeadStatus)
	assert.Equal(t, "9812345678", lead.Mobile)
	assert.Contains(t, lead.Description, "priority high")
}

func TestHandler_Execute_ExistingLead(t *testing.T) {
	f := &fakeZoho{
		searchStatus: http.StatusOK,
		searchBody:   `{"data":[{"id":"zcrm_77","Last_Name":"Menon","Email":"asha@example.com","Description":"Fiscal Forum lead a1"}]}`,
		createStatus: http.StatusCreated,
		updateStatus: http.StatusOK,
	}
	h := newTestHandler(t, f)

	out, err := h.Execute(context.Background(), createValidInput())
	require.NoError(t, err)
	assert.Equal(t, "zcrm_77", out.CRMLeadID)
	assert.False(t, out.Created)
	assert.Empty(t, f.created)

	require.Contains(t, f.updated, "zcrm_77")
	update := f.updated["zcrm_77"]
	assert.Equal(t, "Menon", update.LastName)
	assert.Equal(t, "Fiscal Forum lead a1\nRepeat enquiry: home-loan (lead 3f7a5f7e-1c1e-4d59-9a6e-5b8a1f0c2d11)", update.Description)
	assert.Empty(t, update.LeadSource)
}

func TestHandler_Execute_PhoneOnlySkipsSearch(t *testing.T) {
	f := &fakeZoho{searchStatus: http.StatusInternalServerError, createStatus: http.StatusCreated}
	h := newTestHandler(t, f)

	input := createValidInput()
	input.Email = ""
	input.FullName = "Ravi"

	out, err := h.Execute(context.Background(), input)
	require.NoError(t, err)
	assert.True(t, out.Created)
	require.Len(t, f.created, 1)
	assert.Equal(t, "Ravi", f.created[0].LastName)
	assert.Empty(t, f.created[0].FirstName)
}

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name         string
		fake         *fakeZoho
		mutate       func(*Input)
		wantSentinel error
		wantBPMN     string
		wantRetries  int
	}{
		{
			name:         "missing full name",
			fake:         &fakeZoho{searchStatus: http.StatusNoContent, createStatus: http.StatusCreated},
			mutate:       func(in *Input) { in.FullName = "  " },
			wantSentinel: ErrInvalidInput,
			wantBPMN:     string(apperrors.ErrCodeBusinessRule),
			wantRetries:  0,
		},
		{
			name:         "no contact channel",
			fake:         &fakeZoho{searchStatus: http.StatusNoContent, createStatus: http.StatusCreated},
			mutate:       func(in *Input) { in.Email, in.Phone = "", "" },
			wantSentinel: ErrInvalidInput,
			wantBPMN:     string(apperrors.ErrCodeBusinessRule),
			wantRetries:  0,
		},
		{
			name:         "expired oauth token",
			fake:         &fakeZoho{searchStatus: http.StatusUnauthorized, searchBody: `{"code":"INVALID_TOKEN"}`},
			wantSentinel: ErrCRMAuthFailed,
			wantBPMN:     "CRM_SYNC_FAILED",
			wantRetries:  0,
		},
		{
			name:         "zoho unavailable",
			fake:         &fakeZoho{searchStatus: http.StatusNoContent, createStatus: http.StatusBadGateway},
			wantSentinel: ErrCRMSyncFailed,
			wantBPMN:     "CRM_SYNC_FAILED",
			wantRetries:  3,
		},
		{
			name:         "zoho rejects record",
			fake:         &fakeZoho{searchStatus: http.StatusNoContent, createStatus: http.StatusBadRequest},
			wantSentinel: ErrCRMRejected,
			wantBPMN:     "CRM_SYNC_FAILED",
			wantRetries:  0,
		},
		{
			name:         "zoho rate limited",
			fake:         &fakeZoho{searchStatus: http.StatusTooManyRequests, searchBody: `{"code":"TOO_MANY_REQUESTS"}`},
			wantSentinel: ErrCRMSyncFailed,
			wantBPMN:     "CRM_SYNC_FAILED",
			wantRetries:  3,
		},
		{
			name: "repeat enquiry update rejected",
			fake: &fakeZoho{
				searchStatus: http.StatusOK,
				searchBody:   `{"data":[{"id":"zcrm_77","Last_Name":"Menon"}]}`,
				updateStatus: http.StatusServiceUnavailable,
			},
			wantSentinel: ErrCRMSyncFailed,
			wantBPMN:     "CRM_SYNC_FAILED",
			wantRetries:  3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t, tt.fake)
			input := createValidInput()
			if tt.mutate != nil {
				tt.mutate(input)
			}

			_, err := h.Execute(context.Background(), input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantSentinel), "got %v", err)

			bpmnErr := apperrors.ConvertToBPMNError(toStandardError(err))
			assert.Equal(t, tt.wantBPMN, bpmnErr.Code)
			assert.Equal(t, tt.wantRetries, bpmnErr.Retries)
		})
	}
}

// ==========================
// Config Tests
// ==========================

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.Timeout = 0
	assert.EqualError(t, cfg.Validate(), "timeout must be positive")

	cfg = DefaultConfig()
	cfg.LeadSourcePrefix = ""
	assert.EqualError(t, cfg.Validate(), "lead_source_prefix is required")

	_, err := NewHandler(cfg, nil, logger.NewNoOpLogger())
	assert.Error(t, err)
}

func TestConfigFromApp(t *testing.T) {
	app := &config.Config{Workers: map[string]config.WorkerConfig{
		TaskType: {Enabled: true, MaxJobsActive: 8, Timeout: 2000},
	}}
	cfg := ConfigFromApp(app)
	assert.Equal(t, 8, cfg.MaxJobsActive)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Equal(t, "Fiscal Forum", cfg.LeadSourcePrefix)
}

func TestSplitName(t *testing.T) {
	first, last := splitName("  Priya   Nair ")
	assert.Equal(t, "Priya", first)
	assert.Equal(t, "Nair", last)
}
