package updateleadstatus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fiscal-forum/internal/common/database"
	apperrors "fiscal-forum/internal/common/errors"
	"fiscal-forum/internal/common/logger"
	"fiscal-forum/internal/leads"
	"fiscal-forum/internal/models"
)

func createTestHandler(t *testing.T) (*Handler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := leads.NewRepository(database.NewPostgresFromDB(db))
	h, err := NewHandler(DefaultConfig(), repo, logger.NewTestLogger(t))
	require.NoError(t, err)
	h.now = func() time.Time { return time.Date(2026, 10, 14, 11, 0, 0, 0, time.UTC) }
	return h, mock
}

func TestHandler_Execute_Success(t *testing.T) {
	h, mock := createTestHandler(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE leads`).WithArgs("lead-1", models.LeadStatusCRMSynced, "zcrm_5001").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO audit_log`).
		WithArgs("lead-1", leads.ActionStatusChanged, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	out, err := h.Execute(context.Background(), &Input{
		LeadID:    "lead-1",
		Status:    models.LeadStatusCRMSynced,
		CRMLeadID: "zcrm_5001",
		Step:      "crm-sync",
	})
	require.NoError(t, err)
	assert.Equal(t, &Output{
		LeadID:        "lead-1",
		LeadStatus:    models.LeadStatusCRMSynced,
		StatusUpdated: true,
		UpdatedAt:     "2026-10-14T11:00:00Z",
	}, out)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name        string
		input       *Input
		setup       func(mock sqlmock.Sqlmock)
		wantBPMN    string
		wantRetries int
	}{
		{
			name:        "missing lead id",
			input:       &Input{Status: models.LeadStatusNotified},
			wantBPMN:    string(apperrors.ErrCodeBusinessRule),
			wantRetries: 0,
		},
		{
			name:        "unknown status",
			input:       &Input{LeadID: "lead-1", Status: "archived"},
			wantBPMN:    string(apperrors.ErrCodeBusinessRule),
			wantRetries: 0,
		},
		{
			name:  "lead does not exist",
			input: &Input{LeadID: "lead-404", Status: models.LeadStatusNotified},
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`UPDATE leads`).WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectRollback()
			},
			wantBPMN:    "LEAD_NOT_FOUND",
			wantRetries: 0,
		},
		{
			name:  "database unavailable",
			input: &Input{LeadID: "lead-1", Status: models.LeadStatusFailed, Reason: "crm rejected"},
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(errors.New("connection reset by peer"))
			},
			wantBPMN:    "STATUS_UPDATE_FAILED",
			wantRetries: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mock := createTestHandler(t)
			if tt.setup != nil {
				tt.setup(mock)
			}

			_, err := h.Execute(context.Background(), tt.input)
			require.Error(t, err)

			bpmnErr := apperrors.ConvertToBPMNError(toStandardError(err))
			assert.Equal(t, tt.wantBPMN, bpmnErr.Code)
			assert.Equal(t, tt.wantRetries, bpmnErr.Retries)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.MaxJobsActive = 0
	assert.EqualError(t, cfg.Validate(), "max_jobs_active must be positive")
}
