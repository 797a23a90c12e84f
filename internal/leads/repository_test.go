package leads

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fiscal-forum/internal/common/database"
	apperrors "fiscal-forum/internal/common/errors"
	"fiscal-forum/internal/models"
)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(database.NewPostgresFromDB(db)), mock
}

var leadRowColumns = []string{"id", "form_type", "full_name", "email", "phone", "city", "payload", "status", "crm_id", "source", "created_at", "updated_at"}

func TestRepository_List(t *testing.T) {
	repo, mock := newRepo(t)
	created := time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM leads WHERE form_type = \$1 AND status = \$2 ORDER BY created_at DESC LIMIT \$3 OFFSET \$4`).
		WithArgs("home-loan", "received", 200, 0).
		WillReturnRows(sqlmock.NewRows(leadRowColumns).
			AddRow("6f1c2d8e-0000-4000-8000-000000000001", "home-loan", "Asha Menon", "asha@example.com", "9876543210", "Pune",
				[]byte(`{"loanAmount":"4500000"}`), "received", "", "website", created, created))

	leads, err := repo.List(context.Background(), models.LeadFilter{FormType: "home-loan", Status: "received", Limit: 1000})
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Asha Menon", leads[0].FullName)
	assert.Equal(t, "4500000", leads[0].Payload["loanAmount"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListDefaults(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`FROM leads ORDER BY created_at DESC LIMIT \$1 OFFSET \$2`).
		WithArgs(defaultListLimit, 0).
		WillReturnRows(sqlmock.NewRows(leadRowColumns))

	leads, err := repo.List(context.Background(), models.LeadFilter{Offset: -5})
	require.NoError(t, err)
	assert.NotNil(t, leads)
	assert.Empty(t, leads)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetNotFound(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(`FROM leads WHERE id = \$1`).WithArgs("missing").WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeLeadNotFound, apperrors.AsStandardError(err).Code)
}

func TestRepository_QueryErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode apperrors.ErrorCode
	}{
		{"deadline exceeded", context.DeadlineExceeded, apperrors.ErrCodeQueryTimeout},
		{"driver failure", sql.ErrConnDone, apperrors.ErrCodeQueryExecutionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepo(t)
			mock.ExpectQuery(`FROM leads ORDER BY created_at DESC`).WillReturnError(tt.err)
			mock.ExpectQuery(`FROM audit_log WHERE lead_id = \$1`).WillReturnError(tt.err)

			_, err := repo.List(context.Background(), models.LeadFilter{})
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, apperrors.AsStandardError(err).Code)

			_, err = repo.AuditTrail(context.Background(), "6f1c2d8e-0000-4000-8000-000000000001")
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, apperrors.AsStandardError(err).Code)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_UpdateStatus(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE leads`).WithArgs("lead-1", models.LeadStatusCRMSynced, "zcrm_42").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO audit_log`).
		WithArgs("lead-1", ActionStatusChanged, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.UpdateStatus(context.Background(), "lead-1", models.LeadStatusCRMSynced, "zcrm_42", nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatusUnknownLead(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE leads`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.UpdateStatus(context.Background(), "lead-x", models.LeadStatusNotified, "", nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeLeadNotFound, apperrors.AsStandardError(err).Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_AuditTrail(t *testing.T) {
	repo, mock := newRepo(t)
	at := time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM audit_log WHERE lead_id = \$1 ORDER BY id`).WithArgs("lead-1").
		WillReturnRows(sqlmock.NewRows([]string{"lead_id", "action", "detail", "created_at"}).
			AddRow("lead-1", ActionCreated, []byte(`{"formType":"home-loan"}`), at).
			AddRow("lead-1", ActionStatusChanged, []byte(`{"status":"crm_synced"}`), at.Add(time.Minute)))

	trail, err := repo.AuditTrail(context.Background(), "lead-1")
	require.NoError(t, err)
	require.Len(t, trail, 2)
	assert.Equal(t, ActionCreated, trail[0].Action)
	assert.Equal(t, "crm_synced", trail[1].Detail["status"])
}
