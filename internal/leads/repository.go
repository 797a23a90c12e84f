package leads

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"fiscal-forum/internal/common/database"
	apperrors "fiscal-forum/internal/common/errors"
	"fiscal-forum/internal/models"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// Audit actions.
const (
	ActionCreated       = "created"
	ActionStatusChanged = "status_changed"
	ActionWorkflow      = "workflow_started"
)

// Repository persists leads, subscribers and the audit trail in Postgres.
type Repository struct {
	pg *database.PostgresClient
}

func NewRepository(pg *database.PostgresClient) *Repository {
	return &Repository{pg: pg}
}

// Create inserts the lead and its "created" audit row in one transaction.
func (r *Repository) Create(ctx context.Context, lead *models.Lead) error {
	payload, err := json.Marshal(lead.Payload)
	if err != nil {
		return apperrors.NewInvalidPayloadError(err.Error())
	}

	err = r.pg.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO leads (
				id, form_type, full_name, email, phone, city, payload, contact_hash,
				status, source, client_ip, user_agent, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)`,
			lead.ID, lead.FormType, lead.FullName, lead.Email, lead.Phone, lead.City, payload,
			lead.ContactHash, lead.Status, lead.Source, lead.ClientIP, lead.UserAgent, lead.CreatedAt,
		); err != nil {
			return err
		}
		return insertAudit(ctx, tx, lead.ID, ActionCreated, map[string]interface{}{
			"formType": lead.FormType,
			"source":   lead.Source,
		})
	})
	if err != nil {
		return apperrors.NewDatabaseInsertFailedError(err)
	}
	return nil
}

// Subscribe records a newsletter address and reports whether it was new.
func (r *Repository) Subscribe(ctx context.Context, email, source string) (bool, error) {
	res, err := r.pg.DB.ExecContext(ctx, `
		INSERT INTO subscribers (email, source, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (email) DO NOTHING`,
		email, source,
	)
	if err != nil {
		return false, apperrors.NewDatabaseInsertFailedError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, apperrors.NewDatabaseInsertFailedError(err)
	}
	return n > 0, nil
}

const leadColumns = `id, form_type, full_name, email, phone, city, payload, status, crm_id, source, created_at, updated_at`

func (r *Repository) Get(ctx context.Context, id string) (*models.Lead, error) {
	row := r.pg.DB.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)
	lead, err := scanLead(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewLeadNotFoundError(id)
	}
	if err != nil {
		return nil, queryError("select lead", err)
	}
	return lead, nil
}

// List returns leads newest first.
func (r *Repository) List(ctx context.Context, filter models.LeadFilter) ([]models.Lead, error) {
	var (
		where []string
		args  []interface{}
	)
	add := func(clause string, arg interface{}) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}
	if filter.FormType != "" {
		add("form_type = $%d", filter.FormType)
	}
	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}
	if filter.Since != nil {
		add("created_at >= $%d", *filter.Since)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + leadColumns + ` FROM leads`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.pg.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, queryError("list leads", err)
	}
	defer rows.Close()

	out := []models.Lead{}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, apperrors.NewQueryExecutionFailedError("scan lead", err)
		}
		out = append(out, *lead)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("list leads", err)
	}
	return out, nil
}

// UpdateStatus moves a lead to status, records crmID when given and appends
// an audit row.
func (r *Repository) UpdateStatus(ctx context.Context, id, status, crmID string, detail map[string]interface{}) error {
	err := r.pg.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE leads
			SET status = $2, crm_id = COALESCE(NULLIF($3, ''), crm_id), updated_at = NOW()
			WHERE id = $1`,
			id, status, crmID,
		)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return apperrors.NewLeadNotFoundError(id)
		}

		if detail == nil {
			detail = map[string]interface{}{}
		}
		detail["status"] = status
		if crmID != "" {
			detail["crmId"] = crmID
		}
		return insertAudit(ctx, tx, id, ActionStatusChanged, detail)
	})
	if err != nil {
		var stdErr *apperrors.StandardError
		if errors.As(err, &stdErr) {
			return stdErr
		}
		return apperrors.NewStatusUpdateFailedError(id, err)
	}
	return nil
}

// AppendAudit writes a single audit row outside any transaction.
func (r *Repository) AppendAudit(ctx context.Context, id, action string, detail map[string]interface{}) error {
	raw, err := json.Marshal(detail)
	if err != nil {
		return err
	}
	if _, err := r.pg.DB.ExecContext(ctx,
		`INSERT INTO audit_log (lead_id, action, detail, created_at) VALUES ($1, $2, $3, NOW())`,
		id, action, raw,
	); err != nil {
		return apperrors.NewDatabaseInsertFailedError(err)
	}
	return nil
}

// AuditTrail returns the audit rows of a lead, oldest first.
func (r *Repository) AuditTrail(ctx context.Context, id string) ([]models.AuditEntry, error) {
	rows, err := r.pg.DB.QueryContext(ctx,
		`SELECT lead_id, action, detail, created_at FROM audit_log WHERE lead_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, queryError("select audit_log", err)
	}
	defer rows.Close()

	out := []models.AuditEntry{}
	for rows.Next() {
		var (
			entry models.AuditEntry
			raw   []byte
		)
		if err := rows.Scan(&entry.LeadID, &entry.Action, &raw, &entry.CreatedAt); err != nil {
			return nil, apperrors.NewQueryExecutionFailedError("scan audit_log", err)
		}
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &entry.Detail)
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

func insertAudit(ctx context.Context, tx *sql.Tx, leadID, action string, detail map[string]interface{}) error {
	raw, err := json.Marshal(detail)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO audit_log (lead_id, action, detail, created_at) VALUES ($1, $2, $3, $4)`,
		leadID, action, raw, time.Now().UTC(),
	)
	return err
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanLead(s scanner) (*models.Lead, error) {
	var (
		lead    models.Lead
		payload []byte
	)
	if err := s.Scan(
		&lead.ID, &lead.FormType, &lead.FullName, &lead.Email, &lead.Phone, &lead.City, &payload,
		&lead.Status, &lead.CRMID, &lead.Source, &lead.CreatedAt, &lead.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &lead.Payload); err != nil {
			return nil, fmt.Errorf("decode payload: %w", err)
		}
	}
	return &lead, nil
}

// queryError reports a query cut off by its context deadline as a timeout.
func queryError(query string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewQueryTimeoutError(query)
	}
	return apperrors.NewQueryExecutionFailedError(query, err)
}
