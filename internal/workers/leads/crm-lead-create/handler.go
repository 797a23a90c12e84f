package crmleadcreate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "fiscal-forum/internal/common/errors"
	httpclient "fiscal-forum/internal/common/http"
	"fiscal-forum/internal/common/logger"
	"fiscal-forum/internal/common/metrics"
	"fiscal-forum/internal/common/zoho"
)

const TaskType = "crm-lead-create"

var (
	ErrInvalidInput  = errors.New("LEAD_INVALID")
	ErrCRMAuthFailed = errors.New("CRM_AUTH_FAILED")
	ErrCRMSyncFailed = errors.New("CRM_SYNC_FAILED")
	ErrCRMRejected   = errors.New("CRM_REJECTED")
)

// CRM is the part of *zoho.CRMClient the worker uses.
type CRM interface {
	SearchLeadsByEmail(ctx context.Context, email string) ([]zoho.Lead, error)
	CreateLead(ctx context.Context, lead *zoho.Lead) (string, error)
	UpdateLead(ctx context.Context, id string, lead *zoho.Lead) error
}

type Handler struct {
	config       *Config
	crm          CRM
	logger       logger.Logger
	errorHandler *apperrors.JobErrorHandler
}

func NewHandler(cfg *Config, crm CRM, log logger.Logger) (*Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       cfg,
		crm:          crm,
		logger:       log,
		errorHandler: apperrors.NewJobErrorHandler(log),
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":             job.Key,
		"processInstanceKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.fail(ctx, client, job, fmt.Errorf("%w: parse variables: %v", ErrInvalidInput, err))
		return
	}

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.fail(ctx, client, job, err)
		return
	}

	cmd, err := client.NewCompleteJobCommand().JobKey(job.Key).VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{"error": err.Error()})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{"jobKey": job.Key, "error": err.Error()})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
}

// Execute finds the lead in Zoho by email or creates it.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	if input.Email != "" {
		existing, err := h.crm.SearchLeadsByEmail(ctx, input.Email)
		if err != nil {
			return nil, classify(err)
		}
		if len(existing) > 0 && existing[0].ID != "" {
			lead := existing[0]
			if err := h.crm.UpdateLead(ctx, lead.ID, repeatEnquiry(lead, input)); err != nil {
				return nil, classify(err)
			}
			h.logger.Info("lead already in CRM, noted repeat enquiry", map[string]interface{}{
				"leadId":    input.LeadID,
				"crmLeadId": lead.ID,
			})
			return &Output{CRMLeadID: lead.ID}, nil
		}
	}

	id, err := h.crm.CreateLead(ctx, h.toZohoLead(input))
	if err != nil {
		return nil, classify(err)
	}

	h.logger.Info("lead created in CRM", map[string]interface{}{
		"leadId":    input.LeadID,
		"crmLeadId": id,
		"formType":  input.FormType,
	})
	return &Output{CRMLeadID: id, Created: true}, nil
}

func (h *Handler) toZohoLead(input *Input) *zoho.Lead {
	first, last := splitName(input.FullName)
	description := "Fiscal Forum lead " + input.LeadID
	if input.Priority != "" {
		description += " (priority " + input.Priority + ")"
	}
	return &zoho.Lead{
		FirstName:   first,
		LastName:    last,
		Email:       input.Email,
		Mobile:      input.Phone,
		City:        input.City,
		LeadSource:  h.config.LeadSourcePrefix + " - " + input.FormType,
		LeadStatus:  h.config.LeadStatus,
		Description: description,
	}
}

// repeatEnquiry appends the new enquiry to an existing lead's description.
// Last_Name is mandatory on every Zoho write, so it is carried over.
func repeatEnquiry(existing zoho.Lead, input *Input) *zoho.Lead {
	note := fmt.Sprintf("Repeat enquiry: %s (lead %s)", input.FormType, input.LeadID)
	if existing.Description != "" {
		note = existing.Description + "\n" + note
	}
	return &zoho.Lead{LastName: existing.LastName, Description: note}
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	stdErr := toStandardError(err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
	h.errorHandler.HandleJobError(ctx, client, job, stdErr)
}

func validateInput(input *Input) error {
	switch {
	case input.LeadID == "":
		return fmt.Errorf("%w: leadId is required", ErrInvalidInput)
	case input.FormType == "":
		return fmt.Errorf("%w: formType is required", ErrInvalidInput)
	case strings.TrimSpace(input.FullName) == "":
		return fmt.Errorf("%w: fullName is required", ErrInvalidInput)
	case input.Email == "" && input.Phone == "":
		return fmt.Errorf("%w: email or phone is required", ErrInvalidInput)
	}
	return nil
}

// splitName returns first and last name. Zoho requires Last_Name, so a
// single word goes there.
func splitName(full string) (string, string) {
	parts := strings.Fields(full)
	if len(parts) < 2 {
		return "", strings.Join(parts, " ")
	}
	return strings.Join(parts[:len(parts)-1], " "), parts[len(parts)-1]
}

// classify sorts Zoho failures into auth errors, permanent rejections and
// retryable sync failures. Transport errors without a status are retryable.
func classify(err error) error {
	var statusErr *httpclient.StatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.StatusCode == http.StatusUnauthorized || statusErr.StatusCode == http.StatusForbidden:
			return fmt.Errorf("%w: %v", ErrCRMAuthFailed, err)
		case !statusErr.Transient():
			return fmt.Errorf("%w: %v", ErrCRMRejected, err)
		}
	}
	return fmt.Errorf("%w: %v", ErrCRMSyncFailed, err)
}

func toStandardError(err error) *apperrors.StandardError {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return apperrors.NewBusinessRuleError("Invalid job variables", err.Error())
	case errors.Is(err, ErrCRMAuthFailed):
		return apperrors.NewCRMAuthFailedError(err.Error())
	case errors.Is(err, ErrCRMSyncFailed):
		return apperrors.NewCRMSyncFailedError(err)
	case errors.Is(err, ErrCRMRejected):
		stdErr := apperrors.NewCRMSyncFailedError(err)
		stdErr.Retryable = false
		return stdErr
	default:
		return apperrors.AsStandardError(err)
	}
}
