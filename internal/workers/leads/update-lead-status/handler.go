package updateleadstatus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "fiscal-forum/internal/common/errors"
	"fiscal-forum/internal/common/logger"
	"fiscal-forum/internal/common/metrics"
	"fiscal-forum/internal/models"
)

const TaskType = "update-lead-status"

var (
	ErrInvalidInput  = errors.New("LEAD_INVALID")
	ErrInvalidStatus = errors.New("INVALID_STATUS")
)

var validStatuses = map[string]bool{
	models.LeadStatusReceived:  true,
	models.LeadStatusCRMSynced: true,
	models.LeadStatusNotified:  true,
	models.LeadStatusFailed:    true,
}

// StatusStore is satisfied by *leads.Repository.
type StatusStore interface {
	UpdateStatus(ctx context.Context, id, status, crmID string, detail map[string]interface{}) error
}

type Handler struct {
	config       *Config
	store        StatusStore
	logger       logger.Logger
	errorHandler *apperrors.JobErrorHandler
	now          func() time.Time
}

func NewHandler(cfg *Config, store StatusStore, log logger.Logger) (*Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       cfg,
		store:        store,
		logger:       log,
		errorHandler: apperrors.NewJobErrorHandler(log),
		now:          time.Now,
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

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

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.LeadID == "" {
		return nil, fmt.Errorf("%w: leadId is required", ErrInvalidInput)
	}
	if !validStatuses[input.Status] {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, input.Status)
	}

	detail := map[string]interface{}{}
	if input.Reason != "" {
		detail["reason"] = input.Reason
	}
	if input.Step != "" {
		detail["step"] = input.Step
	}

	if err := h.store.UpdateStatus(ctx, input.LeadID, input.Status, input.CRMLeadID, detail); err != nil {
		return nil, err
	}

	h.logger.Info("lead status updated", map[string]interface{}{
		"leadId": input.LeadID,
		"status": input.Status,
		"crmId":  input.CRMLeadID,
	})
	return &Output{
		LeadID:        input.LeadID,
		LeadStatus:    input.Status,
		StatusUpdated: true,
		UpdatedAt:     h.now().UTC().Format(time.RFC3339),
	}, nil
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	stdErr := toStandardError(err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
	h.errorHandler.HandleJobError(ctx, client, job, stdErr)
}

func toStandardError(err error) *apperrors.StandardError {
	if errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrInvalidStatus) {
		return apperrors.NewBusinessRuleError("Invalid job variables", err.Error())
	}
	return apperrors.AsStandardError(err)
}
