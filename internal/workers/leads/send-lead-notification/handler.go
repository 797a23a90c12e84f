package sendleadnotification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"fiscal-forum/internal/common/aws"
	apperrors "fiscal-forum/internal/common/errors"
	"fiscal-forum/internal/common/logger"
	"fiscal-forum/internal/common/metrics"
	"fiscal-forum/internal/models"
)

const TaskType = "send-lead-notification"

var (
	ErrInvalidInput       = errors.New("LEAD_INVALID")
	ErrNotificationFailed = errors.New("NOTIFICATION_FAILED")
)

// EmailSender is satisfied by *aws.Mailer.
type EmailSender interface {
	Send(ctx context.Context, email aws.Email) (string, error)
}

// SMSSender is satisfied by *aws.SMSSender.
type SMSSender interface {
	Send(ctx context.Context, phone, message string) (string, error)
}

type deliveryError struct {
	channel  string
	audience string
	err      error
}

func (e *deliveryError) Error() string {
	return fmt.Sprintf("%s to %s: %v", e.channel, e.audience, e.err)
}

func (e *deliveryError) Unwrap() []error {
	return []error{ErrNotificationFailed, e.err}
}

type Handler struct {
	config       *Config
	mailer       EmailSender
	sms          SMSSender
	redis        *redis.Client
	logger       logger.Logger
	errorHandler *apperrors.JobErrorHandler
	now          func() time.Time
}

// NewHandler builds the worker. mailer, sms and rdb may be nil when the
// matching channel is disabled; without rdb every attempt sends.
func NewHandler(cfg *Config, mailer EmailSender, sms SMSSender, rdb *redis.Client, log logger.Logger) (*Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	if cfg.EmailEnabled && mailer == nil {
		return nil, fmt.Errorf("email is enabled but no mailer was provided")
	}
	if cfg.SMSEnabled && sms == nil {
		return nil, fmt.Errorf("sms is enabled but no sender was provided")
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       cfg,
		mailer:       mailer,
		sms:          sms,
		redis:        rdb,
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

// Execute acknowledges the lead by email, alerts the sales desk and, for
// form types configured for it, texts the lead. The first failed delivery
// fails the job; deliveries that already went out are skipped on retry.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.LeadID == "" || input.FormType == "" {
		return nil, fmt.Errorf("%w: leadId and formType are required", ErrInvalidInput)
	}

	data := newTemplateData(input)
	applicant, err := applicantMessages(data)
	if err != nil {
		return nil, fmt.Errorf("render applicant messages: %w", err)
	}
	sales, err := salesMessages(data)
	if err != nil {
		return nil, fmt.Errorf("render sales messages: %w", err)
	}

	out := &Output{Notifications: []models.Notification{}}

	if h.config.EmailEnabled && input.Email != "" {
		n, err := h.deliver(ctx, input.LeadID, ChannelEmail, AudienceApplicant, func(ctx context.Context) (string, error) {
			return h.mailer.Send(ctx, aws.Email{
				To:      []string{input.Email},
				Subject: applicant.Subject,
				HTML:    applicant.HTML,
				Text:    applicant.Text,
			})
		})
		if err != nil {
			return nil, err
		}
		out.add(n)
	}

	if h.config.EmailEnabled && h.config.SalesEmail != "" {
		email := aws.Email{
			To:      []string{h.config.SalesEmail},
			Subject: sales.Subject,
			Text:    sales.Text,
		}
		if input.Email != "" {
			email.ReplyTo = []string{input.Email}
		}
		n, err := h.deliver(ctx, input.LeadID, ChannelEmail, AudienceSales, func(ctx context.Context) (string, error) {
			return h.mailer.Send(ctx, email)
		})
		if err != nil {
			return nil, err
		}
		out.add(n)
	}

	if h.config.smsFor(input.FormType) && input.Phone != "" {
		n, err := h.deliver(ctx, input.LeadID, ChannelSMS, AudienceApplicant, func(ctx context.Context) (string, error) {
			return h.sms.Send(ctx, input.Phone, applicant.SMS)
		})
		if err != nil {
			return nil, err
		}
		out.add(n)
	}

	h.logger.Info("lead notifications processed", map[string]interface{}{
		"leadId":     input.LeadID,
		"emailsSent": out.EmailsSent,
		"smsSent":    out.SMSSent,
	})
	return out, nil
}

func (o *Output) add(n models.Notification) {
	o.Notifications = append(o.Notifications, n)
	if n.Status != StatusSent {
		return
	}
	switch n.Channel {
	case ChannelEmail:
		o.EmailsSent++
	case ChannelSMS:
		o.SMSSent++
	}
}

func sentKey(leadID, channel, audience string) string {
	return fmt.Sprintf("notify:%s:%s:%s", leadID, channel, audience)
}

// deliver claims the (lead, channel, audience) slot in Redis before sending
// and releases it when the send fails. A Redis outage never blocks delivery.
func (h *Handler) deliver(ctx context.Context, leadID, channel, audience string, send func(context.Context) (string, error)) (models.Notification, error) {
	n := models.Notification{
		ID:       uuid.NewString(),
		LeadID:   leadID,
		Channel:  channel,
		Audience: audience,
	}
	key := sentKey(leadID, channel, audience)

	claimed := false
	if h.redis != nil {
		ok, err := h.redis.SetNX(ctx, key, h.now().UTC().Format(time.RFC3339), h.config.SentTTL).Result()
		switch {
		case err != nil:
			h.logger.Warn("notification claim unavailable", map[string]interface{}{"key": key, "error": err.Error()})
		case !ok:
			n.Status = StatusSkipped
			return n, nil
		default:
			claimed = true
		}
	}

	messageID, err := send(ctx)
	if err != nil {
		if claimed {
			if delErr := h.redis.Del(ctx, key).Err(); delErr != nil {
				h.logger.Warn("failed to release notification claim", map[string]interface{}{"key": key, "error": delErr.Error()})
			}
		}
		return n, &deliveryError{channel: channel, audience: audience, err: err}
	}

	n.Status = StatusSent
	n.SentAt = h.now().UTC().Format(time.RFC3339)
	h.logger.Debug("notification sent", map[string]interface{}{
		"leadId":    leadID,
		"channel":   channel,
		"audience":  audience,
		"messageId": messageID,
	})
	return n, nil
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	stdErr := toStandardError(err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
	h.errorHandler.HandleJobError(ctx, client, job, stdErr)
}

func toStandardError(err error) *apperrors.StandardError {
	var de *deliveryError
	switch {
	case errors.As(err, &de):
		return apperrors.NewNotificationSendFailedError(de.channel, de.err)
	case errors.Is(err, ErrInvalidInput):
		return apperrors.NewBusinessRuleError("Invalid job variables", err.Error())
	default:
		return apperrors.AsStandardError(err)
	}
}
