// Package leads accepts wizard submissions: it validates them against the
// form registry, de-duplicates, persists and hands them to the follow-up
// workflow.
package leads

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"

	"fiscal-forum/internal/common/config"
	apperrors "fiscal-forum/internal/common/errors"
	"fiscal-forum/internal/common/logger"
	"fiscal-forum/internal/common/metrics"
	"fiscal-forum/internal/common/observability"
	"fiscal-forum/internal/forms"
	"fiscal-forum/internal/models"
)

// Submission outcomes, used as metric labels.
const (
	OutcomeAccepted  = "accepted"
	OutcomeDuplicate = "duplicate"
	OutcomeInvalid   = "invalid"
	OutcomeError     = "error"
)

const (
	defaultSource = "website"
	// maxSourceLength is the width of leads.source and subscribers.source.
	maxSourceLength = 120
)

// Deduper claims a contact hash for the dedupe window. *database.RedisClient
// satisfies it.
type Deduper interface {
	SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
}

// ProcessStarter starts the follow-up workflow. *camunda.Client satisfies it.
type ProcessStarter interface {
	StartProcess(ctx context.Context, processID string, variables map[string]interface{}) (int64, error)
}

// Store is the persistence the service needs; *Repository satisfies it.
type Store interface {
	Create(ctx context.Context, lead *models.Lead) error
	Subscribe(ctx context.Context, email, source string) (bool, error)
	Get(ctx context.Context, id string) (*models.Lead, error)
	List(ctx context.Context, filter models.LeadFilter) ([]models.Lead, error)
	AuditTrail(ctx context.Context, id string) ([]models.AuditEntry, error)
	AppendAudit(ctx context.Context, id, action string, detail map[string]interface{}) error
}

type Submission struct {
	FormType  string
	Values    map[string]string
	Source    string
	ClientIP  string
	UserAgent string
}

type Result struct {
	LeadID    string
	Duplicate bool
}

type Service struct {
	forms     *forms.Registry
	store     Store
	dedupe    Deduper
	workflow  ProcessStarter
	processID string
	obs       *observability.Observability
	cfg       config.LeadsConfig
	logger    logger.Logger
	now       func() time.Time
}

// NewService wires the submission pipeline. dedupe may be nil, in which
// case every valid submission is stored.
func NewService(registry *forms.Registry, store Store, dedupe Deduper, cfg config.LeadsConfig, log logger.Logger) *Service {
	return &Service{
		forms:  registry,
		store:  store,
		dedupe: dedupe,
		cfg:    cfg,
		logger: log.WithFields(map[string]interface{}{"component": "leads"}),
		now:    time.Now,
	}
}

// WithWorkflow enables starting processID for every stored lead.
func (s *Service) WithWorkflow(starter ProcessStarter, processID string) *Service {
	s.workflow = starter
	s.processID = processID
	return s
}

func (s *Service) WithObservability(obs *observability.Observability) *Service {
	s.obs = obs
	return s
}

// Submit runs one submission through validation, dedupe and persistence.
func (s *Service) Submit(ctx context.Context, sub Submission) (*Result, error) {
	start := s.now()

	form, err := s.forms.Get(sub.FormType)
	if err != nil {
		return nil, err
	}

	result, outcome, err := s.submit(ctx, form, sub)
	metrics.LeadSubmissions.WithLabelValues(form.Type, outcome).Inc()
	s.obs.RecordSubmission(ctx, form.Type, outcome, s.now().Sub(start))
	return result, err
}

func (s *Service) submit(ctx context.Context, form *forms.Form, sub Submission) (*Result, string, error) {
	fieldErrs := form.Validate(sub.Values)
	payload := form.Normalize(sub.Values)
	if len(fieldErrs) == 0 {
		schemaErrs, err := form.CheckPayload(payload)
		if err != nil {
			return nil, OutcomeError, apperrors.NewInternalError(err)
		}
		fieldErrs = schemaErrs
	}
	if len(fieldErrs) > 0 {
		for field := range fieldErrs {
			metrics.LeadFieldErrors.WithLabelValues(form.Type, field).Inc()
		}
		return nil, OutcomeInvalid, apperrors.NewLeadValidationFailedError(form.Type, fieldErrs)
	}

	lead := s.newLead(form.Type, payload, sub)
	log := s.logger.WithFields(map[string]interface{}{"formType": form.Type, "leadId": lead.ID})

	dedupeKey := s.cfg.DedupeKeyPrefix + lead.ContactHash
	claimed := false
	if s.dedupe != nil {
		ok, err := s.dedupe.SetNX(ctx, dedupeKey, lead.ID, s.cfg.DedupeTTL())
		switch {
		case err != nil:
			log.Warn("dedupe check unavailable, storing lead", map[string]interface{}{"error": err.Error()})
		case !ok:
			log.Info("duplicate submission inside dedupe window", nil)
			return &Result{Duplicate: true}, OutcomeDuplicate, nil
		default:
			claimed = true
		}
	}

	if form.Type == forms.Subscribe {
		created, err := s.store.Subscribe(ctx, lead.Email, lead.Source)
		if err != nil {
			s.release(ctx, claimed, dedupeKey)
			log.Error("failed to store subscriber", map[string]interface{}{"error": err.Error()})
			return nil, OutcomeError, err
		}
		if !created {
			return &Result{Duplicate: true}, OutcomeDuplicate, nil
		}
		log.Info("subscriber stored", nil)
		return &Result{}, OutcomeAccepted, nil
	}

	if err := s.store.Create(ctx, lead); err != nil {
		s.release(ctx, claimed, dedupeKey)
		log.Error("failed to store lead", map[string]interface{}{"error": err.Error()})
		return nil, OutcomeError, err
	}
	log.Info("lead stored", map[string]interface{}{"source": lead.Source})

	s.startWorkflow(ctx, lead, log)
	return &Result{LeadID: lead.ID}, OutcomeAccepted, nil
}

// startWorkflow failures leave the lead in "received" for a manual retry.
func (s *Service) startWorkflow(ctx context.Context, lead *models.Lead, log logger.Logger) {
	if s.workflow == nil || !s.cfg.StartWorkflow {
		return
	}
	key, err := s.workflow.StartProcess(ctx, s.processID, ProcessVariables(lead))
	if err != nil {
		stdErr := apperrors.NewWorkflowStartFailedError(s.processID, err)
		log.Warn("failed to start lead workflow", map[string]interface{}{
			"errorCode": string(stdErr.Code),
			"details":   stdErr.Details,
		})
		return
	}
	log.Info("lead workflow started", map[string]interface{}{"processInstanceKey": key})
	if err := s.store.AppendAudit(ctx, lead.ID, ActionWorkflow, map[string]interface{}{
		"processId":          s.processID,
		"processInstanceKey": key,
	}); err != nil {
		log.Warn("failed to audit workflow start", map[string]interface{}{"error": err.Error()})
	}
}

func (s *Service) release(ctx context.Context, claimed bool, key string) {
	if !claimed {
		return
	}
	if err := s.dedupe.Del(ctx, key); err != nil {
		s.logger.Warn("failed to release dedupe key", map[string]interface{}{"key": key, "error": err.Error()})
	}
}

func (s *Service) newLead(formType string, payload map[string]interface{}, sub Submission) *models.Lead {
	source := strings.TrimSpace(sub.Source)
	if source == "" {
		source = defaultSource
	}
	if r := []rune(source); len(r) > maxSourceLength {
		source = string(r[:maxSourceLength])
	}
	now := s.now().UTC()
	lead := &models.Lead{
		ID:        uuid.New().String(),
		FormType:  formType,
		FullName:  stringField(payload, "fullName"),
		Email:     stringField(payload, "email"),
		Phone:     stringField(payload, "phone"),
		City:      stringField(payload, "city"),
		Payload:   payload,
		Status:    models.LeadStatusReceived,
		Source:    source,
		ClientIP:  sub.ClientIP,
		UserAgent: sub.UserAgent,
		CreatedAt: now,
		UpdatedAt: now,
	}
	lead.ContactHash = ContactHash(formType, lead.Phone, lead.Email)
	return lead
}

func (s *Service) Get(ctx context.Context, id string) (*models.Lead, []models.AuditEntry, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil, apperrors.NewLeadNotFoundError(id)
	}
	lead, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	trail, err := s.store.AuditTrail(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return lead, trail, nil
}

func (s *Service) List(ctx context.Context, filter models.LeadFilter) ([]models.Lead, error) {
	return s.store.List(ctx, filter)
}

// ContactHash identifies one contact per form for de-duplication.
func ContactHash(formType, phone, email string) string {
	sum := sha256.Sum256([]byte(formType + "|" + phone + "|" + strings.ToLower(email)))
	return hex.EncodeToString(sum[:])
}

// Priority ranks loan enquiries above the rest for the sales desk.
func Priority(formType string) string {
	switch formType {
	case forms.HomeLoan, forms.LAPLoan, forms.BusinessLoan, forms.SecuritiesLoan, forms.EducationLoan:
		return "high"
	default:
		return "normal"
	}
}

// ProcessVariables are the variables the lead-intake process starts with.
func ProcessVariables(lead *models.Lead) map[string]interface{} {
	return map[string]interface{}{
		"leadId":   lead.ID,
		"formType": lead.FormType,
		"fullName": lead.FullName,
		"email":    lead.Email,
		"phone":    lead.Phone,
		"city":     lead.City,
		"priority": Priority(lead.FormType),
	}
}

func stringField(payload map[string]interface{}, key string) string {
	if v, ok := payload[key].(string); ok {
		return v
	}
	return ""
}
