// Package api exposes the catalog, the wizard definitions and the lead
// endpoints over HTTP.
package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"fiscal-forum/internal/catalog"
	apperrors "fiscal-forum/internal/common/errors"
	"fiscal-forum/internal/common/logger"
	"fiscal-forum/internal/common/observability"
	"fiscal-forum/internal/forms"
	"fiscal-forum/internal/leads"
	"fiscal-forum/internal/models"
)

// LeadService is the part of *leads.Service the handlers use.
type LeadService interface {
	Submit(ctx context.Context, sub leads.Submission) (*leads.Result, error)
	Get(ctx context.Context, id string) (*models.Lead, []models.AuditEntry, error)
	List(ctx context.Context, filter models.LeadFilter) ([]models.Lead, error)
}

type Handlers struct {
	forms    *forms.Registry
	leads    LeadService
	catalog  *catalog.Store
	searcher *catalog.Searcher
	obs      *observability.Observability
	logger   logger.Logger
}

func NewHandlers(registry *forms.Registry, leadService LeadService, store *catalog.Store, searcher *catalog.Searcher, obs *observability.Observability, log logger.Logger) *Handlers {
	return &Handlers{
		forms:    registry,
		leads:    leadService,
		catalog:  store,
		searcher: searcher,
		obs:      obs,
		logger:   log,
	}
}

// ==========================
// Catalog
// ==========================

func (h *Handlers) Home(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Home(c.Request.Context()))
}

func (h *Handlers) News(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	c.JSON(http.StatusOK, h.catalog.News(c.Request.Context(), limit))
}

func (h *Handlers) Investments(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Investments(c.Request.Context()))
}

func (h *Handlers) CreditCards(c *gin.Context) {
	filter := models.CardFilter{
		Category: c.Query("category"),
		Network:  c.Query("network"),
		Sort:     c.Query("sort"),
	}
	if raw := c.Query("maxAnnualFee"); raw != "" {
		fee, err := strconv.Atoi(raw)
		if err != nil || fee < 0 {
			respondError(c, h.logger, apperrors.NewBusinessRuleError("maxAnnualFee must be a non-negative number", raw))
			return
		}
		filter.MaxAnnualFee = &fee
	}
	c.JSON(http.StatusOK, h.catalog.CreditCards(c.Request.Context(), filter))
}

func (h *Handlers) CreditCard(c *gin.Context) {
	card, err := h.catalog.CreditCard(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

func (h *Handlers) SearchCards(c *gin.Context) {
	results, err := h.searcher.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// ==========================
// Forms
// ==========================

func (h *Handlers) ListForms(c *gin.Context) {
	list := h.forms.List()
	out := make([]models.FormDefinition, 0, len(list))
	for _, f := range list {
		out = append(out, f.FormDefinition)
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handlers) GetForm(c *gin.Context) {
	form, err := h.forms.Get(c.Param("form"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, form.FormDefinition)
}

// ValidateStep answers whether the wizard may leave ?step=N.
func (h *Handlers) ValidateStep(c *gin.Context) {
	form, err := h.forms.Get(c.Param("form"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	step, err := strconv.Atoi(c.DefaultQuery("step", "0"))
	if err != nil {
		respondError(c, h.logger, apperrors.NewBusinessRuleError("step must be a number", c.Query("step")))
		return
	}
	values, err := readValues(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	fieldErrs, err := form.ValidateStep(step, values)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	canProceed := len(fieldErrs) == 0
	h.obs.RecordStepValidation(c.Request.Context(), form.Type, step, canProceed)

	c.JSON(http.StatusOK, models.StepValidation{
		Success:    true,
		Step:       step,
		CanProceed: canProceed,
		Errors:     fieldErrs,
	})
}

// ==========================
// Leads
// ==========================

// SubmitLead handles POST <form endpoint>.
func (h *Handlers) SubmitLead(formType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		values, err := readValues(c)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}

		source := values["source"]
		if source == "" {
			source = c.Query("utm_source")
		}
		result, err := h.leads.Submit(c.Request.Context(), leads.Submission{
			FormType:  formType,
			Values:    values,
			Source:    source,
			ClientIP:  c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		})
		if err != nil {
			respondError(c, h.logger, err)
			return
		}

		c.JSON(http.StatusOK, models.SubmitResponse{
			Success:   true,
			LeadID:    result.LeadID,
			Duplicate: result.Duplicate,
		})
	}
}

// ==========================
// Admin
// ==========================

func (h *Handlers) ListLeads(c *gin.Context) {
	filter := models.LeadFilter{
		FormType: c.Query("formType"),
		Status:   c.Query("status"),
	}
	filter.Limit, _ = strconv.Atoi(c.Query("limit"))
	filter.Offset, _ = strconv.Atoi(c.Query("offset"))
	if raw := c.Query("since"); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(c, h.logger, apperrors.NewBusinessRuleError("since must be an RFC 3339 timestamp", raw))
			return
		}
		filter.Since = &since
	}

	list, err := h.leads.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leads": list, "count": len(list)})
}

func (h *Handlers) GetLead(c *gin.Context) {
	lead, trail, err := h.leads.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lead": lead, "audit": trail})
}
