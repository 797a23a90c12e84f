package models

import "time"

// Lead statuses, in the order the follow-up process moves through them.
const (
	LeadStatusReceived  = "received"
	LeadStatusCRMSynced = "crm_synced"
	LeadStatusNotified  = "notified"
	LeadStatusFailed    = "failed"
)

type Lead struct {
	ID          string                 `json:"id"`
	FormType    string                 `json:"formType"`
	FullName    string                 `json:"fullName"`
	Email       string                 `json:"email"`
	Phone       string                 `json:"phone"`
	City        string                 `json:"city,omitempty"`
	Payload     map[string]interface{} `json:"payload"`
	ContactHash string                 `json:"-"`
	Status      string                 `json:"status"`
	CRMID       string                 `json:"crmId,omitempty"`
	Source      string                 `json:"source,omitempty"`
	ClientIP    string                 `json:"-"`
	UserAgent   string                 `json:"-"`
	CreatedAt   time.Time              `json:"createdAt"`
	UpdatedAt   time.Time              `json:"updatedAt"`
}

// LeadFilter narrows the admin lead listing.
type LeadFilter struct {
	FormType string
	Status   string
	Since    *time.Time
	Limit    int
	Offset   int
}

type AuditEntry struct {
	LeadID    string                 `json:"leadId"`
	Action    string                 `json:"action"`
	Detail    map[string]interface{} `json:"detail,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
}

// SubmitResponse is the body every lead endpoint answers with.
type SubmitResponse struct {
	Success   bool              `json:"success"`
	Error     string            `json:"error,omitempty"`
	Errors    map[string]string `json:"errors,omitempty"`
	LeadID    string            `json:"leadId,omitempty"`
	Duplicate bool              `json:"duplicate,omitempty"`
}
