package sendleadnotification

import "fiscal-forum/internal/models"

type Input struct {
	LeadID    string `json:"leadId"`
	FormType  string `json:"formType"`
	FullName  string `json:"fullName"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	City      string `json:"city,omitempty"`
	Priority  string `json:"priority,omitempty"`
	CRMLeadID string `json:"crmLeadId,omitempty"`
}

type Output struct {
	Notifications []models.Notification `json:"notifications"`
	EmailsSent    int                   `json:"emailsSent"`
	SMSSent       int                   `json:"smsSent"`
}

const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"

	AudienceApplicant = "applicant"
	AudienceSales     = "sales"

	StatusSent    = "sent"
	StatusSkipped = "skipped"
)
