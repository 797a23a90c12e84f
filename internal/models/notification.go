package models

type NotificationTemplate struct {
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Text    string `json:"text"`
	SMS     string `json:"sms,omitempty"`
}

// Notification records what the follow-up process sent for a lead.
type Notification struct {
	ID       string `json:"id"`
	LeadID   string `json:"leadId"`
	Channel  string `json:"channel"`  // "email" or "sms"
	Audience string `json:"audience"` // "applicant" or "sales"
	Status   string `json:"status"`   // "sent", "failed", "disabled"
	SentAt   string `json:"sentAt,omitempty"`
}
