package crmleadcreate

type Input struct {
	LeadID   string `json:"leadId"`
	FormType string `json:"formType"`
	FullName string `json:"fullName"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	City     string `json:"city,omitempty"`
	Priority string `json:"priority,omitempty"`
}

type Output struct {
	CRMLeadID string `json:"crmLeadId"`
	Created   bool   `json:"crmLeadCreated"`
}
