package updateleadstatus

type Input struct {
	LeadID    string `json:"leadId"`
	Status    string `json:"status"`
	CRMLeadID string `json:"crmLeadId,omitempty"`
	Reason    string `json:"reason,omitempty"`
	// Step names the process step reporting the change, e.g. "crm-sync".
	Step string `json:"step,omitempty"`
}

type Output struct {
	LeadID        string `json:"leadId"`
	LeadStatus    string `json:"leadStatus"`
	StatusUpdated bool   `json:"statusUpdated"`
	UpdatedAt     string `json:"statusUpdatedAt"`
}
