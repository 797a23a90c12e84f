package sendleadnotification

import (
	"bytes"
	htmltemplate "html/template"
	"io"
	"strings"
	"text/template"

	"fiscal-forum/internal/models"
)

var products = map[string]string{
	"car-insurance":    "car insurance",
	"health-insurance": "health insurance",
	"life-insurance":   "life insurance",
	"home-loan":        "home loan",
	"education-loan":   "education loan",
	"business-loan":    "business loan",
	"lap-loan":         "loan against property",
	"securities-loan":  "loan against securities",
	"stock-investment": "investment",
}

type templateData struct {
	LeadID    string
	FirstName string
	FullName  string
	Email     string
	Phone     string
	City      string
	Product   string
	Priority  string
	CRMLeadID string
}

func newTemplateData(in *Input) templateData {
	first := in.FullName
	if parts := strings.Fields(in.FullName); len(parts) > 0 {
		first = parts[0]
	}
	product, ok := products[in.FormType]
	if !ok {
		product = strings.ReplaceAll(in.FormType, "-", " ")
	}
	priority := in.Priority
	if priority == "" {
		priority = "normal"
	}
	return templateData{
		LeadID:    in.LeadID,
		FirstName: first,
		FullName:  in.FullName,
		Email:     in.Email,
		Phone:     in.Phone,
		City:      in.City,
		Product:   product,
		Priority:  priority,
		CRMLeadID: in.CRMLeadID,
	}
}

var (
	applicantSubject = template.Must(template.New("applicant-subject").Parse(
		`We received your {{.Product}} request`))

	applicantText = template.Must(template.New("applicant-text").Parse(
		`Hi {{.FirstName}},

Thank you for your {{.Product}} enquiry with Fiscal Forum. One of our advisors will call you within one working day.

Reference: {{.LeadID}}

Fiscal Forum`))

	applicantHTML = htmltemplate.Must(htmltemplate.New("applicant-html").Parse(
		`<p>Hi {{.FirstName}},</p>
<p>Thank you for your {{.Product}} enquiry with Fiscal Forum. One of our advisors will call you within one working day.</p>
<p>Reference: <strong>{{.LeadID}}</strong></p>
<p>Fiscal Forum</p>`))

	salesSubject = template.Must(template.New("sales-subject").Parse(
		`[{{.Priority}}] New {{.Product}} lead: {{.FullName}}`))

	salesText = template.Must(template.New("sales-text").Parse(
		`Lead:     {{.LeadID}}
Product:  {{.Product}}
Name:     {{.FullName}}
Email:    {{.Email}}
Phone:    {{.Phone}}
City:     {{.City}}
Priority: {{.Priority}}{{if .CRMLeadID}}
CRM lead: {{.CRMLeadID}}{{end}}`))

	applicantSMS = template.Must(template.New("applicant-sms").Parse(
		`Hi {{.FirstName}}, thanks for your {{.Product}} enquiry with Fiscal Forum. An advisor will call you shortly. Ref {{.LeadID}}`))
)

type renderer interface {
	Execute(w io.Writer, data any) error
}

func render(tpl renderer, data templateData) (string, error) {
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderAll(data templateData, subject, text, html, sms renderer) (models.NotificationTemplate, error) {
	var out models.NotificationTemplate
	var err error
	if out.Subject, err = render(subject, data); err != nil {
		return out, err
	}
	if out.Text, err = render(text, data); err != nil {
		return out, err
	}
	if html != nil {
		if out.HTML, err = render(html, data); err != nil {
			return out, err
		}
	}
	if sms != nil {
		if out.SMS, err = render(sms, data); err != nil {
			return out, err
		}
	}
	return out, nil
}

// applicantMessages renders the acknowledgement email and SMS.
func applicantMessages(data templateData) (models.NotificationTemplate, error) {
	return renderAll(data, applicantSubject, applicantText, applicantHTML, applicantSMS)
}

// salesMessages renders the plain-text alert for the sales desk.
func salesMessages(data templateData) (models.NotificationTemplate, error) {
	return renderAll(data, salesSubject, salesText, nil, nil)
}
