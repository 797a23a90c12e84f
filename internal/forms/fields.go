package forms

import (
	"fiscal-forum/internal/common/validation"
	"fiscal-forum/internal/models"
)

// Field builders keep the definitions below readable.

func text(name, label string) models.Field {
	return models.Field{Name: name, Label: label, Kind: models.FieldText, Required: true}
}

func ruled(name, label, kind, rule string) models.Field {
	return models.Field{Name: name, Label: label, Kind: kind, Required: true, Rule: rule}
}

func amount(name, label string) models.Field {
	return ruled(name, label, models.FieldNumber, validation.RuleAmount)
}

func date(name, label string) models.Field {
	return ruled(name, label, models.FieldDate, validation.RuleDate)
}

func choice(name, label string, options ...string) models.Field {
	return models.Field{Name: name, Label: label, Kind: models.FieldSelect, Required: true, Options: opts(options...)}
}

func multi(name, label string, options ...string) models.Field {
	f := choice(name, label, options...)
	f.Multi = true
	return f
}

// limit caps a free-text value to the width of the column it is stored in.
func limit(f models.Field, n int) models.Field {
	f.MaxLength = n
	return f
}

func optional(f models.Field) models.Field {
	f.Required = false
	return f
}

func when(f models.Field, field string, equals ...string) models.Field {
	f.VisibleWhen = &models.Condition{Field: field, Equals: equals}
	return f
}

// opts takes "value:Label" pairs; a bare value doubles as its label.
func opts(pairs ...string) []models.Option {
	out := make([]models.Option, 0, len(pairs))
	for _, p := range pairs {
		value, label := p, p
		for i := 0; i < len(p); i++ {
			if p[i] == ':' {
				value, label = p[:i], p[i+1:]
				break
			}
		}
		out = append(out, models.Option{Value: value, Label: label})
	}
	return out
}

func contactStep(title string) models.Step {
	return models.Step{
		Title: title,
		Fields: []models.Field{
			ruled("fullName", "Full name", models.FieldText, validation.RuleName),
			ruled("phone", "Mobile number", models.FieldPhone, validation.RulePhone),
			limit(ruled("email", "Email address", models.FieldEmail, validation.RuleEmail), 254),
			limit(text("city", "City"), 80),
			optional(ruled("pincode", "Pincode", models.FieldText, validation.RulePincode)),
			{Name: "consent", Label: "Consent", Kind: models.FieldCheckbox, Required: true},
		},
	}
}

func employmentStep() models.Step {
	return models.Step{
		Title: "Employment",
		Fields: []models.Field{
			choice("employmentType", "Employment type", "salaried:Salaried", "self-employed:Self employed"),
			when(text("companyName", "Company name"), "employmentType", "salaried"),
			when(amount("monthlyIncome", "Monthly income"), "employmentType", "salaried"),
			when(text("businessName", "Business name"), "employmentType", "self-employed"),
			when(amount("annualTurnover", "Annual turnover"), "employmentType", "self-employed"),
			ruled("pan", "PAN", models.FieldText, validation.RulePAN),
		},
	}
}
