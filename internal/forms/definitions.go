package forms

import (
	"fiscal-forum/internal/common/validation"
	"fiscal-forum/internal/models"
)

// Form types, also the path segment of each submission endpoint.
const (
	CarInsurance    = "car-insurance"
	HealthInsurance = "health-insurance"
	LifeInsurance   = "life-insurance"
	HomeLoan        = "home-loan"
	EducationLoan   = "education-loan"
	BusinessLoan    = "business-loan"
	LAPLoan         = "lap-loan"
	SecuritiesLoan  = "securities-loan"
	StockInvestment = "stock-investment"
	Subscribe       = "subscribe"
)

var yesNo = []string{"yes:Yes", "no:No"}

func definitions() []models.FormDefinition {
	return []models.FormDefinition{
		{
			Type:  CarInsurance,
			Title: "Car Insurance",
			Steps: []models.Step{
				{
					Title: "Vehicle details",
					Fields: []models.Field{
						ruled("registrationNumber", "Registration number", models.FieldText, validation.RuleVehicleReg),
						text("make", "Make"),
						text("model", "Model"),
						ruled("manufactureYear", "Manufacture year", models.FieldNumber, validation.RuleYear),
						choice("fuelType", "Fuel type", "petrol:Petrol", "diesel:Diesel", "cng:CNG", "electric:Electric"),
					},
				},
				{
					Title: "Policy",
					Fields: []models.Field{
						choice("policyType", "Policy type", "new:New policy", "renewal:Renewal"),
						when(text("previousInsurer", "Previous insurer"), "policyType", "renewal"),
						when(date("previousPolicyExpiry", "Previous policy expiry"), "policyType", "renewal"),
						when(choice("claimedLastYear", "Claim in the last year", yesNo...), "policyType", "renewal"),
						optional(multi("addOns", "Add-ons",
							"zero-dep:Zero depreciation", "roadside:Roadside assistance",
							"engine-protect:Engine protection", "personal-accident:Personal accident cover")),
					},
				},
				contactStep("Contact details"),
			},
		},
		{
			Type:  HealthInsurance,
			Title: "Health Insurance",
			Steps: []models.Step{
				{
					Title: "Members",
					Fields: []models.Field{
						choice("coverFor", "Cover for", "self:Self", "couple:Self and spouse", "family:Family", "parents:Parents"),
						multi("members", "Members", "self:Self", "spouse:Spouse", "son:Son", "daughter:Daughter", "father:Father", "mother:Mother"),
						ruled("eldestMemberAge", "Age of eldest member", models.FieldNumber, validation.RuleAge),
					},
				},
				{
					Title: "Medical history",
					Fields: []models.Field{
						choice("preExistingDisease", "Pre-existing disease", yesNo...),
						when(multi("conditions", "Conditions",
							"diabetes:Diabetes", "hypertension:Hypertension", "thyroid:Thyroid",
							"asthma:Asthma", "heart:Heart ailment", "other:Other"), "preExistingDisease", "yes"),
						choice("sumInsured", "Sum insured", "300000:3 Lakh", "500000:5 Lakh", "1000000:10 Lakh", "2500000:25 Lakh"),
					},
				},
				contactStep("Contact details"),
			},
		},
		{
			Type:  LifeInsurance,
			Title: "Life Insurance",
			Steps: []models.Step{
				{
					Title: "Your profile",
					Fields: []models.Field{
						date("dateOfBirth", "Date of birth"),
						choice("gender", "Gender", "male:Male", "female:Female", "other:Other"),
						choice("smoker", "Tobacco user", yesNo...),
						amount("annualIncome", "Annual income"),
						choice("occupation", "Occupation", "salaried:Salaried", "self-employed:Self employed", "professional:Professional", "homemaker:Homemaker"),
					},
				},
				{
					Title: "Cover",
					Fields: []models.Field{
						choice("planType", "Plan type", "term:Term plan", "endowment:Endowment", "ulip:ULIP"),
						amount("coverAmount", "Cover amount"),
						choice("policyTerm", "Policy term", "10:10 years", "20:20 years", "30:30 years", "40:40 years"),
					},
				},
				contactStep("Contact details"),
			},
		},
		{
			Type:  HomeLoan,
			Title: "Home Loan",
			Steps: []models.Step{
				{
					Title: "Loan requirement",
					Fields: []models.Field{
						amount("loanAmount", "Loan amount"),
						text("propertyCity", "Property city"),
						choice("propertyStatus", "Property status", "identified:Identified", "not-identified:Not yet identified", "under-construction:Under construction"),
						choice("tenure", "Tenure", "10:10 years", "15:15 years", "20:20 years", "25:25 years", "30:30 years"),
					},
				},
				employmentStep(),
				contactStep("Contact details"),
			},
		},
		{
			Type:  EducationLoan,
			Title: "Education Loan",
			Steps: []models.Step{
				{
					Title: "Course",
					Fields: []models.Field{
						text("courseName", "Course name"),
						text("institution", "Institution"),
						choice("studyCountry", "Study in", "india:India", "abroad:Abroad"),
						when(text("countryName", "Country"), "studyCountry", "abroad"),
						date("courseStartDate", "Course start date"),
						amount("loanAmount", "Loan amount"),
					},
				},
				{
					Title: "Co-applicant",
					Fields: []models.Field{
						ruled("coApplicantName", "Co-applicant name", models.FieldText, validation.RuleName),
						choice("coApplicantRelation", "Relation", "parent:Parent", "spouse:Spouse", "sibling:Sibling", "guardian:Guardian"),
						amount("coApplicantIncome", "Co-applicant monthly income"),
					},
				},
				contactStep("Contact details"),
			},
		},
		{
			Type:  BusinessLoan,
			Title: "Business Loan",
			Steps: []models.Step{
				{
					Title: "Business",
					Fields: []models.Field{
						text("businessName", "Business name"),
						choice("businessType", "Business type", "proprietorship:Proprietorship", "partnership:Partnership", "llp:LLP", "private-limited:Private limited"),
						choice("yearsInBusiness", "Years in business", "0-1:Less than 1 year", "1-3:1 to 3 years", "3-5:3 to 5 years", "5+:More than 5 years"),
						amount("annualTurnover", "Annual turnover"),
						amount("loanAmount", "Loan amount"),
						choice("gstRegistered", "GST registered", yesNo...),
						optional(when(text("gstin", "GSTIN"), "gstRegistered", "yes")),
					},
				},
				contactStep("Contact details"),
			},
		},
		{
			Type:  LAPLoan,
			Title: "Loan Against Property",
			Steps: []models.Step{
				{
					Title: "Property",
					Fields: []models.Field{
						choice("propertyType", "Property type", "residential:Residential", "commercial:Commercial", "plot:Plot"),
						amount("propertyValue", "Property value"),
						text("propertyCity", "Property city"),
						amount("loanAmount", "Loan amount"),
					},
				},
				employmentStep(),
				contactStep("Contact details"),
			},
		},
		{
			Type:  SecuritiesLoan,
			Title: "Loan Against Securities",
			Steps: []models.Step{
				{
					Title: "Portfolio",
					Fields: []models.Field{
						multi("securityTypes", "Securities pledged", "shares:Shares", "mutual-funds:Mutual funds", "bonds:Bonds", "insurance:Insurance policies"),
						amount("portfolioValue", "Portfolio value"),
						amount("loanAmount", "Loan amount"),
						optional(text("dematProvider", "Demat provider")),
					},
				},
				contactStep("Contact details"),
			},
		},
		{
			Type:  StockInvestment,
			Title: "Stock Investment",
			Steps: []models.Step{
				{
					Title: "Investment interest",
					Fields: []models.Field{
						choice("service", "Service", "equity-advisory:Equity advisory", "pms:Portfolio management", "mutual-funds:Mutual funds", "ipo:IPO investment", "demat:Demat account"),
						amount("investmentAmount", "Investment amount"),
						choice("experience", "Market experience", "beginner:Beginner", "intermediate:Intermediate", "expert:Expert"),
						choice("riskAppetite", "Risk appetite", "low:Low", "moderate:Moderate", "high:High"),
					},
				},
				contactStep("Contact details"),
			},
		},
		{
			Type:  Subscribe,
			Title: "Newsletter",
			Steps: []models.Step{
				{
					Title: "Subscribe",
					Fields: []models.Field{
						ruled("email", "Email address", models.FieldEmail, validation.RuleEmail),
					},
				},
			},
		},
	}
}
