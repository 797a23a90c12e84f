package catalog

import "fiscal-forum/internal/models"

var creditCards = []models.CreditCard{
	{
		ID:             "hdfc-millennia",
		Name:           "Millennia Credit Card",
		Issuer:         "HDFC Bank",
		Network:        "mastercard",
		Category:       "cashback",
		JoiningFee:     1000,
		AnnualFee:      1000,
		FeeWaiver:      "Annual fee waived on spends of ₹1,00,000 in a year",
		RewardRate:     "5% cashback on partner merchants",
		WelcomeBenefit: "1,000 CashPoints on paying the joining fee",
		LoungeAccess:   "8 domestic lounge visits a year",
		Features:       []string{"5% cashback on Amazon, Flipkart and Swiggy", "1% cashback on other spends", "1% fuel surcharge waiver"},
		Eligibility:    models.Eligibility{MinAge: 21, MaxAge: 60, MinIncome: 35000},
		ImageURL:       "/images/cards/hdfc-millennia.png",
		ApplyURL:       "/credit-cards/hdfc-millennia/apply",
		Rating:         4.4,
	},
	{
		ID:             "sbi-simplyclick",
		Name:           "SimplyCLICK Card",
		Issuer:         "SBI Card",
		Network:        "visa",
		Category:       "shopping",
		JoiningFee:     499,
		AnnualFee:      499,
		FeeWaiver:      "Annual fee reversed on spends of ₹1,00,000",
		RewardRate:     "10X reward points on partner sites",
		WelcomeBenefit: "Amazon gift card worth ₹500",
		Features:       []string{"10X rewards on online partners", "5X rewards on other online spends", "E-vouchers on milestone spends"},
		Eligibility:    models.Eligibility{MinAge: 21, MaxAge: 70, MinIncome: 20000},
		ImageURL:       "/images/cards/sbi-simplyclick.png",
		ApplyURL:       "/credit-cards/sbi-simplyclick/apply",
		Rating:         4.2,
	},
	{
		ID:           "axis-ace",
		Name:         "ACE Credit Card",
		Issuer:       "Axis Bank",
		Network:      "visa",
		Category:     "cashback",
		JoiningFee:   499,
		AnnualFee:    499,
		FeeWaiver:    "Annual fee waived on spends of ₹2,00,000",
		RewardRate:   "5% cashback on bill payments",
		LoungeAccess: "4 domestic lounge visits a year",
		Features:     []string{"5% cashback on utility bills via Google Pay", "4% cashback on Swiggy, Zomato and Ola", "1.5% unlimited cashback on other spends"},
		Eligibility:  models.Eligibility{MinAge: 18, MaxAge: 70, MinIncome: 25000},
		ImageURL:     "/images/cards/axis-ace.png",
		ApplyURL:     "/credit-cards/axis-ace/apply",
		Rating:       4.5,
	},
	{
		ID:             "icici-amazon-pay",
		Name:           "Amazon Pay ICICI Credit Card",
		Issuer:         "ICICI Bank",
		Network:        "visa",
		Category:       "shopping",
		JoiningFee:     0,
		AnnualFee:      0,
		RewardRate:     "5% back on Amazon for Prime members",
		WelcomeBenefit: "Welcome cashback on Amazon",
		Features:       []string{"Lifetime free", "5% back on Amazon for Prime members", "2% back on Amazon Pay partner merchants", "1% back on all other spends"},
		Eligibility:    models.Eligibility{MinAge: 18, MaxAge: 60, MinIncome: 20000},
		ImageURL:       "/images/cards/icici-amazon-pay.png",
		ApplyURL:       "/credit-cards/icici-amazon-pay/apply",
		Rating:         4.6,
	},
	{
		ID:             "hdfc-regalia-gold",
		Name:           "Regalia Gold Credit Card",
		Issuer:         "HDFC Bank",
		Network:        "mastercard",
		Category:       "travel",
		JoiningFee:     2500,
		AnnualFee:      2500,
		FeeWaiver:      "Annual fee waived on spends of ₹4,00,000",
		RewardRate:     "4 reward points per ₹150",
		WelcomeBenefit: "Gift voucher worth ₹2,500",
		LoungeAccess:   "12 domestic and 6 international lounge visits",
		Features:       []string{"Complimentary Club Vistara Silver membership", "5X rewards on select brands", "Low 2% forex markup"},
		Eligibility:    models.Eligibility{MinAge: 21, MaxAge: 60, MinIncome: 100000},
		ImageURL:       "/images/cards/hdfc-regalia-gold.png",
		ApplyURL:       "/credit-cards/hdfc-regalia-gold/apply",
		Rating:         4.3,
	},
	{
		ID:             "axis-atlas",
		Name:           "Atlas Credit Card",
		Issuer:         "Axis Bank",
		Network:        "visa",
		Category:       "travel",
		JoiningFee:     5000,
		AnnualFee:      5000,
		RewardRate:     "5 EDGE Miles per ₹100 on travel",
		WelcomeBenefit: "2,500 EDGE Miles on first transaction",
		LoungeAccess:   "Up to 18 domestic and 12 international lounge visits",
		Features:       []string{"Miles transferable to airline and hotel partners", "Milestone benefits up to 10,000 miles", "Tiered membership"},
		Eligibility:    models.Eligibility{MinAge: 18, MaxAge: 70, MinIncome: 150000},
		ImageURL:       "/images/cards/axis-atlas.png",
		ApplyURL:       "/credit-cards/axis-atlas/apply",
		Rating:         4.1,
	},
	{
		ID:           "idfc-first-wealth",
		Name:         "FIRST Wealth Credit Card",
		Issuer:       "IDFC FIRST Bank",
		Network:      "visa",
		Category:     "lifetime-free",
		JoiningFee:   0,
		AnnualFee:    0,
		RewardRate:   "10X rewards on spends above ₹20,000",
		LoungeAccess: "2 domestic and 2 international lounge visits per quarter",
		Features:     []string{"Lifetime free", "Never expiring reward points", "Low 1.5% forex markup", "Golf rounds every month"},
		Eligibility:  models.Eligibility{MinAge: 21, MaxAge: 60, MinIncome: 300000},
		ImageURL:     "/images/cards/idfc-first-wealth.png",
		ApplyURL:     "/credit-cards/idfc-first-wealth/apply",
		Rating:       4.0,
	},
	{
		ID:             "bpcl-sbi-octane",
		Name:           "BPCL SBI Card OCTANE",
		Issuer:         "SBI Card",
		Network:        "rupay",
		Category:       "fuel",
		JoiningFee:     1499,
		AnnualFee:      1499,
		FeeWaiver:      "Annual fee reversed on spends of ₹2,00,000",
		RewardRate:     "7.25% value back on BPCL fuel",
		WelcomeBenefit: "6,000 bonus reward points",
		LoungeAccess:   "4 domestic lounge visits a year",
		Features:       []string{"25X reward points on BPCL fuel and lubricants", "10X reward points on dining and movies", "1% fuel surcharge waiver"},
		Eligibility:    models.Eligibility{MinAge: 21, MaxAge: 70, MinIncome: 30000},
		ImageURL:       "/images/cards/bpcl-sbi-octane.png",
		ApplyURL:       "/credit-cards/bpcl-sbi-octane/apply",
		Rating:         3.9,
	},
}

var newsItems = []models.NewsItem{
	{ID: "rbi-repo-hold", Title: "RBI keeps repo rate unchanged", Summary: "The monetary policy committee held the repo rate and retained its neutral stance, leaving home loan EMIs steady for now.", Category: "economy", ImageURL: "/images/news/rbi.jpg", Link: "/news/rbi-repo-hold", PublishedAt: "2026-10-08"},
	{ID: "health-cover-gst", Title: "GST relief on health insurance premiums", Summary: "Individual health and term life policies are now exempt from GST, lowering premiums for first-time buyers.", Category: "insurance", ImageURL: "/images/news/health-gst.jpg", Link: "/news/health-cover-gst", PublishedAt: "2026-09-22"},
	{ID: "card-forex-markup", Title: "Cards with the lowest forex markup", Summary: "A look at credit cards that charge 2% or less on international spends ahead of the holiday season.", Category: "credit-cards", ImageURL: "/images/news/forex.jpg", Link: "/news/card-forex-markup", PublishedAt: "2026-10-14"},
	{ID: "education-loan-rates", Title: "Education loan rates ease for study abroad", Summary: "Several lenders have trimmed rates on collateral-free education loans for top ranked universities.", Category: "loans", ImageURL: "/images/news/education.jpg", Link: "/news/education-loan-rates", PublishedAt: "2026-09-30"},
	{ID: "sip-inflows-record", Title: "Monthly SIP inflows hit a new high", Summary: "Systematic investment plan contributions crossed a record as retail investors stayed invested through volatility.", Category: "investing", ImageURL: "/images/news/sip.jpg", Link: "/news/sip-inflows-record", PublishedAt: "2026-10-11"},
	{ID: "motor-renewal-tips", Title: "Five checks before renewing car insurance", Summary: "No-claim bonus, add-ons and insured declared value decide what you pay. Here is what to compare.", Category: "insurance", ImageURL: "/images/news/motor.jpg", Link: "/news/motor-renewal-tips", PublishedAt: "2026-09-15"},
}

var investmentServices = []models.InvestmentService{
	{ID: "equity-advisory", Name: "Equity Advisory", Description: "Research backed stock recommendations with entry, target and stop-loss levels.", MinInvestment: 50000, RiskLevel: "high", ExpectedReturn: "12-18% p.a.", Features: []string{"Weekly model portfolio review", "Dedicated relationship manager", "SEBI registered research analysts"}},
	{ID: "pms", Name: "Portfolio Management Services", Description: "Discretionary portfolios managed by professional fund managers.", MinInvestment: 5000000, RiskLevel: "high", ExpectedReturn: "14-20% p.a.", Features: []string{"Customised portfolio", "Quarterly performance reports", "Direct ownership of stocks"}},
	{ID: "mutual-funds", Name: "Mutual Funds", Description: "Direct plans across equity, debt and hybrid funds with goal based SIPs.", MinInvestment: 500, RiskLevel: "moderate", ExpectedReturn: "8-14% p.a.", Features: []string{"Zero commission direct plans", "Goal planning tools", "Tax saving ELSS options"}},
	{ID: "ipo", Name: "IPO Investment", Description: "Apply to upcoming IPOs through UPI with allotment tracking.", MinInvestment: 15000, RiskLevel: "high", ExpectedReturn: "Market linked", Features: []string{"UPI mandate in two taps", "Grey market insights", "Allotment alerts"}},
	{ID: "demat", Name: "Demat and Trading Account", Description: "Open a demat account in minutes with low brokerage on delivery trades.", MinInvestment: 0, RiskLevel: "low", ExpectedReturn: "Not applicable", Features: []string{"Paperless onboarding", "Free delivery trades", "Advanced charting"}},
}

var testimonials = []models.Testimonial{
	{Name: "Rohit Sharma", Role: "Software engineer, Bengaluru", Quote: "Compared five health plans in one place and bought cover for my parents the same week.", Rating: 5},
	{Name: "Priya Nair", Role: "Doctor, Kochi", Quote: "The home loan team got me a better rate than my salary bank offered.", Rating: 5},
	{Name: "Amit Verma", Role: "Business owner, Jaipur", Quote: "Quick callback on my business loan query and the paperwork was minimal.", Rating: 4},
}

var serviceTiles = []models.ServiceTile{
	{ID: "credit-cards", Title: "Credit Cards", Description: "Compare rewards, fees and lounge access across top issuers.", Link: "/credit-cards"},
	{ID: "insurance", Title: "Insurance", Description: "Car, health and life cover from leading insurers.", Link: "/insurance"},
	{ID: "loans", Title: "Loans", Description: "Home, education, business and secured loans at competitive rates.", Link: "/loans"},
	{ID: "investments", Title: "Investments", Description: "Stocks, mutual funds and managed portfolios.", Link: "/investments"},
}

var partners = []models.Partner{
	{Name: "HDFC Bank", LogoURL: "/images/partners/hdfc.svg", Category: "bank"},
	{Name: "SBI Card", LogoURL: "/images/partners/sbi-card.svg", Category: "bank"},
	{Name: "Axis Bank", LogoURL: "/images/partners/axis.svg", Category: "bank"},
	{Name: "ICICI Lombard", LogoURL: "/images/partners/icici-lombard.svg", Category: "insurer"},
	{Name: "Star Health", LogoURL: "/images/partners/star-health.svg", Category: "insurer"},
	{Name: "Bajaj Finserv", LogoURL: "/images/partners/bajaj-finserv.svg", Category: "lender"},
}

// featuredCardIDs are shown on the home page, in this order.
var featuredCardIDs = []string{"icici-amazon-pay", "axis-ace", "hdfc-millennia"}
