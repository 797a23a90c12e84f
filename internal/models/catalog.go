package models

// CreditCard is one entry of the comparison grid. The details view shows
// the full record.
type CreditCard struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Issuer         string      `json:"issuer"`
	Network        string      `json:"network"`
	Category       string      `json:"category"`
	JoiningFee     int         `json:"joiningFee"`
	AnnualFee      int         `json:"annualFee"`
	FeeWaiver      string      `json:"feeWaiver,omitempty"`
	RewardRate     string      `json:"rewardRate"`
	WelcomeBenefit string      `json:"welcomeBenefit,omitempty"`
	LoungeAccess   string      `json:"loungeAccess,omitempty"`
	Features       []string    `json:"features"`
	Eligibility    Eligibility `json:"eligibility"`
	ImageURL       string      `json:"imageUrl"`
	ApplyURL       string      `json:"applyUrl"`
	Rating         float64     `json:"rating"`
}

type Eligibility struct {
	MinAge    int `json:"minAge"`
	MaxAge    int `json:"maxAge"`
	MinIncome int `json:"minIncome"` // monthly, INR
}

// CreditCardSummary is the grid projection of a CreditCard.
type CreditCardSummary struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Issuer     string  `json:"issuer"`
	Network    string  `json:"network"`
	Category   string  `json:"category"`
	AnnualFee  int     `json:"annualFee"`
	RewardRate string  `json:"rewardRate"`
	ImageURL   string  `json:"imageUrl"`
	Rating     float64 `json:"rating"`
}

func (c CreditCard) Summary() CreditCardSummary {
	return CreditCardSummary{
		ID:         c.ID,
		Name:       c.Name,
		Issuer:     c.Issuer,
		Network:    c.Network,
		Category:   c.Category,
		AnnualFee:  c.AnnualFee,
		RewardRate: c.RewardRate,
		ImageURL:   c.ImageURL,
		Rating:     c.Rating,
	}
}

type NewsItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Summary     string `json:"summary"`
	Category    string `json:"category"`
	ImageURL    string `json:"imageUrl"`
	Link        string `json:"link"`
	PublishedAt string `json:"publishedAt"` // YYYY-MM-DD
}

type InvestmentService struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	MinInvestment  int      `json:"minInvestment"`
	RiskLevel      string   `json:"riskLevel"`
	ExpectedReturn string   `json:"expectedReturn"`
	Features       []string `json:"features"`
}

type Testimonial struct {
	Name   string `json:"name"`
	Role   string `json:"role"`
	Quote  string `json:"quote"`
	Rating int    `json:"rating"`
}

type ServiceTile struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link"`
}

type Partner struct {
	Name     string `json:"name"`
	LogoURL  string `json:"logoUrl"`
	Category string `json:"category"`
}

// HomePage aggregates the blocks of the landing page.
type HomePage struct {
	Services      []ServiceTile       `json:"services"`
	FeaturedCards []CreditCardSummary `json:"featuredCards"`
	News          []NewsItem          `json:"news"`
	Testimonials  []Testimonial       `json:"testimonials"`
	Partners      []Partner           `json:"partners"`
}

// CardFilter narrows the credit card grid.
type CardFilter struct {
	Category     string
	Network      string
	MaxAnnualFee *int
	Sort         string // "rating", "fee", "name"
}
