package validation

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Rule names shared by every form definition.
const (
	RuleName       = "name"
	RulePhone      = "phone"
	RuleEmail      = "email"
	RulePincode    = "pincode"
	RulePAN        = "pan"
	RuleVehicleReg = "vehicleReg"
	RuleAmount     = "amount"
	RuleYear       = "year"
	RuleDate       = "date"
	RuleAge        = "age"
)

// Rule canonicalizes a raw field value and decides whether it is well formed.
type Rule struct {
	Name      string
	Pattern   *regexp.Regexp
	Normalize func(string) string
	Check     func(string) bool
}

// Valid applies Normalize, then Pattern and Check.
func (r Rule) Valid(value string) bool {
	v := r.Apply(value)
	if r.Pattern != nil && !r.Pattern.MatchString(v) {
		return false
	}
	if r.Check != nil && !r.Check(v) {
		return false
	}
	return true
}

func (r Rule) Apply(value string) string {
	v := strings.TrimSpace(value)
	if r.Normalize != nil {
		v = r.Normalize(v)
	}
	return v
}

var (
	namePattern       = regexp.MustCompile(`^[A-Za-z][A-Za-z .'-]{1,59}$`)
	phonePattern      = regexp.MustCompile(`^[6-9]\d{9}$`)
	emailPattern      = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	pincodePattern    = regexp.MustCompile(`^[1-9]\d{5}$`)
	panPattern        = regexp.MustCompile(`^[A-Z]{5}\d{4}[A-Z]$`)
	vehicleRegPattern = regexp.MustCompile(`^[A-Z]{2}\d{1,2}[A-Z]{0,3}\d{4}$`)
	amountPattern     = regexp.MustCompile(`^[1-9]\d{0,11}$`)
	yearPattern       = regexp.MustCompile(`^(19|20)\d{2}$`)

	separators = strings.NewReplacer(" ", "", "-", "", ".", "", "(", "", ")", "")
)

var rules = map[string]Rule{
	RuleName:  {Name: RuleName, Pattern: namePattern, Normalize: collapseSpaces},
	RulePhone: {Name: RulePhone, Pattern: phonePattern, Normalize: NormalizePhone},
	RuleEmail: {Name: RuleEmail, Pattern: emailPattern, Normalize: strings.ToLower},
	RulePincode: {
		Name: RulePincode, Pattern: pincodePattern,
		Normalize: func(s string) string { return strings.ReplaceAll(s, " ", "") },
	},
	RulePAN: {Name: RulePAN, Pattern: panPattern, Normalize: strings.ToUpper},
	RuleVehicleReg: {
		Name: RuleVehicleReg, Pattern: vehicleRegPattern,
		Normalize: func(s string) string { return strings.ToUpper(separators.Replace(s)) },
	},
	RuleAmount: {
		Name: RuleAmount, Pattern: amountPattern,
		Normalize: func(s string) string {
			s = strings.TrimPrefix(s, "₹")
			return strings.ReplaceAll(strings.TrimSpace(s), ",", "")
		},
	},
	RuleYear: {
		Name: RuleYear, Pattern: yearPattern,
		Check: func(s string) bool {
			y, err := strconv.Atoi(s)
			return err == nil && y <= time.Now().Year()
		},
	},
	RuleDate: {
		Name: RuleDate,
		Check: func(s string) bool {
			_, err := time.Parse("2006-01-02", s)
			return err == nil
		},
	},
	RuleAge: {
		Name: RuleAge,
		Check: func(s string) bool {
			n, err := strconv.Atoi(s)
			return err == nil && n >= 18 && n <= 99
		},
	},
}

// Lookup returns the named rule.
func Lookup(name string) (Rule, bool) {
	r, ok := rules[name]
	return r, ok
}

// RuleNames lists every registered rule.
func RuleNames() []string {
	names := make([]string, 0, len(rules))
	for name := range rules {
		names = append(names, name)
	}
	return names
}

// NormalizePhone strips separators and a leading +91, 91 or 0 so that only
// the ten digit subscriber number remains.
func NormalizePhone(phone string) string {
	p := separators.Replace(strings.TrimSpace(phone))
	switch {
	case strings.HasPrefix(p, "+91") && len(p) == 13:
		p = p[3:]
	case strings.HasPrefix(p, "91") && len(p) == 12:
		p = p[2:]
	case strings.HasPrefix(p, "0") && len(p) == 11:
		p = p[1:]
	}
	return p
}

func ValidateEmail(email string) bool {
	return rules[RuleEmail].Valid(email)
}

func ValidatePhone(phone string) bool {
	return rules[RulePhone].Valid(phone)
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// RequiredMessage is the "field missing" message.
func RequiredMessage(label string) string {
	return label + " is required"
}

// InvalidMessage is the "field malformed" message. Only the leading word is
// lowercased, and an acronym such as PAN or GSTIN keeps its case.
func InvalidMessage(label string) string {
	first, rest, found := strings.Cut(label, " ")
	if first != strings.ToUpper(first) {
		first = strings.ToLower(first)
	}
	if found {
		first += " " + rest
	}
	return "Please enter a valid " + first
}
