// Package form converts between the API's flat snake_case submission
// representation and the shape the wizard edits, and owns the static
// field table that drives per-tab validation and gating.
package form

// Metric is one traction data point.
type Metric struct {
	Metric string `json:"metric"`
	Value  string `json:"value"`
}

// Member is one team member entry.
type Member struct {
	Name       string `json:"name"`
	Role       string `json:"role"`
	Background string `json:"background"`
	LinkedIn   string `json:"linkedin"`
}

// Reference is one reference contact. Email, phone and LinkedIn are
// optional on the wire.
type Reference struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	LinkedIn     string `json:"linkedin,omitempty"`
}

// Record is the submission in the shape the wizard edits: flat strings
// plus structured lists for the three legacy JSON-encoded fields.
type Record struct {
	FullName     string
	StartupName  string
	Sector       string
	HasPitchDeck string // "yes", "no" or unset
	PitchDeckURL string

	ProblemStatement string
	Solution         string
	UniqueValue      string

	TargetMarket  string
	MarketSize    string
	BusinessModel string
	RevenueModel  string

	TractionSummary string
	Metrics         []Metric

	Team []Member

	FundingStage    string
	AmountSought    string
	UseOfFunds      string
	PreviousFunding string

	References []Reference

	PitchSummary    string
	ConfirmAccuracy string
}

func (m Metric) complete() bool    { return m.Metric != "" && m.Value != "" }
func (m Member) complete() bool    { return m.Name != "" && m.Role != "" && m.Background != "" }
func (r Reference) complete() bool { return r.Name != "" && r.Relationship != "" }
