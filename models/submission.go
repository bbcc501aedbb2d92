package models

import "time"

// Submission is the Pitch Tank application record, one row per user.
// The wizard saves it one tab at a time, so every field tolerates being
// empty. The three list fields hold JSON-encoded arrays; legacy rows
// may contain arrays of plain strings instead of objects.
type Submission struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	UserID    uint       `gorm:"uniqueIndex;not null" json:"user_id"`

	FullName     string `gorm:"size:255" json:"full_name"`
	StartupName  string `gorm:"size:255" json:"startup_name"`
	Sector       string `gorm:"size:128" json:"sector"`
	HasPitchDeck string `gorm:"size:8" json:"has_pitch_deck"`
	PitchDeckURL string `gorm:"size:512" json:"pitch_deck_url"`

	ProblemStatement string `gorm:"type:text" json:"problem_statement"`
	Solution         string `gorm:"type:text" json:"solution"`
	UniqueValue      string `gorm:"type:text" json:"unique_value"`

	TargetMarket  string `gorm:"size:512" json:"target_market"`
	MarketSize    string `gorm:"size:255" json:"market_size"`
	BusinessModel string `gorm:"type:text" json:"business_model"`
	RevenueModel  string `gorm:"size:255" json:"revenue_model"`

	TractionSummary string `gorm:"type:text" json:"traction_summary"`
	TractionMetrics string `gorm:"type:text" json:"traction_metrics"`

	TeamMembers string `gorm:"type:text" json:"team_members"`

	FundingStage    string `gorm:"size:128" json:"funding_stage"`
	AmountSought    string `gorm:"size:128" json:"amount_sought"`
	UseOfFunds      string `gorm:"type:text" json:"use_of_funds"`
	PreviousFunding string `gorm:"size:255" json:"previous_funding"`

	References string `gorm:"column:references;type:text" json:"references"`

	PitchSummary    string `gorm:"type:text" json:"pitch_summary"`
	ConfirmAccuracy string `gorm:"size:8" json:"confirm_accuracy"`
}
