package form

// Tab identifies one of the eight wizard steps.
type Tab int

const (
	TabBasics Tab = iota + 1
	TabProblem
	TabMarket
	TabTraction
	TabTeam
	TabFunding
	TabReferences
	TabReview
)

// TabCount is the number of wizard steps.
const TabCount = 8

func (t Tab) Valid() bool { return t >= TabBasics && t <= TabReview }

func (t Tab) Title() string {
	switch t {
	case TabBasics:
		return "Founder & Startup"
	case TabProblem:
		return "Problem & Solution"
	case TabMarket:
		return "Market"
	case TabTraction:
		return "Traction"
	case TabTeam:
		return "Team"
	case TabFunding:
		return "Funding"
	case TabReferences:
		return "References"
	case TabReview:
		return "Review & Submit"
	}
	return "?"
}

// Field identifies a single submission field. Keeping this a closed enum
// (rather than dispatching on wire-key strings) means a new field cannot
// be added without the compiler pointing at every switch that must learn
// about it.
type Field int

const (
	FieldFullName Field = iota
	FieldStartupName
	FieldSector
	FieldHasPitchDeck
	FieldPitchDeckURL
	FieldProblemStatement
	FieldSolution
	FieldUniqueValue
	FieldTargetMarket
	FieldMarketSize
	FieldBusinessModel
	FieldRevenueModel
	FieldTractionSummary
	FieldTractionMetrics
	FieldTeamMembers
	FieldFundingStage
	FieldAmountSought
	FieldUseOfFunds
	FieldPreviousFunding
	FieldReferences
	FieldPitchSummary
	FieldConfirmAccuracy
)

// WireKey returns the snake_case key used by the API for this field.
func (f Field) WireKey() string {
	switch f {
	case FieldFullName:
		return "full_name"
	case FieldStartupName:
		return "startup_name"
	case FieldSector:
		return "sector"
	case FieldHasPitchDeck:
		return "has_pitch_deck"
	case FieldPitchDeckURL:
		return "pitch_deck_url"
	case FieldProblemStatement:
		return "problem_statement"
	case FieldSolution:
		return "solution"
	case FieldUniqueValue:
		return "unique_value"
	case FieldTargetMarket:
		return "target_market"
	case FieldMarketSize:
		return "market_size"
	case FieldBusinessModel:
		return "business_model"
	case FieldRevenueModel:
		return "revenue_model"
	case FieldTractionSummary:
		return "traction_summary"
	case FieldTractionMetrics:
		return "traction_metrics"
	case FieldTeamMembers:
		return "team_members"
	case FieldFundingStage:
		return "funding_stage"
	case FieldAmountSought:
		return "amount_sought"
	case FieldUseOfFunds:
		return "use_of_funds"
	case FieldPreviousFunding:
		return "previous_funding"
	case FieldReferences:
		return "references"
	case FieldPitchSummary:
		return "pitch_summary"
	case FieldConfirmAccuracy:
		return "confirm_accuracy"
	}
	return ""
}

// Label returns the human-facing name shown next to inputs and in
// validation messages.
func (f Field) Label() string {
	switch f {
	case FieldFullName:
		return "Full name"
	case FieldStartupName:
		return "Startup name"
	case FieldSector:
		return "Sector"
	case FieldHasPitchDeck:
		return "Do you have a pitch deck? (yes/no)"
	case FieldPitchDeckURL:
		return "Pitch deck URL"
	case FieldProblemStatement:
		return "Problem statement"
	case FieldSolution:
		return "Solution"
	case FieldUniqueValue:
		return "Unique value"
	case FieldTargetMarket:
		return "Target market"
	case FieldMarketSize:
		return "Market size"
	case FieldBusinessModel:
		return "Business model"
	case FieldRevenueModel:
		return "Revenue model"
	case FieldTractionSummary:
		return "Traction summary"
	case FieldTractionMetrics:
		return "Key metrics"
	case FieldTeamMembers:
		return "Team members"
	case FieldFundingStage:
		return "Funding stage"
	case FieldAmountSought:
		return "Amount sought"
	case FieldUseOfFunds:
		return "Use of funds"
	case FieldPreviousFunding:
		return "Previous funding"
	case FieldReferences:
		return "References"
	case FieldPitchSummary:
		return "Pitch summary"
	case FieldConfirmAccuracy:
		return "Confirm accuracy (yes)"
	}
	return ""
}

// Empty reports whether the field holds no value on the given record.
// Empty strings and zero-length lists both count as empty.
func (f Field) Empty(r *Record) bool {
	if r == nil {
		return true
	}
	switch f {
	case FieldFullName:
		return r.FullName == ""
	case FieldStartupName:
		return r.StartupName == ""
	case FieldSector:
		return r.Sector == ""
	case FieldHasPitchDeck:
		return r.HasPitchDeck == ""
	case FieldPitchDeckURL:
		return r.PitchDeckURL == ""
	case FieldProblemStatement:
		return r.ProblemStatement == ""
	case FieldSolution:
		return r.Solution == ""
	case FieldUniqueValue:
		return r.UniqueValue == ""
	case FieldTargetMarket:
		return r.TargetMarket == ""
	case FieldMarketSize:
		return r.MarketSize == ""
	case FieldBusinessModel:
		return r.BusinessModel == ""
	case FieldRevenueModel:
		return r.RevenueModel == ""
	case FieldTractionSummary:
		return r.TractionSummary == ""
	case FieldTractionMetrics:
		return len(r.Metrics) == 0
	case FieldTeamMembers:
		return len(r.Team) == 0
	case FieldFundingStage:
		return r.FundingStage == ""
	case FieldAmountSought:
		return r.AmountSought == ""
	case FieldUseOfFunds:
		return r.UseOfFunds == ""
	case FieldPreviousFunding:
		return r.PreviousFunding == ""
	case FieldReferences:
		return len(r.References) == 0
	case FieldPitchSummary:
		return r.PitchSummary == ""
	case FieldConfirmAccuracy:
		return r.ConfirmAccuracy == ""
	}
	return true
}

// tabFields lists every field belonging to each tab; it is the scope of
// the partial payload a "Next" on that tab sends.
var tabFields = map[Tab][]Field{
	TabBasics:     {FieldFullName, FieldStartupName, FieldSector, FieldHasPitchDeck, FieldPitchDeckURL},
	TabProblem:    {FieldProblemStatement, FieldSolution, FieldUniqueValue},
	TabMarket:     {FieldTargetMarket, FieldMarketSize, FieldBusinessModel, FieldRevenueModel},
	TabTraction:   {FieldTractionSummary, FieldTractionMetrics},
	TabTeam:       {FieldTeamMembers},
	TabFunding:    {FieldFundingStage, FieldAmountSought, FieldUseOfFunds, FieldPreviousFunding},
	TabReferences: {FieldReferences},
	TabReview:     {FieldPitchSummary, FieldConfirmAccuracy},
}

// requiredFields is the field alias map: the fields that must be filled
// before a tab may be advanced past. It is also what the initial-ceiling
// computation looks at, where any single filled field counts.
var requiredFields = map[Tab][]Field{
	TabBasics:     {FieldFullName, FieldStartupName, FieldSector, FieldHasPitchDeck},
	TabProblem:    {FieldProblemStatement, FieldSolution},
	TabMarket:     {FieldTargetMarket, FieldBusinessModel},
	TabTraction:   {FieldTractionSummary},
	TabTeam:       {FieldTeamMembers},
	TabFunding:    {FieldFundingStage, FieldAmountSought},
	TabReferences: {FieldReferences},
	TabReview:     {FieldConfirmAccuracy},
}

// TabFields returns all fields on the given tab.
func TabFields(t Tab) []Field { return tabFields[t] }

// Required returns the fields that must be non-empty to leave the tab.
func Required(t Tab) []Field { return requiredFields[t] }

// WireKeys returns every wire field name, in tab order. The server uses
// it to whitelist keys on map-based partial updates.
func WireKeys() []string {
	keys := make([]string, 0, len(tabFields)*4)
	for t := TabBasics; t <= TabReview; t++ {
		for _, f := range tabFields[t] {
			keys = append(keys, f.WireKey())
		}
	}
	return keys
}
