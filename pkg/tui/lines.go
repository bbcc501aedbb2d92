package tui

import (
	"strings"

	"pitchtank/pkg/form"
)

// The three list fields are edited as plain text, one entry per line,
// with parts separated by a pipe. Incomplete entries are kept while
// editing; the transform layer drops them from the wire payload.
//
//	metrics:    Metric | Value
//	team:       Name | Role | Background | LinkedIn
//	references: Name | Relationship | Email | Phone | LinkedIn

func splitEntry(line string) []string {
	parts := strings.Split(line, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func part(parts []string, i int) string {
	if i < len(parts) {
		return parts[i]
	}
	return ""
}

func joinEntry(parts ...string) string {
	// Trailing empty parts are noise when the line is rendered back.
	end := len(parts)
	for end > 0 && parts[end-1] == "" {
		end--
	}
	return strings.Join(parts[:end], " | ")
}

func parseMetricLines(text string) []form.Metric {
	var out []form.Metric
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		p := splitEntry(line)
		out = append(out, form.Metric{Metric: part(p, 0), Value: part(p, 1)})
	}
	return out
}

func formatMetricLines(in []form.Metric) string {
	lines := make([]string, 0, len(in))
	for _, m := range in {
		lines = append(lines, joinEntry(m.Metric, m.Value))
	}
	return strings.Join(lines, "\n")
}

func parseMemberLines(text string) []form.Member {
	var out []form.Member
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		p := splitEntry(line)
		out = append(out, form.Member{
			Name:       part(p, 0),
			Role:       part(p, 1),
			Background: part(p, 2),
			LinkedIn:   part(p, 3),
		})
	}
	return out
}

func formatMemberLines(in []form.Member) string {
	lines := make([]string, 0, len(in))
	for _, m := range in {
		lines = append(lines, joinEntry(m.Name, m.Role, m.Background, m.LinkedIn))
	}
	return strings.Join(lines, "\n")
}

func parseReferenceLines(text string) []form.Reference {
	var out []form.Reference
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		p := splitEntry(line)
		out = append(out, form.Reference{
			Name:         part(p, 0),
			Relationship: part(p, 1),
			Email:        part(p, 2),
			Phone:        part(p, 3),
			LinkedIn:     part(p, 4),
		})
	}
	return out
}

func formatReferenceLines(in []form.Reference) string {
	lines := make([]string, 0, len(in))
	for _, r := range in {
		lines = append(lines, joinEntry(r.Name, r.Relationship, r.Email, r.Phone, r.LinkedIn))
	}
	return strings.Join(lines, "\n")
}

// fieldText renders a record field as editable text.
func fieldText(r *form.Record, f form.Field) string {
	switch f {
	case form.FieldFullName:
		return r.FullName
	case form.FieldStartupName:
		return r.StartupName
	case form.FieldSector:
		return r.Sector
	case form.FieldHasPitchDeck:
		return r.HasPitchDeck
	case form.FieldPitchDeckURL:
		return r.PitchDeckURL
	case form.FieldProblemStatement:
		return r.ProblemStatement
	case form.FieldSolution:
		return r.Solution
	case form.FieldUniqueValue:
		return r.UniqueValue
	case form.FieldTargetMarket:
		return r.TargetMarket
	case form.FieldMarketSize:
		return r.MarketSize
	case form.FieldBusinessModel:
		return r.BusinessModel
	case form.FieldRevenueModel:
		return r.RevenueModel
	case form.FieldTractionSummary:
		return r.TractionSummary
	case form.FieldTractionMetrics:
		return formatMetricLines(r.Metrics)
	case form.FieldTeamMembers:
		return formatMemberLines(r.Team)
	case form.FieldFundingStage:
		return r.FundingStage
	case form.FieldAmountSought:
		return r.AmountSought
	case form.FieldUseOfFunds:
		return r.UseOfFunds
	case form.FieldPreviousFunding:
		return r.PreviousFunding
	case form.FieldReferences:
		return formatReferenceLines(r.References)
	case form.FieldPitchSummary:
		return r.PitchSummary
	case form.FieldConfirmAccuracy:
		return r.ConfirmAccuracy
	}
	return ""
}

// applyFieldText writes edited text back into the record.
func applyFieldText(r *form.Record, f form.Field, text string) {
	v := strings.TrimSpace(text)
	switch f {
	case form.FieldFullName:
		r.FullName = v
	case form.FieldStartupName:
		r.StartupName = v
	case form.FieldSector:
		r.Sector = v
	case form.FieldHasPitchDeck:
		r.HasPitchDeck = strings.ToLower(v)
	case form.FieldPitchDeckURL:
		r.PitchDeckURL = v
	case form.FieldProblemStatement:
		r.ProblemStatement = v
	case form.FieldSolution:
		r.Solution = v
	case form.FieldUniqueValue:
		r.UniqueValue = v
	case form.FieldTargetMarket:
		r.TargetMarket = v
	case form.FieldMarketSize:
		r.MarketSize = v
	case form.FieldBusinessModel:
		r.BusinessModel = v
	case form.FieldRevenueModel:
		r.RevenueModel = v
	case form.FieldTractionSummary:
		r.TractionSummary = v
	case form.FieldTractionMetrics:
		r.Metrics = parseMetricLines(text)
	case form.FieldTeamMembers:
		r.Team = parseMemberLines(text)
	case form.FieldFundingStage:
		r.FundingStage = v
	case form.FieldAmountSought:
		r.AmountSought = v
	case form.FieldUseOfFunds:
		r.UseOfFunds = v
	case form.FieldPreviousFunding:
		r.PreviousFunding = v
	case form.FieldReferences:
		r.References = parseReferenceLines(text)
	case form.FieldPitchSummary:
		r.PitchSummary = v
	case form.FieldConfirmAccuracy:
		r.ConfirmAccuracy = strings.ToLower(v)
	}
}

func isListField(f form.Field) bool {
	switch f {
	case form.FieldTractionMetrics, form.FieldTeamMembers, form.FieldReferences:
		return true
	}
	return false
}
