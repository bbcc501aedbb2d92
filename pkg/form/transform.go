package form

import (
	"encoding/json"
	"strings"
)

// ToFormShape maps a wire submission (as decoded JSON) into the shape
// the wizard edits. It is total: missing, null and malformed values map
// to zero values, never to an error.
func ToFormShape(wire map[string]any) *Record {
	r := &Record{
		FullName:         str(wire, "full_name"),
		StartupName:      str(wire, "startup_name"),
		Sector:           str(wire, "sector"),
		HasPitchDeck:     str(wire, "has_pitch_deck"),
		PitchDeckURL:     str(wire, "pitch_deck_url"),
		ProblemStatement: str(wire, "problem_statement"),
		Solution:         str(wire, "solution"),
		UniqueValue:      str(wire, "unique_value"),
		TargetMarket:     str(wire, "target_market"),
		MarketSize:       str(wire, "market_size"),
		BusinessModel:    str(wire, "business_model"),
		RevenueModel:     str(wire, "revenue_model"),
		TractionSummary:  str(wire, "traction_summary"),
		FundingStage:     str(wire, "funding_stage"),
		AmountSought:     str(wire, "amount_sought"),
		UseOfFunds:       str(wire, "use_of_funds"),
		PreviousFunding:  str(wire, "previous_funding"),
		PitchSummary:     str(wire, "pitch_summary"),
		ConfirmAccuracy:  str(wire, "confirm_accuracy"),
	}
	if wire != nil {
		r.Metrics = parseMetricList(wire["traction_metrics"])
		r.Team = parseMemberList(wire["team_members"])
		r.References = parseReferenceList(wire["references"])
	}
	// A returning user with an uploaded deck should not have to answer
	// the yes/no question again.
	if r.HasPitchDeck == "" && r.PitchDeckURL != "" {
		r.HasPitchDeck = "yes"
	}
	return r
}

// ToWireShape emits the wire payload for exactly one tab. Structured
// lists are re-serialized to JSON text with incomplete entries dropped.
func ToWireShape(r *Record, tab Tab) map[string]any {
	if r == nil {
		r = &Record{}
	}
	out := map[string]any{}
	switch tab {
	case TabBasics:
		out["full_name"] = r.FullName
		out["startup_name"] = r.StartupName
		out["sector"] = r.Sector
		out["has_pitch_deck"] = r.HasPitchDeck
		out["pitch_deck_url"] = r.PitchDeckURL
	case TabProblem:
		out["problem_statement"] = r.ProblemStatement
		out["solution"] = r.Solution
		out["unique_value"] = r.UniqueValue
	case TabMarket:
		out["target_market"] = r.TargetMarket
		out["market_size"] = r.MarketSize
		out["business_model"] = r.BusinessModel
		out["revenue_model"] = r.RevenueModel
	case TabTraction:
		out["traction_summary"] = r.TractionSummary
		out["traction_metrics"] = marshalMetrics(r.Metrics)
	case TabTeam:
		out["team_members"] = marshalMembers(r.Team)
	case TabFunding:
		out["funding_stage"] = r.FundingStage
		out["amount_sought"] = r.AmountSought
		out["use_of_funds"] = r.UseOfFunds
		out["previous_funding"] = r.PreviousFunding
	case TabReferences:
		out["references"] = marshalReferences(r.References)
	case TabReview:
		out["pitch_summary"] = r.PitchSummary
		out["confirm_accuracy"] = r.ConfirmAccuracy
	}
	return out
}

// FullWireShape merges every tab's payload, for the final submit.
func FullWireShape(r *Record) map[string]any {
	out := map[string]any{}
	for t := TabBasics; t <= TabReview; t++ {
		for k, v := range ToWireShape(r, t) {
			out[k] = v
		}
	}
	return out
}

func str(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	if s, ok := m[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// decodeList normalizes a wire list value. The canonical encoding is a
// JSON array serialized into a string column, but inlined arrays are
// accepted too. Anything else yields nil.
func decodeList(v any) []any {
	switch val := v.(type) {
	case string:
		val = strings.TrimSpace(val)
		if val == "" {
			return nil
		}
		var arr []any
		if err := json.Unmarshal([]byte(val), &arr); err != nil {
			return nil
		}
		return arr
	case []any:
		return val
	}
	return nil
}

func objStr(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func parseMetricList(v any) []Metric {
	var out []Metric
	for _, item := range decodeList(v) {
		switch e := item.(type) {
		case map[string]any:
			m := Metric{
				Metric: objStr(e, "metric", "name", "label"),
				Value:  objStr(e, "value"),
			}
			if m.Metric != "" || m.Value != "" {
				out = append(out, m)
			}
		case string:
			if m, ok := parseMetricEntry(e); ok {
				out = append(out, m)
			}
		}
	}
	return out
}

func parseMemberList(v any) []Member {
	var out []Member
	for _, item := range decodeList(v) {
		switch e := item.(type) {
		case map[string]any:
			m := Member{
				Name:       objStr(e, "name"),
				Role:       objStr(e, "role"),
				Background: objStr(e, "background"),
				LinkedIn:   objStr(e, "linkedin"),
			}
			if m.Name != "" || m.Role != "" || m.Background != "" {
				out = append(out, m)
			}
		case string:
			if m, ok := parseMemberEntry(e); ok {
				out = append(out, m)
			}
		}
	}
	return out
}

func parseReferenceList(v any) []Reference {
	var out []Reference
	for _, item := range decodeList(v) {
		switch e := item.(type) {
		case map[string]any:
			r := Reference{
				Name:         objStr(e, "name"),
				Relationship: objStr(e, "relationship"),
				Email:        objStr(e, "email"),
				Phone:        objStr(e, "phone"),
				LinkedIn:     objStr(e, "linkedin"),
			}
			if r.Name != "" || r.Relationship != "" {
				out = append(out, r)
			}
		case string:
			if r, ok := parseReferenceEntry(e); ok {
				out = append(out, r)
			}
		}
	}
	return out
}

func marshalMetrics(in []Metric) string {
	kept := make([]Metric, 0, len(in))
	for _, m := range in {
		if m.complete() {
			kept = append(kept, m)
		}
	}
	return marshalList(len(kept), kept)
}

func marshalMembers(in []Member) string {
	kept := make([]Member, 0, len(in))
	for _, m := range in {
		if m.complete() {
			kept = append(kept, m)
		}
	}
	return marshalList(len(kept), kept)
}

func marshalReferences(in []Reference) string {
	kept := make([]Reference, 0, len(in))
	for _, r := range in {
		if r.complete() {
			kept = append(kept, r)
		}
	}
	return marshalList(len(kept), kept)
}

func marshalList(n int, v any) string {
	if n == 0 {
		return "[]"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(b)
}
