package form

import (
	"encoding/json"
	"reflect"
	"testing"
)

func sampleWire() map[string]any {
	metrics, _ := json.Marshal([]Metric{{Metric: "MRR", Value: "12000"}})
	team, _ := json.Marshal([]Member{{Name: "Ada", Role: "CTO", Background: "ex-Acme", LinkedIn: "in/ada"}})
	refs, _ := json.Marshal([]Reference{{Name: "Jane", Relationship: "mentor", Email: "jane@example.com"}})
	return map[string]any{
		"full_name":         "Sam Founder",
		"startup_name":      "Looply",
		"sector":            "fintech",
		"has_pitch_deck":    "no",
		"pitch_deck_url":    "",
		"problem_statement": "Expense reports are painful",
		"solution":          "One-tap receipts",
		"unique_value":      "Works offline",
		"target_market":     "SMBs",
		"market_size":       "2B",
		"business_model":    "SaaS",
		"revenue_model":     "subscription",
		"traction_summary":  "Growing 20% MoM",
		"traction_metrics":  string(metrics),
		"team_members":      string(team),
		"funding_stage":     "seed",
		"amount_sought":     "500k",
		"use_of_funds":      "hiring",
		"previous_funding":  "none",
		"references":        string(refs),
		"pitch_summary":     "Looply automates expenses",
		"confirm_accuracy":  "yes",
	}
}

// Converting wire -> form -> wire must reproduce each group's subset of
// the original record.
func TestRoundTripPerTab(t *testing.T) {
	wire := sampleWire()
	rec := ToFormShape(wire)
	for tab := TabBasics; tab <= TabReview; tab++ {
		got := ToWireShape(rec, tab)
		for k, v := range got {
			if wire[k] != v {
				t.Fatalf("tab %d key %s: got %v want %v", tab, k, v, wire[k])
			}
		}
		for _, f := range TabFields(tab) {
			if _, ok := got[f.WireKey()]; !ok {
				t.Fatalf("tab %d payload missing %s", tab, f.WireKey())
			}
		}
		if len(got) != len(TabFields(tab)) {
			t.Fatalf("tab %d payload leaked fields: %v", tab, got)
		}
	}
}

func TestToFormShapeTotality(t *testing.T) {
	for _, wire := range []map[string]any{
		nil,
		{},
		{"full_name": nil, "traction_metrics": 42, "team_members": "not json", "references": "{"},
	} {
		r := ToFormShape(wire)
		if r == nil {
			t.Fatal("ToFormShape returned nil")
		}
		if r.FullName != "" || len(r.Metrics) != 0 || len(r.Team) != 0 || len(r.References) != 0 {
			t.Fatalf("malformed input leaked values: %+v", r)
		}
	}
}

func TestHasPitchDeckBackfill(t *testing.T) {
	r := ToFormShape(map[string]any{"pitch_deck_url": "/files/decks/x.pdf"})
	if r.HasPitchDeck != "yes" {
		t.Fatalf("expected backfilled yes, got %q", r.HasPitchDeck)
	}
	// An explicit answer is never overridden.
	r2 := ToFormShape(map[string]any{"pitch_deck_url": "/files/decks/x.pdf", "has_pitch_deck": "no"})
	if r2.HasPitchDeck != "no" {
		t.Fatalf("explicit flag overridden: %q", r2.HasPitchDeck)
	}
}

func TestLegacyStringEntries(t *testing.T) {
	wire := map[string]any{
		"traction_metrics": `["MRR 12000", "churn", ""]`,
		"references":       `["Jane Doe, former manager", "Bob"]`,
		"team_members":     `["Ada Lovelace - CTO"]`,
	}
	r := ToFormShape(wire)
	if len(r.Metrics) != 2 {
		t.Fatalf("expected 2 metrics, got %+v", r.Metrics)
	}
	if r.Metrics[0] != (Metric{Metric: "MRR", Value: "12000"}) {
		t.Fatalf("unexpected metric: %+v", r.Metrics[0])
	}
	want := []Reference{
		{Name: "Jane Doe", Relationship: "former manager"},
		{Name: "Bob"},
	}
	if !reflect.DeepEqual(r.References, want) {
		t.Fatalf("unexpected references: %+v", r.References)
	}
	if len(r.Team) != 1 || r.Team[0].Name != "Ada Lovelace" {
		t.Fatalf("unexpected team: %+v", r.Team)
	}
}

func TestToWireShapeDropsIncompleteEntries(t *testing.T) {
	rec := &Record{
		Team: []Member{
			{Name: "Ada", Role: "CTO", Background: "ex-Acme"},
			{Name: "NoRole"},
		},
		Metrics:    []Metric{{Metric: "MRR"}, {Metric: "users", Value: "400"}},
		References: []Reference{{Name: "Jane"}, {Name: "Bob", Relationship: "advisor"}},
	}
	var team []Member
	if err := json.Unmarshal([]byte(ToWireShape(rec, TabTeam)["team_members"].(string)), &team); err != nil {
		t.Fatal(err)
	}
	if len(team) != 1 || team[0].Name != "Ada" {
		t.Fatalf("incomplete member not dropped: %+v", team)
	}
	var metrics []Metric
	_ = json.Unmarshal([]byte(ToWireShape(rec, TabTraction)["traction_metrics"].(string)), &metrics)
	if len(metrics) != 1 || metrics[0].Value != "400" {
		t.Fatalf("incomplete metric not dropped: %+v", metrics)
	}
	var refs []Reference
	_ = json.Unmarshal([]byte(ToWireShape(rec, TabReferences)["references"].(string)), &refs)
	if len(refs) != 1 || refs[0].Name != "Bob" {
		t.Fatalf("incomplete reference not dropped: %+v", refs)
	}
}

func TestWireKeysCoverEveryField(t *testing.T) {
	keys := WireKeys()
	seen := map[string]bool{}
	for _, k := range keys {
		if k == "" {
			t.Fatal("empty wire key")
		}
		if seen[k] {
			t.Fatalf("duplicate wire key %s", k)
		}
		seen[k] = true
	}
	if len(keys) != 22 {
		t.Fatalf("expected 22 wire keys, got %d", len(keys))
	}
}
