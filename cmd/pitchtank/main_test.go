package main

import (
	"strings"
	"testing"

	"pitchtank/pkg/form"
)

func TestPrintStatusMarksProgress(t *testing.T) {
	rec := &form.Record{
		FullName: "Founder One", StartupName: "Looply",
		Sector: "fintech", HasPitchDeck: "no",
		ProblemStatement: "expenses hurt", Solution: "one tap",
	}
	var b strings.Builder
	printStatus(&b, rec)
	out := b.String()

	if !strings.Contains(out, "[x] 1. Founder & Startup") {
		t.Fatalf("step 1 not marked done:\n%s", out)
	}
	if !strings.Contains(out, "[x] 2. Problem & Solution") {
		t.Fatalf("step 2 not marked done:\n%s", out)
	}
	if !strings.Contains(out, "[ ] 4. Traction  (locked)") {
		t.Fatalf("step 4 should be locked:\n%s", out)
	}
	if strings.Contains(out, "3. Market  (locked)") {
		t.Fatalf("the step after the last complete one must be open:\n%s", out)
	}
}

func TestPrintStatusWarnsAboutMissingDeck(t *testing.T) {
	rec := &form.Record{FullName: "F", StartupName: "S", Sector: "x", HasPitchDeck: "yes"}
	var b strings.Builder
	printStatus(&b, rec)
	if !strings.Contains(b.String(), "pitch deck declared but not uploaded") {
		t.Fatalf("missing deck warning absent:\n%s", b.String())
	}
}

func TestRootCmdHasFunnelCommands(t *testing.T) {
	root := newRootCmd()
	want := map[string]bool{"register": false, "login": false, "logout": false, "apply": false, "status": false, "upload": false, "delete-deck": false}
	for _, c := range root.Commands() {
		name := strings.Fields(c.Use)[0]
		if _, ok := want[name]; ok {
			want[name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Fatalf("subcommand %q is missing", name)
		}
	}
}
