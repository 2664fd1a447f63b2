package transcript

import (
	"testing"

	"github.com/Dysaca22/round-table/internal/model/debate"
)

func TestLogOrdering(t *testing.T) {
	log := NewLog()
	log.Append("mod", "first")
	log.Append("alice", "second")
	log.Append("bob", "third")

	if got := log.Len(); got != 3 {
		t.Fatalf("Len() = %d, want 3", got)
	}

	newest := log.Messages()
	if newest[0].Text != "third" || newest[2].Text != "first" {
		t.Fatalf("Messages() not newest-first: %+v", newest)
	}

	ordered := log.Chronological()
	if ordered[0].Text != "first" || ordered[2].Text != "third" {
		t.Fatalf("Chronological() not oldest-first: %+v", ordered)
	}
}

func TestAppendAssignsUniqueIDs(t *testing.T) {
	log := NewLog()
	a := log.Append("mod", "one")
	b := log.Append("mod", "two")

	if a.ID == "" || b.ID == "" {
		t.Fatalf("messages missing ids: %q %q", a.ID, b.ID)
	}
	if a.ID == b.ID {
		t.Fatalf("duplicate message id %q", a.ID)
	}
}

func TestMessagesReturnsCopy(t *testing.T) {
	log := NewLog()
	log.Append("mod", "original")

	msgs := log.Messages()
	msgs[0].Text = "mutated"

	if got := log.Messages()[0].Text; got != "original" {
		t.Fatalf("internal state mutated through returned slice: %q", got)
	}
}

func TestExportFormat(t *testing.T) {
	roster := []debate.Participant{
		{ID: "mod", Name: "Moderator", Role: debate.RoleModerator},
		{ID: "alice", Name: "Alice", Role: debate.RoleMember},
	}

	log := NewLog()
	log.Append("mod", "Welcome everyone.")
	log.Append("alice", "Thank you.")
	log.Append("ghost", "Who am I?")

	want := "Debate Topic: Test Topic\n\n====================\n\n" +
		"Moderator:\nWelcome everyone.\n" +
		"\n---\n\n" +
		"Alice:\nThank you.\n" +
		"\n---\n\n" +
		"Unknown:\nWho am I?\n"

	if got := log.Export("Test Topic", roster); got != want {
		t.Fatalf("Export() mismatch:\n got: %q\nwant: %q", got, want)
	}
}
