package jobs

import "testing"

func TestIsCompletedStatus(t *testing.T) {
	for _, status := range []string{"completed", "done", "worked", "finished", " Done ", "FINISHED"} {
		if !IsCompletedStatus(status) {
			t.Fatalf("expected %q to count as completed", status)
		}
	}
	for _, status := range []string{"offered", "assigned", "", "complete?", "scheduled"} {
		if IsCompletedStatus(status) {
			t.Fatalf("expected %q to not count as completed", status)
		}
	}
}

func TestAssignmentCompletedFlags(t *testing.T) {
	if (Assignment{Status: "offered"}).Completed() {
		t.Fatal("offered assignment should not be completed")
	}
	if !(Assignment{Status: "offered", Done: true}).Completed() {
		t.Fatal("done flag should mark completion regardless of status")
	}
	if !(Assignment{IsPast: true}).Completed() {
		t.Fatal("isPast flag should mark completion")
	}
	if !(Assignment{Status: "worked"}).Completed() {
		t.Fatal("legacy worked status should mark completion")
	}
}

func TestCanonicalStatus(t *testing.T) {
	for _, legacy := range []string{"done", "worked", "finished", "Completed"} {
		if got := CanonicalStatus(legacy); got != StatusCompleted {
			t.Fatalf("CanonicalStatus(%q) = %q, want %q", legacy, got, StatusCompleted)
		}
	}
	if got := CanonicalStatus("Offered"); got != "offered" {
		t.Fatalf("expected lowercase passthrough, got %q", got)
	}
	if got := CanonicalStatus("something-new"); got != "something-new" {
		t.Fatalf("expected unknown status passthrough, got %q", got)
	}
}
