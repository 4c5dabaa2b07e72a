package models

import "testing"

func TestStatusPartition(t *testing.T) {
	open := []EventStatus{StatusOpen, StatusInProgress, StatusEscalatedLead, StatusEscalatedAdmin}
	closed := []EventStatus{StatusPlayerClosed, StatusResolvedClosed, StatusIgnoredClosed}

	for _, s := range open {
		if !s.IsOpen() {
			t.Errorf("%s should be open", s)
		}
	}
	for _, s := range closed {
		if s.IsOpen() {
			t.Errorf("%s should be closed", s)
		}
	}
	if len(open)+len(closed) != len(OpenStatuses)+len(closed) {
		t.Errorf("OpenStatuses has %d entries, want %d", len(OpenStatuses), len(open))
	}
}

func TestStatusValid(t *testing.T) {
	if !StatusResolvedClosed.Valid() {
		t.Error("RESOLVED_CLOSED should be valid")
	}
	if EventStatus("LIMBO").Valid() {
		t.Error("unknown status should be invalid")
	}
}

func TestToHandleHidesAccountAndDeletedNames(t *testing.T) {
	a := AccountName{
		AccountName:      "player1",
		GameNames:        []string{"Gandalf", "Frodo"},
		DeletedGameNames: []string{"OldName"},
	}
	h := a.ToHandle()
	if len(h.GameNames) != 2 {
		t.Fatalf("handle has %d names, want 2", len(h.GameNames))
	}
	for _, n := range h.GameNames {
		if n == "OldName" {
			t.Error("deleted game names must not leak into handles")
		}
	}
}
