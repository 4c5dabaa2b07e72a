package search

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/sling/backend/internal/models"
)

func TestFilterRoundTrip(t *testing.T) {
	start := time.Date(2009, 6, 1, 12, 0, 0, 0, time.UTC)
	end := time.Date(2009, 6, 30, 12, 0, 0, 0, time.UTC)

	filters := []Filter{
		TypeIs{Type: models.TypePetition},
		StatusIs{Status: models.StatusEscalatedLead},
		OwnerIs{Owner: "agentA"},
		OwnerIDIs{OwnerID: 42},
		AccountNameIs{Name: "player1"},
		TargetNameIs{Name: "player2"},
		GameNameIs{Name: "Gandalf"},
		IPIs{IP: "10.0.0.1"},
		MachineIdentIs{Ident: "mach-77"},
		LanguageIs{Language: "de"},
		LanguageIs{Language: ""},
		SubjectMatches{Terms: "stuck tower"},
		ChatMatches{Terms: `"exact phrase"`},
		NoteMatches{Terms: "gold*"},
		HasNote{},
		FirstResponseMoreThan{Millis: 3600000},
		WaitingForPlayer{Waiting: true},
		CreatedBetween{Range: TimeRange{Start: start, End: end}},
		UpdatedBetween{Range: TimeRange{Start: start, End: end}},
	}

	for _, f := range filters {
		raw, err := MarshalFilter(f)
		if err != nil {
			t.Fatalf("marshal %v: %v", f.FilterTag(), err)
		}
		decoded, err := UnmarshalFilter(raw)
		if err != nil {
			t.Fatalf("unmarshal %v: %v", f.FilterTag(), err)
		}
		if !reflect.DeepEqual(f, decoded) {
			t.Errorf("%v: round trip changed value: %#v -> %#v", f.FilterTag(), f, decoded)
		}
	}
}

func TestCreatedBetweenKeepsRange(t *testing.T) {
	r := TimeRange{
		Start: time.Date(2009, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2009, 1, 2, 0, 0, 0, 0, time.UTC),
	}
	f := CreatedBetween{Range: r}
	if f.Range != r {
		t.Errorf("expected range %v, got %v", r, f.Range)
	}
}

func TestUnmarshalFilterUnknownTag(t *testing.T) {
	_, err := UnmarshalFilter([]byte(`{"filter":"NO_SUCH_FILTER"}`))
	if err == nil {
		t.Fatal("expected error for unknown filter tag")
	}
	if !strings.Contains(err.Error(), "NO_SUCH_FILTER") {
		t.Errorf("error should name the bad tag, got %q", err.Error())
	}
}

func TestUnmarshalFilterMissingPayload(t *testing.T) {
	tests := []string{
		`{"filter":"OWNER_ID_IS"}`,
		`{"filter":"FIRST_RESPONSE_IS_MORE_THAN"}`,
		`{"filter":"WAITING_FOR_PLAYER"}`,
		`{"filter":"CREATED_BETWEEN","start":"2009-01-01T00:00:00Z"}`,
	}
	for _, raw := range tests {
		if _, err := UnmarshalFilter([]byte(raw)); err == nil {
			t.Errorf("expected error for %s", raw)
		}
	}
}

func TestSearchJSONRoundTrip(t *testing.T) {
	original := Search{
		Filters: []Filter{
			TypeIs{Type: models.TypeComplaint},
			StatusIs{Status: models.StatusOpen},
			StatusIs{Status: models.StatusInProgress}, // duplicates allowed
		},
		Sort: SortByCreated,
	}

	raw, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal search: %v", err)
	}

	var decoded Search
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal search: %v", err)
	}
	if !reflect.DeepEqual(original, decoded) {
		t.Errorf("round trip changed search: %#v -> %#v", original, decoded)
	}
}

func TestSearchDefaultsSort(t *testing.T) {
	var s Search
	if err := json.Unmarshal([]byte(`{"filters":[]}`), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s.Sort != SortByCreated {
		t.Errorf("expected default sort %q, got %q", SortByCreated, s.Sort)
	}
}

func TestSearchRejectsUnknownSort(t *testing.T) {
	var s Search
	err := json.Unmarshal([]byte(`{"filters":[],"sort":"BY_MOOD"}`), &s)
	if err == nil {
		t.Fatal("expected error for unknown sort")
	}
}

func TestSearchRejectsBadFilter(t *testing.T) {
	var s Search
	err := json.Unmarshal([]byte(`{"filters":[{"filter":"TYPE_IS","value":"NOTE"},{"filter":"BOGUS"}]}`), &s)
	if err == nil {
		t.Fatal("expected error when any filter has an unknown tag")
	}
}
