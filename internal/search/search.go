package search

import (
	"encoding/json"
	"fmt"
)

// Sort orders search results. Only creation time is defined today; the enum
// exists so adding another order is a wire-compatible change.
type Sort string

const (
	SortByCreated Sort = "CREATED"
)

// Search is an ordered list of filters plus a sort. Filters are conjoined;
// duplicate tags are allowed and simply AND together.
type Search struct {
	Filters []Filter
	Sort    Sort
}

type searchEnvelope struct {
	Filters []json.RawMessage `json:"filters"`
	Sort    Sort              `json:"sort,omitempty"`
}

func (s Search) MarshalJSON() ([]byte, error) {
	env := searchEnvelope{Sort: s.Sort}
	for _, f := range s.Filters {
		raw, err := MarshalFilter(f)
		if err != nil {
			return nil, err
		}
		env.Filters = append(env.Filters, raw)
	}
	return json.Marshal(env)
}

func (s *Search) UnmarshalJSON(data []byte) error {
	var env searchEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	filters := make([]Filter, 0, len(env.Filters))
	for i, raw := range env.Filters {
		f, err := UnmarshalFilter(raw)
		if err != nil {
			return fmt.Errorf("filter %d: %w", i, err)
		}
		filters = append(filters, f)
	}
	sort := env.Sort
	if sort == "" {
		sort = SortByCreated
	}
	if sort != SortByCreated {
		return fmt.Errorf("search: unknown sort %q", sort)
	}
	s.Filters = filters
	s.Sort = sort
	return nil
}
