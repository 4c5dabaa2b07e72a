package search

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/sling/backend/internal/models"
)

// ErrUnresolvedOwnerID means an OWNER_ID_IS filter reached the translator.
// Numeric agent ids must be resolved to account names by the caller first;
// seeing one here is a caller bug, not user input to recover from.
var ErrUnresolvedOwnerID = errors.New("search: OWNER_ID_IS must be resolved to an owner name before translation")

// Clause is one boolean predicate over the events table (or the joined
// messages table), in SQL with positional placeholders.
type Clause struct {
	Expr string
	Args []interface{}
}

// Query is the translated form of a Search: a conjunction of clauses, a flag
// for the messages join, and the sort. When the join is present, both count
// and page queries deduplicate by event id, since one event can match through
// several messages.
type Query struct {
	clauses  []Clause
	joinMsgs bool
	sort     Sort
}

// Translate maps every filter in the search to one predicate and records
// whether the messages table has to be joined. Filters are conjoined; there
// is no top-level OR.
func Translate(s Search) (*Query, error) {
	q := &Query{sort: s.Sort}
	if q.sort == "" {
		q.sort = SortByCreated
	}
	for _, f := range s.Filters {
		if err := q.add(f); err != nil {
			return nil, err
		}
	}
	return q, nil
}

func (q *Query) add(f Filter) error {
	switch v := f.(type) {
	case TypeIs:
		q.where("events.type = ?", string(v.Type))
	case StatusIs:
		q.where("events.status = ?", string(v.Status))
	case OwnerIs:
		q.where("LOWER(events.owner) = ?", strings.ToLower(v.Owner))
	case OwnerIDIs:
		return ErrUnresolvedOwnerID
	case AccountNameIs:
		q.where("LOWER(events.source_name) = ?", strings.ToLower(v.Name))
	case TargetNameIs:
		q.where("LOWER(events.target_name) = ?", strings.ToLower(v.Name))
	case GameNameIs:
		q.where("LOWER(events.source_game_name) = ?", strings.ToLower(v.Name))
	case IPIs:
		q.where("events.source_ip = ?", v.IP)
	case MachineIdentIs:
		q.where("events.source_machine = ?", v.Ident)
	case LanguageIs:
		// NULL and empty string are two spellings of "no language".
		if v.Language == "" {
			q.where("(events.language IS NULL OR events.language = '')")
		} else {
			q.where("events.language = ?", v.Language)
		}
	case SubjectMatches:
		q.match("events.subject", v.Terms)
	case ChatMatches:
		q.match("events.chat_history", v.Terms)
	case NoteMatches:
		q.joinMsgs = true
		q.match("messages.body", v.Terms)
	case HasNote:
		// Join only; no extra predicate.
		q.joinMsgs = true
	case FirstResponseMoreThan:
		// No response yet counts as "more than any threshold".
		q.where("(events.first_response IS NULL OR events.first_response > ?)", v.Millis)
	case WaitingForPlayer:
		q.where("events.waiting_for_player = ?", v.Waiting)
	case CreatedBetween:
		q.where("events.entered BETWEEN ? AND ?", v.Range.Start, v.Range.End)
	case UpdatedBetween:
		q.where("events.updated BETWEEN ? AND ?", v.Range.Start, v.Range.End)
	default:
		// The filter set is closed; hitting this means a variant was added
		// without a translation.
		return fmt.Errorf("search: no translation for filter tag %q", f.FilterTag())
	}
	return nil
}

func (q *Query) where(expr string, args ...interface{}) {
	q.clauses = append(q.clauses, Clause{Expr: expr, Args: args})
}

// match appends one LIKE clause per term; terms AND together.
func (q *Query) match(column, terms string) {
	for _, pattern := range LikePatterns(terms) {
		q.where("LOWER("+column+") LIKE ?", pattern)
	}
}

// Clauses exposes the predicate conjunction.
func (q *Query) Clauses() []Clause {
	return q.clauses
}

// NeedsMessageJoin reports whether the messages table must be joined.
func (q *Query) NeedsMessageJoin() bool {
	return q.joinMsgs
}

// OrderExpr is the ORDER BY fragment for the configured sort.
func (q *Query) OrderExpr() string {
	// Only SortByCreated exists; keep the switch so a new sort cannot be
	// added without an order expression.
	switch q.sort {
	default:
		return "events.entered DESC"
	}
}

func (q *Query) scope(db *gorm.DB) *gorm.DB {
	tx := db.Model(&models.Event{})
	if q.joinMsgs {
		tx = tx.Joins("JOIN messages ON messages.event_id = events.id")
	}
	for _, c := range q.clauses {
		tx = tx.Where(c.Expr, c.Args...)
	}
	return tx
}

// Count runs the count query: same predicates and join as the page query,
// no limit or offset, deduplicated by event id under the join.
func (q *Query) Count(db *gorm.DB) (int64, error) {
	tx := q.scope(db)
	if q.joinMsgs {
		tx = tx.Distinct("events.id")
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// Page runs the slice query and returns the ordered rows.
func (q *Query) Page(db *gorm.DB, offset, limit int) ([]models.Event, error) {
	tx := q.scope(db)
	if q.joinMsgs {
		tx = tx.Distinct("events.*")
	}
	var events []models.Event
	err := tx.Order(q.OrderExpr()).Offset(offset).Limit(limit).Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
