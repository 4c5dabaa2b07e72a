package search

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sling/backend/internal/models"
)

func mustTranslate(t *testing.T, filters ...Filter) *Query {
	t.Helper()
	q, err := Translate(Search{Filters: filters, Sort: SortByCreated})
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	return q
}

func TestTranslateEqualityFilters(t *testing.T) {
	tests := []struct {
		name     string
		filter   Filter
		wantExpr string
		wantArgs []interface{}
	}{
		{
			name:     "type",
			filter:   TypeIs{Type: models.TypeComplaint},
			wantExpr: "events.type = ?",
			wantArgs: []interface{}{"COMPLAINT"},
		},
		{
			name:     "status",
			filter:   StatusIs{Status: models.StatusInProgress},
			wantExpr: "events.status = ?",
			wantArgs: []interface{}{"IN_PROGRESS"},
		},
		{
			name:     "owner is lower cased",
			filter:   OwnerIs{Owner: "AgentA"},
			wantExpr: "LOWER(events.owner) = ?",
			wantArgs: []interface{}{"agenta"},
		},
		{
			name:     "account name is lower cased",
			filter:   AccountNameIs{Name: "Player1"},
			wantExpr: "LOWER(events.source_name) = ?",
			wantArgs: []interface{}{"player1"},
		},
		{
			name:     "target name is lower cased",
			filter:   TargetNameIs{Name: "Player2"},
			wantExpr: "LOWER(events.target_name) = ?",
			wantArgs: []interface{}{"player2"},
		},
		{
			name:     "game name is lower cased",
			filter:   GameNameIs{Name: "Gandalf"},
			wantExpr: "LOWER(events.source_game_name) = ?",
			wantArgs: []interface{}{"gandalf"},
		},
		{
			name:     "ip is exact",
			filter:   IPIs{IP: "10.0.0.1"},
			wantExpr: "events.source_ip = ?",
			wantArgs: []interface{}{"10.0.0.1"},
		},
		{
			name:     "machine ident is exact",
			filter:   MachineIdentIs{Ident: "mach-77"},
			wantExpr: "events.source_machine = ?",
			wantArgs: []interface{}{"mach-77"},
		},
		{
			name:     "language",
			filter:   LanguageIs{Language: "de"},
			wantExpr: "events.language = ?",
			wantArgs: []interface{}{"de"},
		},
		{
			name:     "waiting flag",
			filter:   WaitingForPlayer{Waiting: true},
			wantExpr: "events.waiting_for_player = ?",
			wantArgs: []interface{}{true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := mustTranslate(t, tt.filter)
			clauses := q.Clauses()
			if len(clauses) != 1 {
				t.Fatalf("expected 1 clause, got %d", len(clauses))
			}
			if clauses[0].Expr != tt.wantExpr {
				t.Errorf("expr = %q, want %q", clauses[0].Expr, tt.wantExpr)
			}
			if !reflect.DeepEqual(clauses[0].Args, tt.wantArgs) {
				t.Errorf("args = %#v, want %#v", clauses[0].Args, tt.wantArgs)
			}
			if q.NeedsMessageJoin() {
				t.Error("equality filters must not require the message join")
			}
		})
	}
}

func TestTranslateEmptyLanguageMatchesNullAndEmpty(t *testing.T) {
	q := mustTranslate(t, LanguageIs{Language: ""})
	clauses := q.Clauses()
	if len(clauses) != 1 {
		t.Fatalf("expected 1 clause, got %d", len(clauses))
	}
	want := "(events.language IS NULL OR events.language = '')"
	if clauses[0].Expr != want {
		t.Errorf("expr = %q, want %q", clauses[0].Expr, want)
	}
	if len(clauses[0].Args) != 0 {
		t.Errorf("expected no args, got %#v", clauses[0].Args)
	}
}

func TestTranslateFirstResponseCountsMissingAsSlow(t *testing.T) {
	q := mustTranslate(t, FirstResponseMoreThan{Millis: 3600000})
	clauses := q.Clauses()
	if len(clauses) != 1 {
		t.Fatalf("expected 1 clause, got %d", len(clauses))
	}
	want := "(events.first_response IS NULL OR events.first_response > ?)"
	if clauses[0].Expr != want {
		t.Errorf("expr = %q, want %q", clauses[0].Expr, want)
	}
	if !reflect.DeepEqual(clauses[0].Args, []interface{}{int64(3600000)}) {
		t.Errorf("args = %#v", clauses[0].Args)
	}
}

func TestTranslateTextFiltersProduceOneClausePerTerm(t *testing.T) {
	q := mustTranslate(t, SubjectMatches{Terms: "stuck tower"})
	clauses := q.Clauses()
	if len(clauses) != 2 {
		t.Fatalf("expected 2 clauses, got %d", len(clauses))
	}
	for _, c := range clauses {
		if c.Expr != "LOWER(events.subject) LIKE ?" {
			t.Errorf("unexpected expr %q", c.Expr)
		}
	}
	if !reflect.DeepEqual(clauses[0].Args, []interface{}{"%stuck%"}) {
		t.Errorf("first term args = %#v", clauses[0].Args)
	}
	if !reflect.DeepEqual(clauses[1].Args, []interface{}{"%tower%"}) {
		t.Errorf("second term args = %#v", clauses[1].Args)
	}
	if q.NeedsMessageJoin() {
		t.Error("subject match must not require the message join")
	}
}

func TestTranslateNoteMatchesForcesJoin(t *testing.T) {
	q := mustTranslate(t, NoteMatches{Terms: "gold"})
	if !q.NeedsMessageJoin() {
		t.Fatal("NOTE_MATCHES must force the message join")
	}
	clauses := q.Clauses()
	if len(clauses) != 1 {
		t.Fatalf("expected 1 clause, got %d", len(clauses))
	}
	if clauses[0].Expr != "LOWER(messages.body) LIKE ?" {
		t.Errorf("expr = %q", clauses[0].Expr)
	}
}

func TestTranslateHasNoteJoinsWithoutPredicate(t *testing.T) {
	q := mustTranslate(t, HasNote{})
	if !q.NeedsMessageJoin() {
		t.Fatal("HAS_NOTE must force the message join")
	}
	if len(q.Clauses()) != 0 {
		t.Errorf("HAS_NOTE must not add predicates, got %d", len(q.Clauses()))
	}
}

func TestTranslateTimeRanges(t *testing.T) {
	start := time.Date(2009, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2009, 6, 30, 0, 0, 0, 0, time.UTC)

	q := mustTranslate(t,
		CreatedBetween{Range: TimeRange{Start: start, End: end}},
		UpdatedBetween{Range: TimeRange{Start: start, End: end}},
	)
	clauses := q.Clauses()
	if len(clauses) != 2 {
		t.Fatalf("expected 2 clauses, got %d", len(clauses))
	}
	if clauses[0].Expr != "events.entered BETWEEN ? AND ?" {
		t.Errorf("created expr = %q", clauses[0].Expr)
	}
	if clauses[1].Expr != "events.updated BETWEEN ? AND ?" {
		t.Errorf("updated expr = %q", clauses[1].Expr)
	}
}

func TestTranslateConjoinsAllFilters(t *testing.T) {
	q := mustTranslate(t,
		TypeIs{Type: models.TypePetition},
		StatusIs{Status: models.StatusOpen},
		LanguageIs{Language: "fr"},
	)
	if len(q.Clauses()) != 3 {
		t.Errorf("expected 3 clauses, got %d", len(q.Clauses()))
	}
}

func TestTranslateRejectsUnresolvedOwnerID(t *testing.T) {
	_, err := Translate(Search{Filters: []Filter{OwnerIDIs{OwnerID: 42}}})
	if !errors.Is(err, ErrUnresolvedOwnerID) {
		t.Fatalf("expected ErrUnresolvedOwnerID, got %v", err)
	}
}

// sqlRecorder collects the SQL gorm renders, so the count and page queries
// can be checked without a database.
type sqlRecorder struct {
	sqls []string
}

func (r *sqlRecorder) LogMode(gormlogger.LogLevel) gormlogger.Interface { return r }
func (r *sqlRecorder) Info(context.Context, string, ...interface{})     {}
func (r *sqlRecorder) Warn(context.Context, string, ...interface{})     {}
func (r *sqlRecorder) Error(context.Context, string, ...interface{})    {}

func (r *sqlRecorder) Trace(_ context.Context, _ time.Time, fc func() (string, int64), _ error) {
	sql, _ := fc()
	r.sqls = append(r.sqls, sql)
}

func dryRunDB(t *testing.T, rec *sqlRecorder) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost user=sling dbname=sling"}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               rec,
	})
	if err != nil {
		t.Fatalf("open dry-run db: %v", err)
	}
	return db
}

func lastSQL(t *testing.T, rec *sqlRecorder) string {
	t.Helper()
	if len(rec.sqls) == 0 {
		t.Fatal("no SQL rendered")
	}
	return rec.sqls[len(rec.sqls)-1]
}

func TestCountDeduplicatesUnderMessageJoin(t *testing.T) {
	rec := &sqlRecorder{}
	db := dryRunDB(t, rec)

	q := mustTranslate(t, HasNote{})
	if _, err := q.Count(db); err != nil {
		t.Fatalf("Count: %v", err)
	}

	sql := lastSQL(t, rec)
	if !strings.Contains(sql, "COUNT(DISTINCT(") {
		t.Errorf("count under the join must deduplicate by event id, got %q", sql)
	}
	if !strings.Contains(sql, "JOIN messages ON messages.event_id = events.id") {
		t.Errorf("count must carry the message join, got %q", sql)
	}
}

func TestCountWithoutJoinStaysPlain(t *testing.T) {
	rec := &sqlRecorder{}
	db := dryRunDB(t, rec)

	q := mustTranslate(t, StatusIs{Status: models.StatusOpen})
	if _, err := q.Count(db); err != nil {
		t.Fatalf("Count: %v", err)
	}

	sql := lastSQL(t, rec)
	if strings.Contains(sql, "DISTINCT") {
		t.Errorf("count without the join must not deduplicate, got %q", sql)
	}
	if strings.Contains(sql, "JOIN") {
		t.Errorf("count without message filters must not join, got %q", sql)
	}
}

func TestPageDeduplicatesUnderMessageJoin(t *testing.T) {
	rec := &sqlRecorder{}
	db := dryRunDB(t, rec)

	q := mustTranslate(t, NoteMatches{Terms: "gold"})
	if _, err := q.Page(db, 0, 10); err != nil {
		t.Fatalf("Page: %v", err)
	}

	sql := lastSQL(t, rec)
	if !strings.Contains(sql, "SELECT DISTINCT events.*") {
		t.Errorf("page under the join must select distinct event rows, got %q", sql)
	}
	if !strings.Contains(sql, "ORDER BY events.entered DESC") {
		t.Errorf("page must keep the sort, got %q", sql)
	}
	if !strings.Contains(sql, "LIMIT") {
		t.Errorf("page must be bounded, got %q", sql)
	}
}

func TestPageWithoutJoinStaysPlain(t *testing.T) {
	rec := &sqlRecorder{}
	db := dryRunDB(t, rec)

	q := mustTranslate(t, TypeIs{Type: models.TypePetition})
	if _, err := q.Page(db, 0, 10); err != nil {
		t.Fatalf("Page: %v", err)
	}

	sql := lastSQL(t, rec)
	if strings.Contains(sql, "DISTINCT") {
		t.Errorf("page without the join must not deduplicate, got %q", sql)
	}
}

func TestTranslateEmptySearch(t *testing.T) {
	q := mustTranslate(t)
	if len(q.Clauses()) != 0 {
		t.Errorf("empty search should have no clauses")
	}
	if q.NeedsMessageJoin() {
		t.Errorf("empty search should not join messages")
	}
	if q.OrderExpr() != "events.entered DESC" {
		t.Errorf("default order = %q", q.OrderExpr())
	}
}
