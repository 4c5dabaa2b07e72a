package services

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/sling/backend/internal/apperror"
	"github.com/sling/backend/internal/models"
	"github.com/sling/backend/internal/search"
)

// PetitionService is the player-facing slice over events: players see only
// their own petitions, never SUPPORT messages, and never raw staff account
// names. Staff identities are reduced to handles before leaving the server.
type PetitionService struct {
	db     *gorm.DB
	events *EventService
	names  *NameDirectory
}

func NewPetitionService(db *gorm.DB, events *EventService, names *NameDirectory) *PetitionService {
	return &PetitionService{db: db, events: events, names: names}
}

type SubmitPetitionInput struct {
	Subject     string
	ChatHistory string
	GameName    *string
	Language    *string
	SourceIP    *string
}

type PetitionMessage struct {
	ID        uint           `json:"id"`
	Body      string         `json:"body"`
	Entered   time.Time      `json:"entered"`
	FromStaff bool           `json:"fromStaff"`
	Staff     *models.Handle `json:"staff,omitempty"`
}

type PetitionView struct {
	ID               uint               `json:"id"`
	Status           models.EventStatus `json:"status"`
	Entered          time.Time          `json:"entered"`
	Updated          time.Time          `json:"updated"`
	WaitingForPlayer bool               `json:"waitingForPlayer"`
	Subject          string             `json:"subject"`
	Language         *string            `json:"language,omitempty"`
	Owner            *models.Handle     `json:"owner,omitempty"`
	Messages         []PetitionMessage  `json:"messages,omitempty"`
}

// Submit files a new petition for the calling player.
func (s *PetitionService) Submit(ctx context.Context, account string, in SubmitPetitionInput) (*models.Event, error) {
	return s.events.CreateEvent(ctx, NewEventInput{
		Type:        models.TypePetition,
		SourceName:  account,
		SourceGame:  in.GameName,
		SourceIP:    in.SourceIP,
		Subject:     in.Subject,
		ChatHistory: in.ChatHistory,
		Language:    in.Language,
	})
}

// ListMine pages through the caller's own petitions.
func (s *PetitionService) ListMine(ctx context.Context, account string, page PageRequest) ([]PetitionView, *int64, error) {
	srch := search.Search{
		Filters: []search.Filter{
			search.TypeIs{Type: models.TypePetition},
			search.AccountNameIs{Name: account},
		},
		Sort: search.SortByCreated,
	}
	q, err := search.Translate(srch)
	if err != nil {
		return nil, nil, apperror.Wrap(err, apperror.CodeInvalidSearch, "cannot build petition query")
	}

	db := s.db.WithContext(ctx)
	var total *int64
	if page.NeedCount {
		n, err := q.Count(db)
		if err != nil {
			return nil, nil, err
		}
		total = &n
	}

	events, err := q.Page(db, page.Offset, ClampCount(page.Count))
	if err != nil {
		return nil, nil, err
	}

	views := make([]PetitionView, 0, len(events))
	for i := range events {
		view, err := s.anonymize(ctx, &events[i], nil)
		if err != nil {
			return nil, nil, err
		}
		views = append(views, *view)
	}
	return views, total, nil
}

// View returns one petition with its visible messages. Callers only ever see
// their own petitions; everything else reads as not found so petition ids
// cannot be probed.
func (s *PetitionService) View(ctx context.Context, id uint, account string) (*PetitionView, error) {
	event, err := s.ownPetition(ctx, id, account)
	if err != nil {
		return nil, err
	}

	var messages []models.Message
	err = s.db.WithContext(ctx).
		Where("event_id = ? AND access = ?", id, models.AccessNormal).
		Order("entered DESC").Find(&messages).Error
	if err != nil {
		return nil, err
	}

	return s.anonymize(ctx, event, messages)
}

// Reply appends a player message to their own petition.
func (s *PetitionService) Reply(ctx context.Context, id uint, account, body string) (*models.Message, error) {
	if _, err := s.ownPetition(ctx, id, account); err != nil {
		return nil, err
	}
	return s.events.PostMessage(ctx, id, account, body, models.AccessNormal)
}

func (s *PetitionService) ownPetition(ctx context.Context, id uint, account string) (*models.Event, error) {
	var event models.Event
	err := s.db.WithContext(ctx).
		Where("id = ? AND type = ? AND LOWER(source_name) = ?",
			id, models.TypePetition, strings.ToLower(account)).
		First(&event).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperror.New(apperror.CodeNoSuchEvent, "no such petition")
		}
		return nil, err
	}
	return &event, nil
}

// anonymize builds the player view: the owner and all staff message authors
// collapse to handles carrying only live game names.
func (s *PetitionService) anonymize(ctx context.Context, event *models.Event, messages []models.Message) (*PetitionView, error) {
	var staff []string
	if event.Owner != nil {
		staff = append(staff, *event.Owner)
	}
	for _, m := range messages {
		if !strings.EqualFold(m.Author, event.SourceName) {
			staff = append(staff, m.Author)
		}
	}

	names, err := s.names.Resolve(ctx, staff)
	if err != nil {
		return nil, err
	}

	view := &PetitionView{
		ID:               event.ID,
		Status:           event.Status,
		Entered:          event.Entered,
		Updated:          event.Updated,
		WaitingForPlayer: event.WaitingForPlayer,
		Subject:          event.Subject,
		Language:         event.Language,
	}
	if event.Owner != nil {
		handle := names[*event.Owner].ToHandle()
		view.Owner = &handle
	}
	for _, m := range messages {
		pm := PetitionMessage{ID: m.ID, Body: m.Body, Entered: m.Entered}
		if !strings.EqualFold(m.Author, event.SourceName) {
			pm.FromStaff = true
			handle := names[m.Author].ToHandle()
			pm.Staff = &handle
		}
		view.Messages = append(view.Messages, pm)
	}
	return view, nil
}
