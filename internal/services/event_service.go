package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/sling/backend/internal/apperror"
	"github.com/sling/backend/internal/logger"
	"github.com/sling/backend/internal/models"
	"github.com/sling/backend/internal/search"
)

// MaxPageSize caps every page query regardless of what the caller asks for,
// so a runaway report cannot drag the whole events table across the wire.
const MaxPageSize = 1000

// LoadCriterion is a fixed, non-composable predicate preset.
type LoadCriterion string

const (
	LoadOpen    LoadCriterion = "OPEN"
	LoadMy      LoadCriterion = "MY"
	LoadAll     LoadCriterion = "ALL"
	LoadAccount LoadCriterion = "ACCOUNT"
)

type PageRequest struct {
	Offset    int  `json:"offset"`
	Count     int  `json:"count"`
	NeedCount bool `json:"needCount"`
}

// EventDTO is the client-facing projection of an event row with all account
// references resolved to display names.
type EventDTO struct {
	Event  models.Event        `json:"event"`
	Source models.AccountName  `json:"source"`
	Target *models.AccountName `json:"target,omitempty"`
	Owner  *models.AccountName `json:"owner,omitempty"`
}

// MessageDTO pairs a message with its author's resolved names.
type MessageDTO struct {
	Message models.Message     `json:"message"`
	Author  models.AccountName `json:"author"`
}

// EventPage is one bounded slice of search results. Total is present only
// when the caller asked for a count.
type EventPage struct {
	Total  *int64     `json:"total,omitempty"`
	Events []EventDTO `json:"events"`
}

type EventService struct {
	db    *gorm.DB
	names *NameDirectory
}

func NewEventService(db *gorm.DB, names *NameDirectory) *EventService {
	return &EventService{db: db, names: names}
}

// ClampCount normalizes a requested page size: values above MaxPageSize and
// zero both become MaxPageSize (zero means "use the cap", not "nothing").
func ClampCount(count int) int {
	if count <= 0 || count > MaxPageSize {
		return MaxPageSize
	}
	return count
}

// SearchEvents translates the search and runs the count and slice queries.
func (s *EventService) SearchEvents(ctx context.Context, srch search.Search, page PageRequest) (*EventPage, error) {
	resolved, err := s.resolveOwnerIDs(srch)
	if err != nil {
		return nil, err
	}

	q, err := search.Translate(resolved)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInvalidSearch, "cannot build query from filters")
	}

	return s.fetchPage(ctx, q, page)
}

// LoadEvents serves the console's preset lists on top of the same translator.
func (s *EventService) LoadEvents(ctx context.Context, criterion LoadCriterion, query string, agent string, page PageRequest) (*EventPage, error) {
	srch := search.Search{Sort: search.SortByCreated}
	switch criterion {
	case LoadOpen:
		// OPEN means the whole open partition, not just status OPEN.
		return s.fetchOpen(ctx, page)
	case LoadMy:
		srch.Filters = []search.Filter{search.OwnerIs{Owner: agent}}
	case LoadAll:
		// no filters
	case LoadAccount:
		if query == "" {
			return nil, apperror.New(apperror.CodeBadRequest, "ACCOUNT criterion requires an account name")
		}
		srch.Filters = []search.Filter{search.AccountNameIs{Name: query}}
	default:
		return nil, apperror.New(apperror.CodeBadRequest, "unknown load criterion")
	}

	q, err := search.Translate(srch)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInvalidSearch, "cannot build query from criterion")
	}
	return s.fetchPage(ctx, q, page)
}

// fetchOpen is the one preset the translator cannot express, since filters
// only AND: status over the open subset needs an IN list.
func (s *EventService) fetchOpen(ctx context.Context, page PageRequest) (*EventPage, error) {
	count := ClampCount(page.Count)
	tx := s.db.WithContext(ctx).Model(&models.Event{}).Where("status IN ?", models.OpenStatuses)

	var total *int64
	if page.NeedCount {
		var n int64
		if err := tx.Session(&gorm.Session{}).Count(&n).Error; err != nil {
			return nil, err
		}
		total = &n
	}

	var events []models.Event
	err := tx.Order("entered DESC").Offset(page.Offset).Limit(count).Find(&events).Error
	if err != nil {
		return nil, err
	}
	return s.buildPage(ctx, total, events)
}

func (s *EventService) fetchPage(ctx context.Context, q *search.Query, page PageRequest) (*EventPage, error) {
	count := ClampCount(page.Count)
	db := s.db.WithContext(ctx)

	var total *int64
	if page.NeedCount {
		n, err := q.Count(db)
		if err != nil {
			return nil, err
		}
		total = &n
	}

	events, err := q.Page(db, page.Offset, count)
	if err != nil {
		return nil, err
	}
	return s.buildPage(ctx, total, events)
}

// resolveOwnerIDs rewrites OWNER_ID_IS filters into OWNER_IS by looking up
// the agent's account name; the translator only accepts resolved names.
func (s *EventService) resolveOwnerIDs(srch search.Search) (search.Search, error) {
	out := search.Search{Sort: srch.Sort}
	for _, f := range srch.Filters {
		byID, ok := f.(search.OwnerIDIs)
		if !ok {
			out.Filters = append(out.Filters, f)
			continue
		}
		var user models.User
		if err := s.db.First(&user, byID.OwnerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return out, apperror.New(apperror.CodeNoSuchUser, "no agent with that id")
			}
			return out, err
		}
		out.Filters = append(out.Filters, search.OwnerIs{Owner: user.AccountName})
	}
	return out, nil
}

func (s *EventService) buildPage(ctx context.Context, total *int64, events []models.Event) (*EventPage, error) {
	var accounts []string
	for _, e := range events {
		accounts = append(accounts, e.SourceName)
		if e.TargetName != nil {
			accounts = append(accounts, *e.TargetName)
		}
		if e.Owner != nil {
			accounts = append(accounts, *e.Owner)
		}
	}

	names, err := s.names.Resolve(ctx, accounts)
	if err != nil {
		return nil, err
	}

	dtos := make([]EventDTO, 0, len(events))
	for _, e := range events {
		dtos = append(dtos, eventDTO(e, names))
	}
	return &EventPage{Total: total, Events: dtos}, nil
}

func eventDTO(e models.Event, names map[string]models.AccountName) EventDTO {
	dto := EventDTO{Event: e, Source: names[e.SourceName]}
	if e.TargetName != nil {
		if n, ok := names[*e.TargetName]; ok {
			dto.Target = &n
		}
	}
	if e.Owner != nil {
		if n, ok := names[*e.Owner]; ok {
			dto.Owner = &n
		}
	}
	return dto
}

// resolveMessageAuthors pairs each message with its author's resolved names.
func resolveMessageAuthors(messages []models.Message, names map[string]models.AccountName) []MessageDTO {
	dtos := make([]MessageDTO, 0, len(messages))
	for _, m := range messages {
		dtos = append(dtos, MessageDTO{Message: m, Author: names[m.Author]})
	}
	return dtos
}

// GetEvent loads one event with its messages, newest first. When the caller
// lacks the support privilege, SUPPORT-access messages are stripped. Every
// account reference, message authors included, resolves in one batch.
func (s *EventService) GetEvent(ctx context.Context, id uint, includeSupport bool) (*EventDTO, []MessageDTO, error) {
	var event models.Event
	if err := s.db.WithContext(ctx).First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperror.New(apperror.CodeNoSuchEvent, "no such event")
		}
		return nil, nil, err
	}

	msgQuery := s.db.WithContext(ctx).Where("event_id = ?", id)
	if !includeSupport {
		msgQuery = msgQuery.Where("access = ?", models.AccessNormal)
	}
	var messages []models.Message
	if err := msgQuery.Order("entered DESC").Find(&messages).Error; err != nil {
		return nil, nil, err
	}

	accounts := []string{event.SourceName}
	if event.TargetName != nil {
		accounts = append(accounts, *event.TargetName)
	}
	if event.Owner != nil {
		accounts = append(accounts, *event.Owner)
	}
	for _, m := range messages {
		accounts = append(accounts, m.Author)
	}

	names, err := s.names.Resolve(ctx, accounts)
	if err != nil {
		return nil, nil, err
	}

	dto := eventDTO(event, names)
	return &dto, resolveMessageAuthors(messages, names), nil
}

// OwnerAfter applies the ownership half of a status transition: claiming sets
// the acting agent as owner, returning an event to the open pool clears it,
// and closing keeps it attributed to whoever closed the event.
func OwnerAfter(status models.EventStatus, currentOwner *string, agent string) *string {
	switch status {
	case models.StatusInProgress:
		return &agent
	case models.StatusOpen, models.StatusEscalatedLead, models.StatusEscalatedAdmin:
		return nil
	default:
		return currentOwner
	}
}

// UpdateStatus moves an event through the status machine. Claiming
// (transition to IN_PROGRESS) is a conditional update so two agents cannot
// both win the same event; the loser gets a CONFLICT.
func (s *EventService) UpdateStatus(ctx context.Context, id uint, status models.EventStatus, agent string) (*models.Event, error) {
	if !status.Valid() {
		return nil, apperror.New(apperror.CodeBadRequest, "unknown status")
	}

	db := s.db.WithContext(ctx)
	now := time.Now()

	if status == models.StatusInProgress {
		res := db.Model(&models.Event{}).
			Where("id = ? AND (owner IS NULL OR LOWER(owner) = ?)", id, strings.ToLower(agent)).
			Updates(map[string]interface{}{
				"status":  status,
				"owner":   agent,
				"updated": now,
			})
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			var exists int64
			if err := db.Model(&models.Event{}).Where("id = ?", id).Count(&exists).Error; err != nil {
				return nil, err
			}
			if exists == 0 {
				return nil, apperror.New(apperror.CodeNoSuchEvent, "no such event")
			}
			return nil, apperror.New(apperror.CodeConflict, "event already claimed by another agent")
		}
		logger.WithEvent(id).WithField("agent", agent).Info("Event claimed")
		return s.loadEvent(ctx, id)
	}

	var event models.Event
	if err := db.First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.CodeNoSuchEvent, "no such event")
		}
		return nil, err
	}

	event.Status = status
	event.Owner = OwnerAfter(status, event.Owner, agent)
	event.Updated = now
	if err := db.Save(&event).Error; err != nil {
		return nil, err
	}
	logger.WithEvent(id).WithField("status", status).Info("Event status updated")
	return &event, nil
}

// SetWaiting flips the waiting-for-player flag.
func (s *EventService) SetWaiting(ctx context.Context, id uint, waiting bool) (*models.Event, error) {
	res := s.db.WithContext(ctx).Model(&models.Event{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"waiting_for_player": waiting, "updated": time.Now()})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperror.New(apperror.CodeNoSuchEvent, "no such event")
	}
	return s.loadEvent(ctx, id)
}

// FirstResponseQualifies reports whether a message starts the first-response
// clock: a reply (non-source author) for petitions, any message for
// complaints. Other event types never record one.
func FirstResponseQualifies(event *models.Event, author string) bool {
	switch event.Type {
	case models.TypePetition:
		return !strings.EqualFold(author, event.SourceName)
	case models.TypeComplaint:
		return true
	default:
		return false
	}
}

// PostMessage appends a message, stamps Updated, records the first-response
// latency exactly once, and maintains the waiting-for-player flag.
func (s *EventService) PostMessage(ctx context.Context, id uint, author, body string, access models.MessageAccess) (*models.Message, error) {
	if body == "" {
		return nil, apperror.New(apperror.CodeBadRequest, "message body is required")
	}
	if !access.Valid() {
		return nil, apperror.New(apperror.CodeBadRequest, "unknown message access")
	}

	db := s.db.WithContext(ctx)
	var event models.Event
	if err := db.First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.CodeNoSuchEvent, "no such event")
		}
		return nil, err
	}

	now := time.Now()
	msg := models.Message{
		EventID: id,
		Author:  author,
		Body:    body,
		Access:  access,
		Entered: now,
	}
	if err := db.Create(&msg).Error; err != nil {
		return nil, err
	}

	event.Updated = now
	if event.FirstResponse == nil && FirstResponseQualifies(&event, author) {
		latency := now.Sub(event.Entered).Milliseconds()
		event.FirstResponse = &latency
	}
	fromSource := strings.EqualFold(author, event.SourceName)
	if fromSource {
		event.WaitingForPlayer = false
	} else if access == models.AccessNormal && event.Type == models.TypePetition {
		event.WaitingForPlayer = true
	}
	if err := db.Save(&event).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// NewEventInput carries the fields common to all event creation flows.
type NewEventInput struct {
	Type          models.EventType
	SourceName    string
	SourceGame    *string
	SourceIP      *string
	SourceMachine *string
	TargetName    *string
	Subject       string
	ChatHistory   string
	Link          *string
	Language      *string
}

// CreateEvent records a new event. Targets are complaint-only.
func (s *EventService) CreateEvent(ctx context.Context, in NewEventInput) (*models.Event, error) {
	if !in.Type.Valid() {
		return nil, apperror.New(apperror.CodeBadRequest, "unknown event type")
	}
	if in.SourceName == "" || in.Subject == "" {
		return nil, apperror.New(apperror.CodeBadRequest, "source and subject are required")
	}
	if in.TargetName != nil && in.Type != models.TypeComplaint {
		return nil, apperror.New(apperror.CodeBadRequest, "only complaints carry a target")
	}

	now := time.Now()
	event := models.Event{
		Type:           in.Type,
		Status:         models.StatusOpen,
		Entered:        now,
		Updated:        now,
		SourceName:     in.SourceName,
		SourceGameName: in.SourceGame,
		SourceIP:       in.SourceIP,
		SourceMachine:  in.SourceMachine,
		TargetName:     in.TargetName,
		Subject:        in.Subject,
		ChatHistory:    in.ChatHistory,
		Link:           in.Link,
		Language:       in.Language,
	}
	if err := s.db.WithContext(ctx).Create(&event).Error; err != nil {
		return nil, err
	}
	logger.WithEvent(event.ID).WithField("type", event.Type).Info("Event created")
	return &event, nil
}

func (s *EventService) loadEvent(ctx context.Context, id uint) (*models.Event, error) {
	var event models.Event
	if err := s.db.WithContext(ctx).First(&event, id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}
