package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/sling/backend/internal/apperror"
	"github.com/sling/backend/internal/logger"
	"github.com/sling/backend/internal/models"
)

const banKeyPrefix = "ban:"

// BanService issues warnings and bans. Every ban is three writes: the ban
// row, a SUPPORT_ACTION event on the account, and for actual bans a Redis
// flag the game servers check on login (temp bans expire via TTL).
type BanService struct {
	db     *gorm.DB
	rdb    *redis.Client
	events *EventService
}

func NewBanService(db *gorm.DB, rdb *redis.Client, events *EventService) *BanService {
	return &BanService{db: db, rdb: rdb, events: events}
}

type IssueBanInput struct {
	AccountName string
	Kind        models.BanKind
	Reason      string
	IssuedBy    string
	Duration    time.Duration // temp bans only
}

func banKey(account string) string {
	return banKeyPrefix + strings.ToLower(account)
}

func (s *BanService) IssueBan(ctx context.Context, in IssueBanInput) (*models.Ban, error) {
	if in.AccountName == "" || in.Reason == "" {
		return nil, apperror.New(apperror.CodeBadRequest, "account and reason are required")
	}
	if !in.Kind.Valid() {
		return nil, apperror.New(apperror.CodeBadRequest, "unknown ban kind")
	}
	if in.Kind == models.KindTempBan && in.Duration <= 0 {
		return nil, apperror.New(apperror.CodeBadRequest, "temp bans require a duration")
	}

	ban := models.Ban{
		AccountName: in.AccountName,
		Kind:        in.Kind,
		Reason:      in.Reason,
		IssuedBy:    in.IssuedBy,
	}
	if in.Kind == models.KindTempBan {
		expires := time.Now().Add(in.Duration)
		ban.ExpiresAt = &expires
	}

	if err := s.db.WithContext(ctx).Create(&ban).Error; err != nil {
		return nil, err
	}

	switch in.Kind {
	case models.KindTempBan:
		if err := s.rdb.Set(ctx, banKey(in.AccountName), string(in.Kind), in.Duration).Err(); err != nil {
			return nil, err
		}
	case models.KindPermaBan:
		if err := s.rdb.Set(ctx, banKey(in.AccountName), string(in.Kind), 0).Err(); err != nil {
			return nil, err
		}
	}

	// The automated event keeps the ban visible in the account's history.
	_, err := s.events.CreateEvent(ctx, NewEventInput{
		Type:        models.TypeSupportAction,
		SourceName:  in.AccountName,
		Subject:     fmt.Sprintf("%s issued by %s", in.Kind, in.IssuedBy),
		ChatHistory: in.Reason,
	})
	if err != nil {
		logger.WithError(err, "ban_service").Error("Failed to record ban event")
	}

	logger.WithComponent("ban_service").WithField("account", in.AccountName).
		WithField("kind", in.Kind).Info("Ban issued")
	return &ban, nil
}

// IsBanned checks the live Redis flag.
func (s *BanService) IsBanned(ctx context.Context, account string) (bool, error) {
	status, err := s.rdb.Get(ctx, banKey(account)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return status != "", nil
}

// Lift removes a ban flag and soft-deletes the row.
func (s *BanService) Lift(ctx context.Context, banID uint, agent string) error {
	var ban models.Ban
	if err := s.db.WithContext(ctx).First(&ban, banID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.New(apperror.CodeBadRequest, "no such ban")
		}
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&ban).Error; err != nil {
		return err
	}
	if err := s.rdb.Del(ctx, banKey(ban.AccountName)).Err(); err != nil {
		return err
	}
	logger.WithComponent("ban_service").WithField("account", ban.AccountName).
		WithField("agent", agent).Info("Ban lifted")
	return nil
}

// History lists all warnings and bans ever issued against an account,
// newest first.
func (s *BanService) History(ctx context.Context, account string) ([]models.Ban, error) {
	var bans []models.Ban
	err := s.db.WithContext(ctx).Unscoped().
		Where("LOWER(account_name) = ?", strings.ToLower(account)).
		Order("created_at DESC").Find(&bans).Error
	if err != nil {
		return nil, err
	}
	return bans, nil
}
