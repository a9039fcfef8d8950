package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"devicehub/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

type UserStore struct{ db *gorm.DB }

func NewUserStore(db *gorm.DB) *UserStore { return &UserStore{db: db} }

// ListUsers: limit <= 0 — без ограничения.
func (s *UserStore) ListUsers(ctx context.Context, limit int) ([]models.User, error) {
	q := s.db.WithContext(ctx).Order("user_id")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getBy(ctx, "email = ?", email)
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getBy(ctx, "username = ?", username)
}

func (s *UserStore) getBy(ctx context.Context, cond, val string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Where(cond, val).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// RecordActivity — журнал append-only, записи не мутируются.
func (s *UserStore) RecordActivity(ctx context.Context, a models.UserActivity) error {
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now().UTC()
	}
	return s.db.WithContext(ctx).Create(&a).Error
}

// QueryActivities — диапазон [start, end] включительно, опциональные фильтры
// по user_id и activity_type, порядок по timestamp.
func (s *UserStore) QueryActivities(ctx context.Context, start, end time.Time, userID, activityType string, limit int) ([]models.UserActivity, error) {
	q := s.db.WithContext(ctx).
		Where("timestamp >= ? AND timestamp <= ?", start, end).
		Order("timestamp")
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	if activityType != "" {
		q = q.Where("activity_type = ?", activityType)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var acts []models.UserActivity
	if err := q.Find(&acts).Error; err != nil {
		return nil, err
	}
	return acts, nil
}
