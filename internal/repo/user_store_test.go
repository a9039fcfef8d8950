package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"devicehub/internal/models"
)

func seedUsers(t *testing.T, gdb *gorm.DB) {
	t.Helper()
	users := []models.User{
		{UserID: "USR-1", Username: "jsmith", Email: "jsmith@example.com", Role: "admin", CreatedAt: time.Now().UTC()},
		{UserID: "USR-2", Username: "mgarcia", Email: "mgarcia@example.com", Role: "operator", CreatedAt: time.Now().UTC()},
	}
	if err := gdb.Create(&users).Error; err != nil {
		t.Fatalf("failed to create users: %v", err)
	}
}

func TestListUsersLimit(t *testing.T) {
	gdb := newTestDB(t)
	seedUsers(t, gdb)
	s := NewUserStore(gdb)

	users, err := s.ListUsers(context.Background(), 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 1 {
		t.Errorf("expected 1 user, got %d", len(users))
	}

	users, err = s.ListUsers(context.Background(), 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("limit 0 means no limit, got %d users", len(users))
	}
}

func TestSecondaryLookups(t *testing.T) {
	gdb := newTestDB(t)
	seedUsers(t, gdb)
	s := NewUserStore(gdb)
	ctx := context.Background()

	u, err := s.GetByEmail(ctx, "jsmith@example.com")
	if err != nil {
		t.Fatalf("by email: %v", err)
	}
	if u.UserID != "USR-1" {
		t.Errorf("by email: user_id = %q", u.UserID)
	}

	u, err = s.GetByUsername(ctx, "mgarcia")
	if err != nil {
		t.Fatalf("by username: %v", err)
	}
	if u.UserID != "USR-2" {
		t.Errorf("by username: user_id = %q", u.UserID)
	}

	if _, err := s.GetByEmail(ctx, "nobody@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestQueryActivitiesInclusiveBounds(t *testing.T) {
	gdb := newTestDB(t)
	seedUsers(t, gdb)
	s := NewUserStore(gdb)
	ctx := context.Background()

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, at := range []string{"login", "logout", "login"} {
		err := s.RecordActivity(ctx, models.UserActivity{
			UserID:       "USR-1",
			Timestamp:    base.Add(time.Duration(i) * time.Hour),
			ActivityType: at,
			Description:  "test",
		})
		if err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	// границы включительно: [base, base+2h] захватывает все три
	acts, err := s.QueryActivities(ctx, base, base.Add(2*time.Hour), "", "", 0)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(acts) != 3 {
		t.Errorf("inclusive range: expected 3, got %d", len(acts))
	}

	// фильтр по типу
	acts, err = s.QueryActivities(ctx, base, base.Add(2*time.Hour), "", "login", 0)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(acts) != 2 {
		t.Errorf("type filter: expected 2, got %d", len(acts))
	}

	// фильтр по пользователю без совпадений — пустой список, не ошибка
	acts, err = s.QueryActivities(ctx, base, base.Add(2*time.Hour), "USR-2", "", 0)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(acts) != 0 {
		t.Errorf("expected 0 for other user, got %d", len(acts))
	}
}
