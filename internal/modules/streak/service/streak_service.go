package service

import (
	"context"
	"strings"
	"time"

	"readlog/internal/modules/streak/domain"
	streakout "readlog/internal/modules/streak/port/out"
	"readlog/internal/platform/clock"
)

type StreakService struct {
	clock       clock.Clock
	store       streakout.StreakStore
	defaultZone string
}

// NewStreakService falls back to defaultZone for readers who never set a
// timezone; an empty defaultZone means UTC.
func NewStreakService(clk clock.Clock, store streakout.StreakStore, defaultZone string) *StreakService {
	if strings.TrimSpace(defaultZone) == "" {
		defaultZone = "UTC"
	}
	return &StreakService{clock: clk, store: store, defaultZone: defaultZone}
}

func (s *StreakService) Now() time.Time { return s.clock.Now() }

func (s *StreakService) Load(ctx context.Context, user domain.UserID) (domain.Streak, error) {
	return s.store.GetOrCreate(ctx, domain.New(user, s.clock.Now()))
}

func (s *StreakService) Save(ctx context.Context, streak domain.Streak) error {
	streak.UpdatedAt = s.clock.Now()
	return s.store.Save(ctx, streak)
}

// Zone returns the reader's IANA timezone without creating a row.
func (s *StreakService) Zone(ctx context.Context, user domain.UserID) (string, error) {
	streak, ok, err := s.store.Find(ctx, user)
	if err != nil {
		return "", err
	}
	if ok && streak.Timezone != "" {
		return streak.Timezone, nil
	}
	return s.defaultZone, nil
}

// Calendar binds the clock to the streak's zone for one operation.
func (s *StreakService) Calendar(streak domain.Streak) (clock.Calendar, error) {
	zone := streak.Timezone
	if zone == "" {
		zone = s.defaultZone
	}
	loc, err := clock.LoadZone(zone)
	if err != nil {
		return clock.Calendar{}, err
	}
	return clock.NewCalendar(s.clock, loc), nil
}

func (s *StreakService) CalendarIn(loc *time.Location) clock.Calendar {
	return clock.NewCalendar(s.clock, loc)
}
