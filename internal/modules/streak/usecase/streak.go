package usecase

import (
	"context"
	"log/slog"

	"readlog/internal/modules/streak/domain"
	"readlog/internal/modules/streak/dto"
	streakin "readlog/internal/modules/streak/port/in"
	streakout "readlog/internal/modules/streak/port/out"
	"readlog/internal/modules/streak/service"
	"readlog/internal/platform/clock"
	apperrors "readlog/internal/platform/errors"
	"readlog/internal/platform/metrics"
	"readlog/internal/platform/tx"
)

type QueryInteractor struct {
	svc *service.StreakService
}

func NewQueryInteractor(svc *service.StreakService) streakin.Queries {
	return &QueryInteractor{svc: svc}
}

func (q *QueryInteractor) ResolveTimezone(ctx context.Context, input dto.UserInput) (string, error) {
	zone, err := q.svc.Zone(ctx, domain.UserFromPtr(input.UserID))
	return zone, apperrors.Internal("resolve timezone", err)
}

type Interactor struct {
	QueryInteractor
	activity streakout.ActivityReader
	tx       tx.Manager
	logger   *slog.Logger
	metrics  metrics.Recorder
}

func NewInteractor(svc *service.StreakService, activity streakout.ActivityReader, txm tx.Manager, logger *slog.Logger, recorder metrics.Recorder) streakin.Usecase {
	if txm == nil {
		txm = tx.NoopManager{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &Interactor{
		QueryInteractor: QueryInteractor{svc: svc},
		activity:        activity,
		tx:              txm,
		logger:          logger,
		metrics:         recorder,
	}
}

// GetStreak runs the lapse check as its own write, then reads.
func (i *Interactor) GetStreak(ctx context.Context, input dto.UserInput) (dto.StreakOutput, error) {
	if _, err := i.CheckAndReset(ctx, input); err != nil {
		return dto.StreakOutput{}, err
	}
	var out dto.StreakOutput
	err := i.tx.Within(ctx, func(ctx context.Context) error {
		streak, cal, err := i.load(ctx, domain.UserFromPtr(input.UserID))
		if err != nil {
			return err
		}
		out, err = i.output(ctx, streak, cal)
		return err
	})
	return out, err
}

func (i *Interactor) CheckAndReset(ctx context.Context, input dto.UserInput) (dto.StreakOutput, error) {
	var out dto.StreakOutput
	err := i.tx.Within(ctx, func(ctx context.Context) error {
		streak, cal, err := i.load(ctx, domain.UserFromPtr(input.UserID))
		if err != nil {
			return err
		}
		yesterdayPages, err := i.pagesOn(ctx, cal, cal.Yesterday())
		if err != nil {
			return err
		}
		if domain.ShouldReset(streak, cal.Today(), yesterdayPages) {
			i.logger.InfoContext(ctx, "streak lapsed", "user", streak.User.String(), "last_activity", streak.LastActivityDate, "was", streak.CurrentStreak)
			streak.CurrentStreak = 0
			streak.StreakStartDate = ""
			if err := i.svc.Save(ctx, streak); err != nil {
				return apperrors.Internal("save streak", err)
			}
		}
		out, err = i.output(ctx, streak, cal)
		return err
	})
	return out, err
}

func (i *Interactor) Rebuild(ctx context.Context, input dto.RebuildInput) (dto.StreakOutput, error) {
	var out dto.StreakOutput
	err := i.tx.Within(ctx, func(ctx context.Context) error {
		streak, cal, err := i.load(ctx, domain.UserFromPtr(input.UserID))
		if err != nil {
			return err
		}
		if err := i.rebuild(ctx, &streak, cal, input.Reason); err != nil {
			return err
		}
		out, err = i.output(ctx, streak, cal)
		return err
	})
	return out, err
}

// NoteActivity takes the cheap path for entries dated today and falls back
// to a full rebuild for anything else.
func (i *Interactor) NoteActivity(ctx context.Context, input dto.ActivityInput) error {
	if _, err := clock.ParseDate(input.Date); err != nil {
		return err
	}
	return i.tx.Within(ctx, func(ctx context.Context) error {
		streak, cal, err := i.load(ctx, domain.UserFromPtr(input.UserID))
		if err != nil {
			return err
		}
		if input.Date != cal.Today() {
			return i.rebuild(ctx, &streak, cal, "backdated")
		}
		pages, err := i.pagesOn(ctx, cal, input.Date)
		if err != nil {
			return err
		}
		if !domain.ThresholdMet(pages, streak.DailyThreshold) {
			return nil
		}
		if !streak.Extend(input.Date, i.svc.Now()) {
			return nil
		}
		if err := i.svc.Save(ctx, streak); err != nil {
			return apperrors.Internal("save streak", err)
		}
		i.logger.DebugContext(ctx, "streak extended", "user", streak.User.String(), "current", streak.CurrentStreak)
		return nil
	})
}

// UpdateThreshold only changes how days are judged from now on; callers
// wanting history reinterpreted rebuild explicitly.
func (i *Interactor) UpdateThreshold(ctx context.Context, input dto.ThresholdInput) (dto.StreakOutput, error) {
	value, err := domain.ParseThreshold(input.Value)
	if err != nil {
		return dto.StreakOutput{}, err
	}
	var out dto.StreakOutput
	err = i.tx.Within(ctx, func(ctx context.Context) error {
		streak, cal, err := i.load(ctx, domain.UserFromPtr(input.UserID))
		if err != nil {
			return err
		}
		streak.DailyThreshold = value
		if err := i.svc.Save(ctx, streak); err != nil {
			return apperrors.Internal("save streak", err)
		}
		out, err = i.output(ctx, streak, cal)
		return err
	})
	return out, err
}

// SetTimezone always rebuilds: a new zone moves historical entries across
// day boundaries.
func (i *Interactor) SetTimezone(ctx context.Context, input dto.TimezoneInput) (dto.StreakOutput, error) {
	loc, err := clock.LoadZone(input.Timezone)
	if err != nil {
		return dto.StreakOutput{}, err
	}
	var out dto.StreakOutput
	err = i.tx.Within(ctx, func(ctx context.Context) error {
		streak, err := i.svc.Load(ctx, domain.UserFromPtr(input.UserID))
		if err != nil {
			return apperrors.Internal("load streak", err)
		}
		streak.Timezone = loc.String()
		cal := i.svc.CalendarIn(loc)
		if err := i.rebuild(ctx, &streak, cal, "timezone"); err != nil {
			return err
		}
		out, err = i.output(ctx, streak, cal)
		return err
	})
	return out, err
}

func (i *Interactor) load(ctx context.Context, user domain.UserID) (domain.Streak, clock.Calendar, error) {
	streak, err := i.svc.Load(ctx, user)
	if err != nil {
		return domain.Streak{}, clock.Calendar{}, apperrors.Internal("load streak", err)
	}
	cal, err := i.svc.Calendar(streak)
	if err != nil {
		return domain.Streak{}, clock.Calendar{}, err
	}
	return streak, cal, nil
}

func (i *Interactor) rebuild(ctx context.Context, streak *domain.Streak, cal clock.Calendar, reason string) error {
	activity, err := i.activity.AllActivity(ctx)
	if err != nil {
		return apperrors.Internal("read activity", err)
	}
	summary := domain.Compute(domain.BucketByDay(activity, cal.Location()), streak.DailyThreshold, cal.Today())
	streak.Apply(summary, i.svc.Now())
	if err := i.svc.Save(ctx, *streak); err != nil {
		return apperrors.Internal("save streak", err)
	}
	if reason == "" {
		reason = "manual"
	}
	i.metrics.RecordStreakRebuild(reason)
	i.logger.InfoContext(ctx, "streak rebuilt",
		"user", streak.User.String(),
		"reason", reason,
		"current", streak.CurrentStreak,
		"longest", streak.LongestStreak,
		"days_active", streak.TotalDaysActive,
	)
	return nil
}

func (i *Interactor) pagesOn(ctx context.Context, cal clock.Calendar, day string) (int, error) {
	start, err := cal.StartOfDay(day)
	if err != nil {
		return 0, err
	}
	next, err := clock.AddDays(day, 1)
	if err != nil {
		return 0, err
	}
	end, err := cal.StartOfDay(next)
	if err != nil {
		return 0, err
	}
	pages, err := i.activity.PagesReadBetween(ctx, start, end)
	if err != nil {
		return 0, apperrors.Internal("sum pages", err)
	}
	return pages, nil
}

func (i *Interactor) output(ctx context.Context, streak domain.Streak, cal clock.Calendar) (dto.StreakOutput, error) {
	today := cal.Today()
	pages, err := i.pagesOn(ctx, cal, today)
	if err != nil {
		return dto.StreakOutput{}, err
	}
	return dto.StreakOutput{
		UserID:           streak.User.Key(),
		CurrentStreak:    streak.CurrentStreak,
		LongestStreak:    streak.LongestStreak,
		LastActivityDate: streak.LastActivityDate,
		StreakStartDate:  streak.StreakStartDate,
		TotalDaysActive:  streak.TotalDaysActive,
		DailyThreshold:   streak.DailyThreshold,
		Timezone:         cal.Zone(),
		Today:            today,
		TodayPages:       pages,
		TodayMet:         domain.ThresholdMet(pages, streak.DailyThreshold),
		UpdatedAt:        streak.UpdatedAt,
	}, nil
}
