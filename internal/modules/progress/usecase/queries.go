package usecase

import (
	"context"
	"math"
	"strings"
	"time"

	"readlog/internal/modules/progress/domain"
	"readlog/internal/modules/progress/dto"
	progressin "readlog/internal/modules/progress/port/in"
	progressout "readlog/internal/modules/progress/port/out"
	"readlog/internal/platform/clock"
	apperrors "readlog/internal/platform/errors"
)

type QueryInteractor struct {
	clock clock.Clock
	store progressout.EntryStore
	zones progressout.ZoneResolver
}

func NewQueryInteractor(clk clock.Clock, store progressout.EntryStore, zones progressout.ZoneResolver) progressin.Queries {
	return newQueryInteractor(clk, store, zones)
}

func newQueryInteractor(clk clock.Clock, store progressout.EntryStore, zones progressout.ZoneResolver) *QueryInteractor {
	return &QueryInteractor{clock: clk, store: store, zones: zones}
}

func (q *QueryInteractor) GetEntry(ctx context.Context, entryID string) (dto.EntryOutput, error) {
	cal, err := q.calendar(ctx, "")
	if err != nil {
		return dto.EntryOutput{}, err
	}
	entry, err := q.store.Get(ctx, entryID)
	if err != nil {
		return dto.EntryOutput{}, apperrors.Internal("get entry", err)
	}
	return toOutput(entry, cal), nil
}

func (q *QueryInteractor) Latest(ctx context.Context, query dto.SessionQuery) (dto.EntryOutput, bool, error) {
	entries, err := q.ListForSession(ctx, query)
	if err != nil || len(entries) == 0 {
		return dto.EntryOutput{}, false, err
	}
	return entries[len(entries)-1], true, nil
}

func (q *QueryInteractor) ListForSession(ctx context.Context, query dto.SessionQuery) ([]dto.EntryOutput, error) {
	cal, err := q.calendar(ctx, query.Timezone)
	if err != nil {
		return nil, err
	}
	entries, err := q.store.ListForSession(ctx, query.SessionID)
	if err != nil {
		return nil, apperrors.Internal("list entries", err)
	}
	domain.Sort(entries)
	out := make([]dto.EntryOutput, 0, len(entries))
	for _, entry := range entries {
		out = append(out, toOutput(entry, cal))
	}
	return out, nil
}

func (q *QueryInteractor) TotalPagesReadInRange(ctx context.Context, input dto.RangeInput) (int, error) {
	cal, err := q.calendar(ctx, input.Timezone)
	if err != nil {
		return 0, err
	}
	days, err := clock.DaysBetween(input.Start, input.End)
	if err != nil {
		return 0, err
	}
	if days < 0 {
		return 0, apperrors.Validation(apperrors.CodeInvalidDate, "end", "%s is before %s", input.End, input.Start)
	}
	return q.sumDays(ctx, cal, input.Start, input.End)
}

// AveragePagesPerDay spreads pages read since a day over every calendar
// day up to and including today, idle days included.
func (q *QueryInteractor) AveragePagesPerDay(ctx context.Context, input dto.AverageInput) (dto.AverageOutput, error) {
	cal, err := q.calendar(ctx, input.Timezone)
	if err != nil {
		return dto.AverageOutput{}, err
	}
	today := cal.Today()
	days, err := clock.DaysBetween(input.Since, today)
	if err != nil {
		return dto.AverageOutput{}, err
	}
	if days < 0 {
		return dto.AverageOutput{}, apperrors.Validation(apperrors.CodeInvalidDate, "since", "%s is in the future", input.Since)
	}
	pages, err := q.sumDays(ctx, cal, input.Since, today)
	if err != nil {
		return dto.AverageOutput{}, err
	}
	span := days + 1
	return dto.AverageOutput{
		Since:         input.Since,
		Until:         today,
		Days:          span,
		PagesRead:     pages,
		AveragePerDay: math.Round(float64(pages)/float64(span)*100) / 100,
	}, nil
}

func (q *QueryInteractor) PagesReadBetween(ctx context.Context, start, end time.Time) (int, error) {
	pages, err := q.store.SumPagesRead(ctx, start, end)
	return pages, apperrors.Internal("sum pages", err)
}

func (q *QueryInteractor) AllActivity(ctx context.Context) ([]dto.ActivityOutput, error) {
	entries, err := q.store.ListAll(ctx)
	if err != nil {
		return nil, apperrors.Internal("list activity", err)
	}
	out := make([]dto.ActivityOutput, 0, len(entries))
	for _, entry := range entries {
		out = append(out, dto.ActivityOutput{At: entry.ProgressDate, PagesRead: entry.PagesRead})
	}
	return out, nil
}

func (q *QueryInteractor) sumDays(ctx context.Context, cal clock.Calendar, first, last string) (int, error) {
	start, err := cal.StartOfDay(first)
	if err != nil {
		return 0, err
	}
	after, err := clock.AddDays(last, 1)
	if err != nil {
		return 0, err
	}
	end, err := cal.StartOfDay(after)
	if err != nil {
		return 0, err
	}
	return q.PagesReadBetween(ctx, start, end)
}

// calendar resolves the zone once for the current operation.
func (q *QueryInteractor) calendar(ctx context.Context, zone string) (clock.Calendar, error) {
	zone = strings.TrimSpace(zone)
	if zone == "" {
		resolved, err := q.zones.ResolveTimezone(ctx)
		if err != nil {
			return clock.Calendar{}, err
		}
		zone = resolved
	}
	loc, err := clock.LoadZone(zone)
	if err != nil {
		return clock.Calendar{}, err
	}
	return clock.NewCalendar(q.clock, loc), nil
}

func toOutput(entry domain.Entry, cal clock.Calendar) dto.EntryOutput {
	return dto.EntryOutput{
		ID:                entry.ID,
		BookID:            entry.BookID,
		SessionID:         entry.SessionID,
		CurrentPage:       entry.CurrentPage,
		CurrentPercentage: entry.CurrentPercentage,
		ProgressDate:      cal.DateOf(entry.ProgressDate),
		Notes:             entry.Notes,
		PagesRead:         entry.PagesRead,
		CreatedAt:         entry.CreatedAt,
	}
}
