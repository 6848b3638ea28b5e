package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"readlog/internal/modules/progress/domain"
	"readlog/internal/modules/progress/dto"
	progressin "readlog/internal/modules/progress/port/in"
	progressout "readlog/internal/modules/progress/port/out"
	"readlog/internal/modules/progress/service"
	"readlog/internal/modules/progress/usecase"
	"readlog/internal/platform/clock"
	apperrors "readlog/internal/platform/errors"
	"readlog/internal/platform/logger"
	"readlog/internal/platform/signal"
	"readlog/internal/platform/tx"
)

type memEntries struct {
	rows map[string]domain.Entry
}

func (m *memEntries) Insert(_ context.Context, e domain.Entry) error {
	m.rows[e.ID] = e
	return nil
}

func (m *memEntries) Update(_ context.Context, e domain.Entry) error {
	if _, ok := m.rows[e.ID]; !ok {
		return apperrors.NotFound("progress entry", e.ID)
	}
	m.rows[e.ID] = e
	return nil
}

func (m *memEntries) Delete(_ context.Context, id string) error {
	if _, ok := m.rows[id]; !ok {
		return apperrors.NotFound("progress entry", id)
	}
	delete(m.rows, id)
	return nil
}

func (m *memEntries) Get(_ context.Context, id string) (domain.Entry, error) {
	e, ok := m.rows[id]
	if !ok {
		return domain.Entry{}, apperrors.NotFound("progress entry", id)
	}
	return e, nil
}

func (m *memEntries) ListForSession(_ context.Context, sessionID string) ([]domain.Entry, error) {
	out := []domain.Entry{}
	for _, e := range m.rows {
		if e.SessionID == sessionID {
			out = append(out, e)
		}
	}
	domain.Sort(out)
	return out, nil
}

func (m *memEntries) SumPagesRead(_ context.Context, start, end time.Time) (int, error) {
	total := 0
	for _, e := range m.rows {
		if !e.ProgressDate.Before(start) && e.ProgressDate.Before(end) {
			total += e.PagesRead
		}
	}
	return total, nil
}

func (m *memEntries) ListAll(_ context.Context) ([]domain.Entry, error) {
	out := []domain.Entry{}
	for _, e := range m.rows {
		out = append(out, e)
	}
	domain.Sort(out)
	return out, nil
}

type fakeSessions map[string]progressout.SessionRef

func (f fakeSessions) FindSession(_ context.Context, id string) (progressout.SessionRef, error) {
	s, ok := f[id]
	if !ok {
		return progressout.SessionRef{}, apperrors.NotFound("session", id)
	}
	return s, nil
}

type fakeBooks map[string]int

func (f fakeBooks) TotalPages(_ context.Context, id string) (int, error) {
	return f[id], nil
}

type fixedZone string

func (z fixedZone) ResolveTimezone(context.Context) (string, error) { return string(z), nil }

type recordingStreak struct {
	noted    []string
	rebuilds []string
}

func (r *recordingStreak) NoteActivity(_ context.Context, date string) error {
	r.noted = append(r.noted, date)
	return nil
}

func (r *recordingStreak) Rebuild(_ context.Context, reason string) error {
	r.rebuilds = append(r.rebuilds, reason)
	return nil
}

type seqID struct{ n int }

func (s *seqID) New() string {
	s.n++
	return "entry-" + string(rune('0'+s.n))
}

type fixture struct {
	uc      progressin.Usecase
	store   *memEntries
	streak  *recordingStreak
	signals *signal.Recorder
	clock   *movingClock
}

type movingClock struct{ now time.Time }

func (c *movingClock) Now() time.Time {
	c.now = c.now.Add(time.Minute)
	return c.now
}

func newFixture(t *testing.T, zone string, now time.Time) fixture {
	t.Helper()
	store := &memEntries{rows: map[string]domain.Entry{}}
	clk := &movingClock{now: now}
	streak := &recordingStreak{}
	signals := &signal.Recorder{}
	uc := usecase.NewInteractor(usecase.Deps{
		Clock:   clk,
		Service: service.NewLedgerService(clk, &seqID{}, store),
		Store:   store,
		Sessions: fakeSessions{
			"s-active":   {ID: "s-active", BookID: "b-300", Active: true},
			"s-unpaged":  {ID: "s-unpaged", BookID: "b-0", Active: true},
			"s-archived": {ID: "s-archived", BookID: "b-300", Active: false},
		},
		Books:   fakeBooks{"b-300": 300, "b-0": 0},
		Zones:   fixedZone(zone),
		Streak:  streak,
		Tx:      tx.NoopManager{},
		Signals: signals,
		Logger:  logger.Discard(),
	})
	return fixture{uc: uc, store: store, streak: streak, signals: signals, clock: clk}
}

func pagePtr(v int) *int        { return &v }
func pctPtr(v float64) *float64 { return &v }
func strPtr(v string) *string   { return &v }

func TestAppendComputesPagesReadFromPreviousDay(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "UTC", time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	d1, err := f.uc.Append(ctx, dto.AppendInput{SessionID: "s-active", CurrentPage: pagePtr(100), ProgressDate: "2026-03-01"})
	if err != nil {
		t.Fatalf("append d1: %v", err)
	}
	d2, err := f.uc.Append(ctx, dto.AppendInput{SessionID: "s-active", CurrentPage: pagePtr(150), ProgressDate: "2026-03-02"})
	if err != nil {
		t.Fatalf("append d2: %v", err)
	}
	if d1.PagesRead != 100 {
		t.Fatalf("first entry reads from page zero, got %d", d1.PagesRead)
	}
	if d2.PagesRead != 50 {
		t.Fatalf("expected D2 pagesRead 50, got %d", d2.PagesRead)
	}
	if d2.CurrentPercentage != 50 || d2.ProgressDate != "2026-03-02" || d2.BookID != "b-300" {
		t.Fatalf("unexpected entry %+v", d2)
	}
	if len(f.streak.noted) != 2 || f.streak.noted[1] != "2026-03-02" {
		t.Fatalf("streak must be notified with each entry date, got %v", f.streak.noted)
	}
	if !f.signals.Has(signal.ViewDashboard) || !f.signals.Has(signal.ViewBook) || !f.signals.Has(signal.ViewStats) {
		t.Fatalf("expected all views invalidated, got %+v", f.signals.Signals)
	}
}

func TestAppendDefaultsToTodayInReaderZone(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "America/Los_Angeles", time.Date(2026, 7, 4, 3, 30, 0, 0, time.UTC))

	out, err := f.uc.Append(context.Background(), dto.AppendInput{SessionID: "s-active", CurrentPercentage: pctPtr(10)})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if out.ProgressDate != "2026-07-03" {
		t.Fatalf("expected Los Angeles date, got %s", out.ProgressDate)
	}
	if out.CurrentPage != 30 {
		t.Fatalf("expected derived page 30, got %d", out.CurrentPage)
	}
	stored := f.store.rows[out.ID]
	la, _ := time.LoadLocation("America/Los_Angeles")
	want, _ := clock.StartOfDay("2026-07-03", la)
	if !stored.ProgressDate.Equal(want) {
		t.Fatalf("expected stored instant %s, got %s", want, stored.ProgressDate)
	}
}

func TestAppendRequiresPageCountForConversion(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "UTC", time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))

	_, err := f.uc.Append(context.Background(), dto.AppendInput{SessionID: "s-unpaged", CurrentPage: pagePtr(20)})
	if apperrors.CodeOf(err) != apperrors.CodePagesRequired {
		t.Fatalf("expected PAGES_REQUIRED, got %v", err)
	}
	if len(f.store.rows) != 0 {
		t.Fatalf("nothing may be written on validation failure")
	}

	out, err := f.uc.Append(context.Background(), dto.AppendInput{SessionID: "s-unpaged", CurrentPage: pagePtr(20), CurrentPercentage: pctPtr(12.5)})
	if err != nil {
		t.Fatalf("explicit page and percentage need no page count: %v", err)
	}
	if out.PagesRead != 20 {
		t.Fatalf("unexpected pages read %d", out.PagesRead)
	}
}

func TestArchivedSessionIsReadOnly(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "UTC", time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	f.store.rows["old"] = domain.Entry{ID: "old", SessionID: "s-archived", BookID: "b-300", CurrentPage: 80}

	_, err := f.uc.Append(context.Background(), dto.AppendInput{SessionID: "s-archived", CurrentPage: pagePtr(10)})
	if !errors.Is(err, apperrors.ErrPrecondition) || apperrors.CodeOf(err) != apperrors.CodeSessionArchived {
		t.Fatalf("expected archived session error, got %v", err)
	}
	if _, err := f.uc.Edit(context.Background(), dto.EditInput{EntryID: "old", CurrentPage: pagePtr(90)}); apperrors.CodeOf(err) != apperrors.CodeSessionArchived {
		t.Fatalf("edit on archived session must fail, got %v", err)
	}
	if err := f.uc.Delete(context.Background(), "old"); apperrors.CodeOf(err) != apperrors.CodeSessionArchived {
		t.Fatalf("delete on archived session must fail, got %v", err)
	}
	if _, ok := f.store.rows["old"]; !ok {
		t.Fatalf("archived entry must survive")
	}
}

func TestUnknownSessionIsNotFound(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "UTC", time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	_, err := f.uc.Append(context.Background(), dto.AppendInput{SessionID: "nope", CurrentPage: pagePtr(1)})
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAppendRejectsTemporalConflicts(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "UTC", time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()
	d1, err := f.uc.Append(ctx, dto.AppendInput{SessionID: "s-active", CurrentPage: pagePtr(100), ProgressDate: "2026-03-01"})
	if err != nil {
		t.Fatalf("append d1: %v", err)
	}
	d3, err := f.uc.Append(ctx, dto.AppendInput{SessionID: "s-active", CurrentPage: pagePtr(200), ProgressDate: "2026-03-03"})
	if err != nil {
		t.Fatalf("append d3: %v", err)
	}

	_, err = f.uc.Append(ctx, dto.AppendInput{SessionID: "s-active", CurrentPage: pagePtr(250), ProgressDate: "2026-03-02"})
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeTemporalConflict || appErr.Ref != d3.ID {
		t.Fatalf("expected conflict naming the later entry, got %v", err)
	}
	_, err = f.uc.Append(ctx, dto.AppendInput{SessionID: "s-active", CurrentPage: pagePtr(50), ProgressDate: "2026-03-02"})
	if !errors.As(err, &appErr) || appErr.Ref != d1.ID {
		t.Fatalf("expected conflict naming the earlier entry, got %v", err)
	}
	if len(f.store.rows) != 2 {
		t.Fatalf("rejected entries must not be stored")
	}

	mid, err := f.uc.Append(ctx, dto.AppendInput{SessionID: "s-active", CurrentPage: pagePtr(140), ProgressDate: "2026-03-02"})
	if err != nil {
		t.Fatalf("in-order backfill: %v", err)
	}
	if mid.PagesRead != 40 {
		t.Fatalf("backfilled entry reads from its predecessor, got %d", mid.PagesRead)
	}
	if f.store.rows[d3.ID].PagesRead != 100 {
		t.Fatalf("later entry keeps its stored delta")
	}
}

func TestEditRecomputesOnlyItself(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "UTC", time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()
	for i, page := range []int{100, 150, 200} {
		if _, err := f.uc.Append(ctx, dto.AppendInput{SessionID: "s-active", CurrentPage: pagePtr(page), ProgressDate: []string{"2026-03-01", "2026-03-02", "2026-03-03"}[i]}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	entries, err := f.uc.ListForSession(ctx, dto.SessionQuery{SessionID: "s-active"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	edited, err := f.uc.Edit(ctx, dto.EditInput{EntryID: entries[1].ID, CurrentPage: pagePtr(120), Notes: strPtr("  slow chapter ")})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if edited.PagesRead != 20 || edited.Notes != "slow chapter" || edited.CurrentPercentage != 40 {
		t.Fatalf("unexpected edited entry %+v", edited)
	}
	if got := f.store.rows[entries[2].ID].PagesRead; got != 50 {
		t.Fatalf("sibling must keep stored delta 50, got %d", got)
	}
	if len(f.streak.rebuilds) != 1 || f.streak.rebuilds[0] != "ledger-edit" {
		t.Fatalf("edit must rebuild the streak, got %v", f.streak.rebuilds)
	}

	_, err = f.uc.Edit(ctx, dto.EditInput{EntryID: entries[1].ID, ProgressDate: strPtr("2026-03-05")})
	if apperrors.CodeOf(err) != apperrors.CodeTemporalConflict {
		t.Fatalf("moving page 120 after page 200 must conflict, got %v", err)
	}
	if _, err := f.uc.Edit(ctx, dto.EditInput{EntryID: entries[1].ID, ProgressDate: strPtr("March 5")}); apperrors.CodeOf(err) != apperrors.CodeInvalidDate {
		t.Fatalf("expected invalid date, got %v", err)
	}
}

func TestDeleteLeavesNeighbours(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "UTC", time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()
	first, _ := f.uc.Append(ctx, dto.AppendInput{SessionID: "s-active", CurrentPage: pagePtr(100), ProgressDate: "2026-03-01"})
	second, _ := f.uc.Append(ctx, dto.AppendInput{SessionID: "s-active", CurrentPage: pagePtr(150), ProgressDate: "2026-03-02"})

	if err := f.uc.Delete(ctx, first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if f.store.rows[second.ID].PagesRead != 50 {
		t.Fatalf("neighbour delta is not recomputed on delete")
	}
	if err := f.uc.Delete(ctx, first.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("second delete must be not found, got %v", err)
	}
	latest, ok, err := f.uc.Latest(ctx, dto.SessionQuery{SessionID: "s-active"})
	if err != nil || !ok || latest.ID != second.ID {
		t.Fatalf("unexpected latest %+v ok=%v err=%v", latest, ok, err)
	}
}

func TestAggregatesUseRequestedZone(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "UTC", time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()
	for i, page := range []int{30, 60, 100} {
		date := []string{"2026-03-01", "2026-03-02", "2026-03-04"}[i]
		if _, err := f.uc.Append(ctx, dto.AppendInput{SessionID: "s-active", CurrentPage: pagePtr(page), ProgressDate: date}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	avg, err := f.uc.AveragePagesPerDay(ctx, dto.AverageInput{Since: "2026-03-01"})
	if err != nil {
		t.Fatalf("average: %v", err)
	}
	if avg.Days != 4 || avg.PagesRead != 100 || avg.AveragePerDay != 25 {
		t.Fatalf("unexpected average %+v", avg)
	}

	total, err := f.uc.TotalPagesReadInRange(ctx, dto.RangeInput{Start: "2026-03-02", End: "2026-03-04"})
	if err != nil || total != 70 {
		t.Fatalf("expected 70 pages in range, got %d (%v)", total, err)
	}
	// UTC midnights fall on the previous evening in New York.
	total, err = f.uc.TotalPagesReadInRange(ctx, dto.RangeInput{Start: "2026-03-01", End: "2026-03-01", Timezone: "America/New_York"})
	if err != nil || total != 30 {
		t.Fatalf("expected 30 pages on the New York day, got %d (%v)", total, err)
	}
	if _, err := f.uc.TotalPagesReadInRange(ctx, dto.RangeInput{Start: "2026-03-04", End: "2026-03-01"}); apperrors.CodeOf(err) != apperrors.CodeInvalidDate {
		t.Fatalf("reversed range must fail, got %v", err)
	}
	if _, err := f.uc.AveragePagesPerDay(ctx, dto.AverageInput{Since: "2026-03-01", Timezone: "Not/AZone"}); apperrors.CodeOf(err) != apperrors.CodeInvalidTimezone {
		t.Fatalf("invalid zone must fail, got %v", err)
	}
}

func TestAppendRejectsDateAfterToday(t *testing.T) {
	t.Parallel()
	// 2026-04-12 23:30 in Tokyo; 2026-04-13 is still tomorrow there.
	f := newFixture(t, "Asia/Tokyo", time.Date(2026, 4, 12, 14, 30, 0, 0, time.UTC))
	ctx := context.Background()

	_, err := f.uc.Append(ctx, dto.AppendInput{SessionID: "s-active", CurrentPage: pagePtr(10), ProgressDate: "2026-04-13"})
	if !errors.Is(err, apperrors.ErrInvalidInput) || apperrors.CodeOf(err) != apperrors.CodeInvalidDate {
		t.Fatalf("expected INVALID_DATE for a future day, got %v", err)
	}
	if len(f.store.rows) != 0 || len(f.streak.noted) != 0 {
		t.Fatalf("nothing may be written for a future day")
	}
	if _, err := f.uc.Append(ctx, dto.AppendInput{SessionID: "s-active", CurrentPage: pagePtr(10), ProgressDate: "2026-04-12"}); err != nil {
		t.Fatalf("today in the reader zone must be accepted: %v", err)
	}
}

func TestEditRejectsDateAfterToday(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "UTC", time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()
	entry, err := f.uc.Append(ctx, dto.AppendInput{SessionID: "s-active", CurrentPage: pagePtr(40), ProgressDate: "2026-03-09"})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	_, err = f.uc.Edit(ctx, dto.EditInput{EntryID: entry.ID, ProgressDate: strPtr("2026-05-30")})
	if apperrors.CodeOf(err) != apperrors.CodeInvalidDate {
		t.Fatalf("expected INVALID_DATE for a future day, got %v", err)
	}
	got, err := f.uc.GetEntry(ctx, entry.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ProgressDate != "2026-03-09" {
		t.Fatalf("entry must keep its date, got %s", got.ProgressDate)
	}
}
