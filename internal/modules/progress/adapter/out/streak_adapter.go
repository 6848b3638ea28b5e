package out

import (
	"context"

	progressout "readlog/internal/modules/progress/port/out"
	streakdto "readlog/internal/modules/streak/dto"
	streakin "readlog/internal/modules/streak/port/in"
)

// The ledger has no notion of users, so both adapters act for the default
// reader.

type StreakZoneAdapter struct {
	streak streakin.Queries
}

func NewStreakZoneAdapter(streak streakin.Queries) progressout.ZoneResolver {
	return &StreakZoneAdapter{streak: streak}
}

func (a *StreakZoneAdapter) ResolveTimezone(ctx context.Context) (string, error) {
	return a.streak.ResolveTimezone(ctx, streakdto.UserInput{})
}

type StreakNotifierAdapter struct {
	streak streakin.Usecase
}

func NewStreakNotifierAdapter(streak streakin.Usecase) progressout.StreakNotifier {
	return &StreakNotifierAdapter{streak: streak}
}

func (a *StreakNotifierAdapter) NoteActivity(ctx context.Context, date string) error {
	return a.streak.NoteActivity(ctx, streakdto.ActivityInput{Date: date})
}

func (a *StreakNotifierAdapter) Rebuild(ctx context.Context, reason string) error {
	_, err := a.streak.Rebuild(ctx, streakdto.RebuildInput{Reason: reason})
	return err
}
