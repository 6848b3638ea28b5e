package out

import (
	"context"

	sessionout "readlog/internal/modules/session/port/out"
	streakdto "readlog/internal/modules/streak/dto"
	streakin "readlog/internal/modules/streak/port/in"
)

type StreakZoneAdapter struct {
	streak streakin.Queries
}

func NewStreakZoneAdapter(streak streakin.Queries) sessionout.ZoneResolver {
	return &StreakZoneAdapter{streak: streak}
}

func (a *StreakZoneAdapter) ResolveTimezone(ctx context.Context) (string, error) {
	return a.streak.ResolveTimezone(ctx, streakdto.UserInput{})
}

type StreakRebuildAdapter struct {
	streak streakin.Usecase
}

func NewStreakRebuildAdapter(streak streakin.Usecase) sessionout.StreakRebuilder {
	return &StreakRebuildAdapter{streak: streak}
}

func (a *StreakRebuildAdapter) Rebuild(ctx context.Context, reason string) error {
	_, err := a.streak.Rebuild(ctx, streakdto.RebuildInput{Reason: reason})
	return err
}
