package out

import (
	"context"

	bookout "readlog/internal/modules/book/port/out"
	streakdto "readlog/internal/modules/streak/dto"
	streakin "readlog/internal/modules/streak/port/in"
)

type StreakRebuildAdapter struct {
	streak streakin.Usecase
}

func NewStreakRebuildAdapter(streak streakin.Usecase) bookout.StreakRebuilder {
	return &StreakRebuildAdapter{streak: streak}
}

func (a *StreakRebuildAdapter) Rebuild(ctx context.Context, reason string) error {
	_, err := a.streak.Rebuild(ctx, streakdto.RebuildInput{Reason: reason})
	return err
}
