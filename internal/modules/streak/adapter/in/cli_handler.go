package in

import (
	"context"

	"readlog/internal/modules/streak/dto"
	streakin "readlog/internal/modules/streak/port/in"
)

type CLIHandler struct {
	usecase streakin.Usecase
}

func NewCLIHandler(usecase streakin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Show(ctx context.Context) (dto.StreakOutput, error) {
	return h.usecase.GetStreak(ctx, dto.UserInput{})
}

func (h CLIHandler) Rebuild(ctx context.Context) (dto.StreakOutput, error) {
	return h.usecase.Rebuild(ctx, dto.RebuildInput{Reason: "manual"})
}

func (h CLIHandler) SetThreshold(ctx context.Context, raw string) (dto.StreakOutput, error) {
	return h.usecase.UpdateThreshold(ctx, dto.ThresholdInput{Value: raw})
}

func (h CLIHandler) SetTimezone(ctx context.Context, zone string) (dto.StreakOutput, error) {
	return h.usecase.SetTimezone(ctx, dto.TimezoneInput{Timezone: zone})
}
