package bootstrap

import (
	"time"

	"visitdesk/internal/domain/schedule"
	"visitdesk/internal/pkg/config"
	"visitdesk/internal/pkg/errs"
)

func NewConfig() (config.Config, error) {
	return config.LoadConfig()
}

// NewScheduleRules resolves the configured timezone once at startup so a
// bad TZ name fails the boot instead of the first request.
func NewScheduleRules(cfg config.Config) (schedule.Rules, error) {
	loc, err := time.LoadLocation(cfg.Schedule.Timezone)
	if err != nil {
		return schedule.Rules{}, errs.Wrap(err, "invalid schedule timezone")
	}

	rules := schedule.Rules{
		OpenHour:      cfg.Schedule.OpenHour,
		CloseHour:     cfg.Schedule.CloseHour,
		SlotDuration:  cfg.Schedule.SlotDuration,
		ClosedWeekday: time.Weekday(cfg.Schedule.ClosedWeekday),
		MinLeadTime:   cfg.Schedule.MinLeadTime,
		HorizonDays:   cfg.Schedule.HorizonDays,
		Location:      loc,
	}
	if err := rules.Validate(); err != nil {
		return schedule.Rules{}, err
	}
	return rules, nil
}
