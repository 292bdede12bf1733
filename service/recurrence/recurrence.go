// Package recurrence validates and evaluates the cadence expressions carried
// by RECURRING tasks. Expressions use the standard five-field cron syntax
// plus the @every/@daily style descriptors.
package recurrence

import (
	"fmt"
	"time"

	rcron "github.com/robfig/cron/v3"
)

var parser = rcron.NewParser(
	rcron.Minute | rcron.Hour | rcron.Dom | rcron.Month | rcron.Dow | rcron.Descriptor,
)

// Validate checks that expr is a parseable cadence.
func Validate(expr string) error {
	if expr == "" {
		return fmt.Errorf("recurrence expression is empty")
	}
	if _, err := parser.Parse(expr); err != nil {
		return fmt.Errorf("invalid recurrence %q: %w", expr, err)
	}
	return nil
}

// Next returns the first occurrence of the cadence strictly after from.
func Next(expr string, from time.Time) (time.Time, error) {
	schedule, err := parser.Parse(expr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid recurrence %q: %w", expr, err)
	}
	return schedule.Next(from), nil
}
