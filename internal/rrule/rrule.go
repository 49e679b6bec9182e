// Package rrule wraps teambition/rrule-go for reminder recurrence. Task
// recurrence uses a plain day interval instead (see internal/calendar);
// IntervalDays bridges the two when an RRULE reduces to one.
package rrule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

// ParseRRule parses an RFC 5545 RRULE string anchored at dtstart.
func ParseRRule(ruleStr string, dtstart time.Time) (*rrule.RRule, error) {
	ruleStr = strings.TrimPrefix(ruleStr, "RRULE:")

	opt, err := rrule.StrToROption(ruleStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse RRULE: %w", err)
	}

	// Timestamps are stored without timezone and read back as UTC; the
	// clock values are local time, so rebuild the anchor in local time.
	opt.Dtstart = time.Date(
		dtstart.Year(), dtstart.Month(), dtstart.Day(),
		dtstart.Hour(), dtstart.Minute(), dtstart.Second(), dtstart.Nanosecond(),
		time.Local,
	)
	return rrule.NewRRule(*opt)
}

// NextOccurrence returns the next occurrence at or after the given time,
// or nil when the rule is exhausted.
func NextOccurrence(ruleStr string, dtstart time.Time, after time.Time) (*time.Time, error) {
	rule, err := ParseRRule(ruleStr, dtstart)
	if err != nil {
		return nil, err
	}

	next := rule.After(after, false)
	if next.IsZero() {
		return nil, nil
	}
	return &next, nil
}

// NextOccurrenceStrict returns the next occurrence strictly after the given
// time, skipping the current one.
func NextOccurrenceStrict(ruleStr string, dtstart time.Time, after time.Time) (*time.Time, error) {
	rule, err := ParseRRule(ruleStr, dtstart)
	if err != nil {
		return nil, err
	}

	afterLocal := after.In(time.Local)
	current := afterLocal
	for i := 0; i < 1000; i++ { // safety limit
		next := rule.After(current, false)
		if next.IsZero() {
			return nil, nil
		}
		if next.After(afterLocal) {
			return &next, nil
		}
		current = next.Add(time.Second)
	}

	return nil, nil
}

// IsRecurring checks if the string is a usable recurrence rule.
func IsRecurring(ruleStr string) bool {
	return ruleStr != "" && strings.Contains(strings.ToUpper(ruleStr), "FREQ=")
}

// HumanReadable renders the rule as text, falling back to the raw string.
func HumanReadable(ruleStr string, dtstart time.Time) string {
	rule, err := ParseRRule(ruleStr, dtstart)
	if err != nil {
		return ruleStr
	}
	return rule.String()
}

// IntervalDays extracts a plain day interval from rules of the shape
// FREQ=DAILY;INTERVAL=N (or FREQ=WEEKLY without BYDAY, which is 7*N days).
// Returns 0 when the rule doesn't reduce to a fixed day interval.
func IntervalDays(ruleStr string) int {
	ruleStr = strings.TrimPrefix(strings.ToUpper(ruleStr), "RRULE:")

	parts := make(map[string]string)
	for _, p := range strings.Split(ruleStr, ";") {
		kv := strings.SplitN(p, "=", 2)
		if len(kv) == 2 {
			parts[kv[0]] = kv[1]
		}
	}

	interval := 1
	if raw, ok := parts["INTERVAL"]; ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return 0
		}
		interval = n
	}

	switch parts["FREQ"] {
	case "DAILY":
		return interval
	case "WEEKLY":
		if parts["BYDAY"] != "" {
			return 0
		}
		return 7 * interval
	default:
		return 0
	}
}
