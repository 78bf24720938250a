package schedule

import (
	"time"
)

// DefaultTimezone is the business timezone applied when a record carries none.
const DefaultTimezone = "Australia/Sydney"

// Schedule はジョブ1件の実行設定。key 毎に高々1レコード。
type Schedule struct {
	key         Key
	enabled     bool
	dayOfWeek   DayOfWeek
	timeOfDay   TimeOfDay
	every2Weeks bool
	timezone    string
	lastRunAt   *time.Time
	createdAt   time.Time
	updatedAt   *time.Time
}

func New(key Key, enabled bool, dow DayOfWeek, tod TimeOfDay, every2Weeks bool, timezone string) *Schedule {
	if timezone == "" {
		timezone = DefaultTimezone
	}
	return &Schedule{
		key:         key,
		enabled:     enabled,
		dayOfWeek:   dow,
		timeOfDay:   tod,
		every2Weeks: every2Weeks,
		timezone:    timezone,
	}
}

func Reconstruct(key Key, enabled bool, dow DayOfWeek, tod TimeOfDay, every2Weeks bool, timezone string, lastRunAt *time.Time, createdAt time.Time, updatedAt *time.Time) *Schedule {
	s := New(key, enabled, dow, tod, every2Weeks, timezone)
	s.lastRunAt = lastRunAt
	s.createdAt = createdAt
	s.updatedAt = updatedAt
	return s
}

func (s *Schedule) Key() Key              { return s.key }
func (s *Schedule) Enabled() bool         { return s.enabled }
func (s *Schedule) DayOfWeek() DayOfWeek  { return s.dayOfWeek }
func (s *Schedule) TimeOfDay() TimeOfDay  { return s.timeOfDay }
func (s *Schedule) Every2Weeks() bool     { return s.every2Weeks }
func (s *Schedule) Timezone() string      { return s.timezone }
func (s *Schedule) LastRunAt() *time.Time { return s.lastRunAt }
func (s *Schedule) CreatedAt() time.Time  { return s.createdAt }
func (s *Schedule) UpdatedAt() *time.Time { return s.updatedAt }

// Defaults は DB に行が無い key に対して返す組み込み既定値（書き込まない）。
func Defaults() []*Schedule {
	wed, _ := NewTimeOfDay(20, 0)
	thu, _ := NewTimeOfDay(8, 10)
	return []*Schedule{
		New(KeyPriceReset, false, Wednesday, wed, true, DefaultTimezone),
		New(KeyProductFullSync, false, Thursday, thu, true, DefaultTimezone),
	}
}
