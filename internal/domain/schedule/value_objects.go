package schedule

import (
	"ops-console/internal/pkg/errs"
)

var (
	ErrUnknownKey       = errs.New("unknown schedule key")
	ErrInvalidDayOfWeek = errs.New("day_of_week must be one of MON..SUN")
	ErrInvalidHour      = errs.New("hour must be in [0, 23]")
	ErrInvalidMinute    = errs.New("minute must be in [0, 59]")
)

// Key は定時ジョブの業務キー。固定集合で、この画面からは増減しない。
type Key string

const (
	KeyPriceReset      Key = "price_reset"
	KeyProductFullSync Key = "product_full_sync"
)

func NewKey(s string) (Key, error) {
	switch Key(s) {
	case KeyPriceReset, KeyProductFullSync:
		return Key(s), nil
	default:
		return "", ErrUnknownKey
	}
}

func (k Key) String() string { return string(k) }

func (k Key) Label() string {
	switch k {
	case KeyPriceReset:
		return "Price reset"
	case KeyProductFullSync:
		return "Product full sync"
	default:
		return string(k)
	}
}

type DayOfWeek string

const (
	Monday    DayOfWeek = "MON"
	Tuesday   DayOfWeek = "TUE"
	Wednesday DayOfWeek = "WED"
	Thursday  DayOfWeek = "THU"
	Friday    DayOfWeek = "FRI"
	Saturday  DayOfWeek = "SAT"
	Sunday    DayOfWeek = "SUN"
)

func NewDayOfWeek(s string) (DayOfWeek, error) {
	switch DayOfWeek(s) {
	case Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday:
		return DayOfWeek(s), nil
	default:
		return "", ErrInvalidDayOfWeek
	}
}

func (d DayOfWeek) String() string { return string(d) }

// TimeOfDay is the wall-clock trigger time in the schedule's timezone.
type TimeOfDay struct {
	hour   int
	minute int
}

func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 {
		return TimeOfDay{}, ErrInvalidHour
	}
	if minute < 0 || minute > 59 {
		return TimeOfDay{}, ErrInvalidMinute
	}
	return TimeOfDay{hour: hour, minute: minute}, nil
}

func (t TimeOfDay) Hour() int   { return t.hour }
func (t TimeOfDay) Minute() int { return t.minute }
