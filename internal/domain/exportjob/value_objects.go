package exportjob

import (
	"ops-console/internal/pkg/errs"
)

var (
	ErrInvalidCountry = errs.New("country_type must be AU or NZ")
	ErrAlreadyApplied = errs.New("export job already applied")
)

// Country は Kogan テンプレートの出力先。国毎に独立したジョブ系列を持つ。
type Country string

const (
	CountryAU Country = "AU"
	CountryNZ Country = "NZ"
)

func NewCountry(s string) (Country, error) {
	switch Country(s) {
	case CountryAU, CountryNZ:
		return Country(s), nil
	default:
		return "", ErrInvalidCountry
	}
}

func (c Country) String() string { return string(c) }

type Status string

const (
	StatusExported Status = "exported"
	StatusApplied  Status = "applied"
)

func (s Status) String() string { return string(s) }
