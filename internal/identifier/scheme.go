package identifier

import (
	"fmt"
	"time"
)

// Era selects the calendar year used in a prefix.
type Era string

const (
	EraGregorian Era = "gregorian"
	EraBuddhist  Era = "buddhist"
)

// Granularity selects how often the sequence restarts.
type Granularity string

const (
	GranularityMonth Granularity = "month"
	GranularityDay   Granularity = "day"
)

const _buddhistOffset = 543

// Scheme derives the period bucket prefix of an identifier: YYMM or YYMMDD.
type Scheme struct {
	Era         Era
	Granularity Granularity

	// Location is the clinic's local time zone. Nil means the time's own zone.
	Location *time.Location
}

func ParseScheme(era, granularity string, loc *time.Location) (Scheme, error) {
	s := Scheme{
		Era:         Era(era),
		Granularity: Granularity(granularity),
		Location:    loc,
	}

	switch s.Era {
	case EraGregorian, EraBuddhist:
	default:
		return Scheme{}, fmt.Errorf("identifier: unknown era %q", era)
	}

	switch s.Granularity {
	case GranularityMonth, GranularityDay:
	default:
		return Scheme{}, fmt.Errorf("identifier: unknown granularity %q", granularity)
	}

	return s, nil
}

func (s Scheme) Prefix(t time.Time) string {
	if s.Location != nil {
		t = t.In(s.Location)
	}

	year := t.Year()
	if s.Era == EraBuddhist {
		year += _buddhistOffset
	}

	prefix := fmt.Sprintf("%02d%02d", year%100, int(t.Month()))
	if s.Granularity == GranularityDay {
		prefix += fmt.Sprintf("%02d", t.Day())
	}

	return prefix
}

func (s Scheme) String() string {
	return string(s.Era) + "/" + string(s.Granularity)
}
