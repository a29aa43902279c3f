package strftime

import "time"

// YearPolicy decides the year of timestamps parsed without one.
//
// Override wins when non-zero. Otherwise a Soft policy substitutes the
// current calendar year, read from Now on every call. With neither, Resolve
// fails with ErrMissingYear.
type YearPolicy struct {
	Override int
	Soft     bool
	Now      func() time.Time
}

// Resolve applies the policy to ts and returns the resulting instant.
func (p YearPolicy) Resolve(ts Timestamp) (time.Time, error) {
	if ts.HasYear() {
		return ts.Time()
	}

	switch {
	case p.Override != 0:
		return ts.WithYear(p.Override).Time()
	case p.Soft:
		now := time.Now
		if p.Now != nil {
			now = p.Now
		}
		return ts.WithYear(now().Year()).Time()
	}

	return time.Time{}, ErrMissingYear
}
