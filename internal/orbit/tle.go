package orbit

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"
)

// TLE is an artificial satellite described by a two-line element set. It is
// propagated with SGP4 and yields ECI positions in kilometres relative to
// Earth's centre.
type TLE struct {
	Line1, Line2 string
	Epoch        time.Time
	RevsPerDay   float64 // mean motion from line 2

	sat satellite.Satellite
}

// ParseTLE validates the element lines before handing them to go-satellite,
// which aborts the process on malformed input.
func ParseTLE(line1, line2 string) (*TLE, error) {
	line1 = strings.TrimSpace(line1)
	line2 = strings.TrimSpace(line2)

	if len(line1) != 69 || len(line2) != 69 {
		return nil, fmt.Errorf("%w: line lengths %d and %d, expected 69", ErrInvalidTLE, len(line1), len(line2))
	}
	if line1[0] != '1' || line2[0] != '2' {
		return nil, fmt.Errorf("%w: lines must start with '1' and '2'", ErrInvalidTLE)
	}

	epoch, err := parseTLEEpoch(line1[18:32])
	if err != nil {
		return nil, err
	}
	revs, err := strconv.ParseFloat(strings.TrimSpace(line2[52:63]), 64)
	if err != nil || revs <= 0 {
		return nil, fmt.Errorf("%w: mean motion %q", ErrInvalidTLE, line2[52:63])
	}

	sat := satellite.TLEToSat(line1, line2, satellite.GravityWGS72)
	if sat.Error != 0 {
		return nil, fmt.Errorf("%w: sgp4 init code=%d %s", ErrInvalidTLE, sat.Error, sat.ErrorStr)
	}
	return &TLE{Line1: line1, Line2: line2, Epoch: epoch, RevsPerDay: revs, sat: sat}, nil
}

// Period is one revolution at the element set's mean motion.
func (t *TLE) Period() time.Duration {
	return secondsToDuration(86400 / t.RevsPerDay)
}

// parseTLEEpoch decodes the YYDDD.DDDDDDDD epoch field. Two-digit years
// below 57 are in the 2000s.
func parseTLEEpoch(field string) (time.Time, error) {
	field = strings.TrimSpace(field)
	if len(field) < 5 {
		return time.Time{}, fmt.Errorf("%w: epoch %q", ErrInvalidTLE, field)
	}
	yy, err := strconv.Atoi(field[:2])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: epoch year %q", ErrInvalidTLE, field[:2])
	}
	days, err := strconv.ParseFloat(field[2:], 64)
	if err != nil || days < 1 {
		return time.Time{}, fmt.Errorf("%w: epoch day %q", ErrInvalidTLE, field[2:])
	}
	year := 1900 + yy
	if yy < 57 {
		year = 2000 + yy
	}
	whole, frac := math.Modf(days)
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return start.AddDate(0, 0, int(whole)-1).Add(time.Duration(frac * 24 * float64(time.Hour))), nil
}

// EvaluateTLE propagates the satellite to t, truncated to whole seconds.
func EvaluateTLE(tle *TLE, t time.Time) (Vec3, error) {
	if tle == nil {
		return Vec3{}, ErrInvalidTLE
	}
	t = t.UTC()
	pos, _ := satellite.Propagate(tle.sat, t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())

	v := Vec3{X: pos.X, Y: pos.Y, Z: pos.Z}
	if !v.IsFinite() {
		return Vec3{}, fmt.Errorf("%w: non-finite position at %s", ErrPropagation, t.Format(time.RFC3339))
	}
	return v, nil
}
