package trajectory

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/san-kum/orrery/internal/orbit"
)

// ReferenceEpoch is the zero of the trajectory service's time keys.
var ReferenceEpoch = time.Date(2010, time.January, 1, 0, 0, 0, 0, time.UTC)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// DateToSeconds converts "YYYY-MM-DD" or "YYYY-MM-DD HH:MM:SS" (UTC) to
// seconds from ReferenceEpoch.
func DateToSeconds(date string) (float64, error) {
	t, err := ParseDate(date)
	if err != nil {
		return 0, err
	}
	return orbit.SecondsSince(t, ReferenceEpoch), nil
}

// ParseDate accepts the two layouts of DateToSeconds.
func ParseDate(date string) (time.Time, error) {
	date = strings.TrimSpace(date)
	layout := dateLayout
	if strings.Contains(date, " ") {
		layout = dateTimeLayout
	}
	t, err := time.ParseInLocation(layout, date, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("trajectory: invalid date %q, use YYYY-MM-DD or YYYY-MM-DD HH:MM:SS: %w", date, err)
	}
	return t, nil
}

// SecondsToDate is the inverse of DateToSeconds, truncated to whole seconds.
func SecondsToDate(seconds float64) string {
	whole := math.Floor(seconds)
	return time.Unix(ReferenceEpoch.Unix()+int64(whole), 0).UTC().Format(dateTimeLayout)
}

// Between keeps the samples whose key lies in [start, end], both dates
// inclusive.
func Between(tbl orbit.Table, start, end string) (orbit.Table, error) {
	from, err := DateToSeconds(start)
	if err != nil {
		return nil, err
	}
	to, err := DateToSeconds(end)
	if err != nil {
		return nil, err
	}

	out := make(orbit.Table)
	for k, p := range tbl {
		if from <= k && k <= to {
			out[k] = p
		}
	}
	return out, nil
}
