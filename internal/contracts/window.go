package contracts

import (
	"fmt"
	"strings"
	"time"
)

// Window length bounds, in days
const (
	MinWindowDays = 1
	MaxWindowDays = 365
)

// AnalysisWindow is the immutable input of one snapshot run
// ⭐ SSOT: 분석 기간 검증은 생성자에서만
type AnalysisWindow struct {
	Ticker     string    `json:"ticker"`
	Start      time.Time `json:"start_date"`
	End        time.Time `json:"end_date"`
	LengthDays int       `json:"length_days"`
}

// NewAnalysisWindow builds a window ending at the given date and spanning
// lengthDays calendar days. The end date is truncated to midnight UTC so two
// runs on the same day share cache keys.
func NewAnalysisWindow(ticker string, lengthDays int, end time.Time) (AnalysisWindow, error) {
	ticker = strings.TrimSpace(ticker)
	if ticker == "" {
		return AnalysisWindow{}, fmt.Errorf("ticker must not be empty")
	}
	if lengthDays < MinWindowDays || lengthDays > MaxWindowDays {
		return AnalysisWindow{}, fmt.Errorf("window length must be in [%d,%d] days, got %d",
			MinWindowDays, MaxWindowDays, lengthDays)
	}

	endDate := end.UTC().Truncate(24 * time.Hour)
	return AnalysisWindow{
		Ticker:     strings.ToUpper(ticker),
		Start:      endDate.AddDate(0, 0, -lengthDays),
		End:        endDate,
		LengthDays: lengthDays,
	}, nil
}

// Contains reports whether the date falls inside the window. The window
// is half open, Start excluded and End included, so it admits exactly
// LengthDays calendar dates and a one day window holds a single date.
func (w AnalysisWindow) Contains(date time.Time) bool {
	d := date.UTC().Truncate(24 * time.Hour)
	return d.After(w.Start) && !d.After(w.End)
}

// String implements fmt.Stringer
func (w AnalysisWindow) String() string {
	return fmt.Sprintf("%s[%s..%s]", w.Ticker,
		w.Start.Format("2006-01-02"), w.End.Format("2006-01-02"))
}
