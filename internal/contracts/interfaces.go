package contracts

import (
	"context"
	"time"
)

// RawPoint is one close observation as reported by a provider, before
// grid alignment
type RawPoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// RawSeries is an unaligned provider time series
type RawSeries struct {
	Symbol   string     `json:"symbol"`
	Currency string     `json:"currency"`
	Points   []RawPoint `json:"points"`
}

// RawProfile is the unnormalized company profile document
type RawProfile struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Industry      string   `json:"industry"`
	Website       string   `json:"website"`
	EmployeeCount *int     `json:"employee_count"`
	Specialties   []string `json:"specialties"`
}

// RawFundingRound is one unnormalized financing event
type RawFundingRound struct {
	Date      time.Time `json:"date"`
	Amount    float64   `json:"amount"`
	Investors []string  `json:"investors"`
}

// RawRecord is the opaque product of one source fetch. Exactly one of
// the payload fields is set, depending on the source.
type RawRecord struct {
	Source  string            `json:"source"`
	Series  *RawSeries        `json:"series,omitempty"`
	Profile *RawProfile       `json:"profile,omitempty"`
	Funding []RawFundingRound `json:"funding,omitempty"`
}

// SourceClient fetches one raw data product for a window
// ⭐ SSOT: 외부 소스 조회 인터페이스는 여기서만 정의
//
// Fetch returns ErrNotFound when the ticker has no data at the source,
// or ErrSourceUnavailable (wrapped) after transient failures exhaust
// their retries. Implementations are stateless and safe for concurrent
// use across runs.
type SourceClient interface {
	Name() string
	Fetch(ctx context.Context, window AnalysisWindow) (*RawRecord, error)
}

// ReportGenerator renders the narrative markdown for a snapshot.
// External collaborator: the core only hands over the payload.
type ReportGenerator interface {
	Generate(ctx context.Context, snapshot *Snapshot) (string, error)
}

// SnapshotStore persists assembled snapshots and their reports.
// External collaborator: write failures never alter a snapshot.
// GetLatestSnapshot returns nil without error when nothing is stored
// for the ticker and window length.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, snapshot *Snapshot) error
	SaveReport(ctx context.Context, runID string, markdown string) error
	GetLatestSnapshot(ctx context.Context, ticker string, days int) (*Snapshot, error)
}
