package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type DisruptionType string

const (
	DisruptionDelay        DisruptionType = "DELAY"
	DisruptionCancellation DisruptionType = "CANCELLATION"
	DisruptionGateChange   DisruptionType = "GATE_CHANGE"
)

type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

func (s Severity) Valid() bool {
	return s.Rank() > 0
}

func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	}
	return 0
}

// Worsens reports whether s is strictly more severe than other.
func (s Severity) Worsens(other Severity) bool {
	return s.Rank() > other.Rank()
}

type Alert struct {
	ID                  string         `json:"alert_id"`
	FlightNumber        string         `json:"flight_number"`
	ScheduledDate       string         `json:"scheduled_date"`
	Type                DisruptionType `json:"disruption_type"`
	Severity            Severity       `json:"severity"`
	Message             string         `json:"message"`
	AffectedCustomerIDs []string       `json:"affected_customer_ids"`
	DedupKey            string         `json:"dedup_key"`
	StateVersion        int64          `json:"state_version"`
	CreatedAt           time.Time      `json:"created_at"`
	Resolved            bool           `json:"resolved"`
	ResolvedAt          *time.Time     `json:"resolved_at,omitempty"`
}

func NewAlert(
	flightNumber string,
	scheduledDate string,
	disruptionType DisruptionType,
	severity Severity,
	message string,
	affectedCustomerIDs []string,
	stateVersion int64,
) Alert {
	return Alert{
		ID:                  uuid.NewString(),
		FlightNumber:        flightNumber,
		ScheduledDate:       scheduledDate,
		Type:                disruptionType,
		Severity:            severity,
		Message:             message,
		AffectedCustomerIDs: affectedCustomerIDs,
		DedupKey:            AlertDedupKey(flightNumber, scheduledDate, disruptionType, stateVersion),
		StateVersion:        stateVersion,
		CreatedAt:           time.Now().UTC(),
	}
}

// AlertDedupKey is the identity under which repeated disruption signals
// collapse into one active alert. The state version at classification time is
// the escalation bucket: an idempotent replay never bumps the version, so it
// can never mint a new key.
func AlertDedupKey(flightNumber, scheduledDate string, disruptionType DisruptionType, stateVersion int64) string {
	return fmt.Sprintf("%s/%s/%s/v%d", flightNumber, scheduledDate, disruptionType, stateVersion)
}

// AlertFilter narrows List queries; nil fields match everything.
type AlertFilter struct {
	Severity *Severity
	Resolved *bool
}
