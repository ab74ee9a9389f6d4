// Package disruption classifies accepted flight-state transitions into
// customer-facing disruptions. Classification is deterministic and rule-based
// on purpose; there is no prediction here.
package disruption

import (
	"fmt"

	"flightops/entity"
)

// Config holds the delay thresholds in minutes. A delay above Medium raises a
// MEDIUM alert, above High a HIGH one.
type Config struct {
	MediumDelayMinutes int
	HighDelayMinutes   int
}

func DefaultConfig() Config {
	return Config{
		MediumDelayMinutes: 45,
		HighDelayMinutes:   120,
	}
}

// Verdict is the outcome of classifying one transition.
type Verdict struct {
	Type     entity.DisruptionType
	Severity entity.Severity
	Message  string
}

type Classifier struct {
	cfg Config
}

func NewClassifier(cfg Config) Classifier {
	return Classifier{cfg: cfg}
}

// Classify evaluates the decision table against an accepted mutation from
// previous to next. The second return is false when the transition warrants
// no alert.
//
//	CANCELLED                          -> CANCELLATION / CRITICAL
//	delay > high threshold             -> DELAY / HIGH
//	medium < delay <= high threshold   -> DELAY / MEDIUM
//	gate or terminal changed, no delay -> GATE_CHANGE / LOW
func (c Classifier) Classify(previous, next entity.FlightState) (Verdict, bool) {
	if next.Status == entity.FlightStatusCancelled {
		return Verdict{
			Type:     entity.DisruptionCancellation,
			Severity: entity.SeverityCritical,
			Message:  fmt.Sprintf("Flight %s on %s has been cancelled", next.FlightNumber, next.ScheduledDate),
		}, true
	}

	if next.DelayMinutes > c.cfg.HighDelayMinutes {
		return Verdict{
			Type:     entity.DisruptionDelay,
			Severity: entity.SeverityHigh,
			Message:  fmt.Sprintf("Flight %s on %s is delayed by %d minutes", next.FlightNumber, next.ScheduledDate, next.DelayMinutes),
		}, true
	}

	if next.DelayMinutes > c.cfg.MediumDelayMinutes {
		return Verdict{
			Type:     entity.DisruptionDelay,
			Severity: entity.SeverityMedium,
			Message:  fmt.Sprintf("Flight %s on %s is delayed by %d minutes", next.FlightNumber, next.ScheduledDate, next.DelayMinutes),
		}, true
	}

	if gateChanged(previous, next) {
		return Verdict{
			Type:     entity.DisruptionGateChange,
			Severity: entity.SeverityLow,
			Message:  fmt.Sprintf("Gate change for flight %s on %s: gate %s, terminal %s", next.FlightNumber, next.ScheduledDate, next.Gate, next.Terminal),
		}, true
	}

	return Verdict{}, false
}

func gateChanged(previous, next entity.FlightState) bool {
	if previous.Gate == "" && previous.Terminal == "" {
		// First gate assignment for a flight we had no gate for is not a
		// disruption.
		return false
	}
	return previous.Gate != next.Gate || previous.Terminal != next.Terminal
}
