package model

import "fmt"

type PredictionKind string

const (
	PredictionNoPattern PredictionKind = "no_pattern"
	PredictionImminent  PredictionKind = "imminent_within_hour"
	PredictionPeriodic  PredictionKind = "periodic_every_hours"
)

// DumpPrediction 抛售周期预测，Hours 仅在 PredictionPeriodic 时有意义
type DumpPrediction struct {
	Kind  PredictionKind `json:"kind"`
	Hours float64        `json:"hours,omitempty"`
}

func NoPattern() DumpPrediction {
	return DumpPrediction{Kind: PredictionNoPattern}
}

func ImminentWithinHour() DumpPrediction {
	return DumpPrediction{Kind: PredictionImminent}
}

func PeriodicEveryHours(hours float64) DumpPrediction {
	return DumpPrediction{Kind: PredictionPeriodic, Hours: hours}
}

func (p DumpPrediction) IsNoPattern() bool {
	return p.Kind == PredictionNoPattern || p.Kind == ""
}

func (p DumpPrediction) String() string {
	switch p.Kind {
	case PredictionImminent:
		return "Dump Imminent: large transfers are landing less than 30 minutes apart, next one likely within the hour."
	case PredictionPeriodic:
		return fmt.Sprintf("Dump Pattern: large transfers repeat roughly every %.1f hours.", p.Hours)
	default:
		return "No pattern detected yet."
	}
}
