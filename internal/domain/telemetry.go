package domain

import (
	"time"

	"github.com/google/uuid"
)

// MeasurementEnergyUsage is the measurement name under which telemetry
// points are stored.
const MeasurementEnergyUsage = "energy_usage"

// EnergyUsageEvent is a single device reading as it arrives on the
// inbound telemetry topic. Timestamps travel as ISO-8601 strings.
type EnergyUsageEvent struct {
	DeviceID       uuid.UUID `json:"deviceId"`
	EnergyConsumed float64   `json:"energyConsumed"`
	Timestamp      time.Time `json:"timestamp"`
}

// Point is one persisted time-series fact: measurement energy_usage,
// tagged by device, timestamped at millisecond precision.
type Point struct {
	DeviceID       uuid.UUID
	EnergyConsumed float64
	Time           time.Time
}

// NewPoint converts an inbound event into a storable point, truncating
// the timestamp to millisecond precision.
func NewPoint(event EnergyUsageEvent) Point {
	return Point{
		DeviceID:       event.DeviceID,
		EnergyConsumed: event.EnergyConsumed,
		Time:           event.Timestamp.Truncate(time.Millisecond),
	}
}

// DeviceEnergyUsage is the transient per-device aggregation record built
// during one threshold-check run. OwnerID stays nil until the device has
// been resolved against the device directory.
type DeviceEnergyUsage struct {
	DeviceID       uuid.UUID
	EnergyConsumed float64
	OwnerID        *uuid.UUID
}

// AlertEvent is published on the outbound alert topic when an owner's
// aggregate consumption strictly exceeds their configured threshold.
type AlertEvent struct {
	OwnerID        uuid.UUID `json:"ownerId"`
	Message        string    `json:"message"`
	Threshold      float64   `json:"threshold"`
	EnergyConsumed float64   `json:"energyConsumed"`
	ContactAddress string    `json:"contactAddress"`
}
