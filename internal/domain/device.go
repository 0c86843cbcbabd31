package domain

import (
	"time"

	"github.com/google/uuid"
)

type DeviceType string

const (
	DeviceTypeMeter      DeviceType = "meter"
	DeviceTypeThermostat DeviceType = "thermostat"
	DeviceTypeEVCharger  DeviceType = "ev_charger"
	DeviceTypeAppliance  DeviceType = "appliance"
	DeviceTypeSolar      DeviceType = "solar_inverter"
)

// Device is a registered consumption endpoint. OwnerID attributes its
// telemetry to an account for alerting.
type Device struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string     `json:"name" gorm:"size:50"`
	Type      DeviceType `json:"type" gorm:"size:50"`
	Location  string     `json:"location"`
	OwnerID   uuid.UUID  `json:"ownerId" gorm:"type:uuid;index;not null"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
