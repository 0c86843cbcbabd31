package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an account owner. ContactAddress is where threshold alerts are
// delivered when AlertingEnabled is set.
type User struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	FirstName       string    `json:"firstName" gorm:"size:50"`
	LastName        string    `json:"lastName" gorm:"size:50"`
	ContactAddress  string    `json:"contactAddress" gorm:"uniqueIndex"`
	AlertingEnabled bool      `json:"alertingEnabled"`
	Threshold       float64   `json:"threshold"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
