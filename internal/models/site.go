package models

import (
	"time"
)

// Site is the scoping entity for all classification state. Policy, override
// lists, traffic events, recompute jobs and audit records all belong to a site
// and are destroyed with it.
type Site struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UUID      string    `json:"uuid" gorm:"uniqueIndex"`
	Name      string    `json:"name" gorm:"index"`
	Domain    string    `json:"domain"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
