package models

import (
	"time"
)

// Audit actions written by mutating operations.
const (
	AuditPolicyUpdate   = "policy_update"
	AuditAllowAdd       = "allow_add"
	AuditAllowRemove    = "allow_remove"
	AuditBlockAdd       = "block_add"
	AuditBlockRemove    = "block_remove"
	AuditRecomputeStart = "recompute_start"
)

// AuditRecord is an append-only record of an operator mutation. Written in
// the same transaction as the mutation itself; never updated or deleted.
type AuditRecord struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UUID      string    `json:"uuid" gorm:"uniqueIndex"`
	SiteID    uint      `json:"site_id" gorm:"index"`
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	Payload   string    `json:"payload" gorm:"type:text"` // JSON object, action-specific
	CreatedAt time.Time `json:"created_at"`
}
