package models

import "time"

// Audit actions recorded for administrative mutations.
const (
	AuditActionLogin             = "LOGIN"
	AuditActionCreate            = "CREATE"
	AuditActionUpdate            = "UPDATE"
	AuditActionDelete            = "DELETE"
	AuditActionStatusChange      = "STATUS_CHANGE"
	AuditActionInstallmentReview = "INSTALLMENT_REVIEW"
	AuditActionPasswordReset     = "PASSWORD_RESET"
)

// AuditLog represents an audit trail record.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	UserID     *string   `db:"user_id" json:"user_id,omitempty"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resource_id,omitempty"`
	Details    []byte    `db:"details" json:"details,omitempty"`
	IPAddress  string    `db:"ip_address" json:"ip_address"`
	UserAgent  string    `db:"user_agent" json:"user_agent"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
