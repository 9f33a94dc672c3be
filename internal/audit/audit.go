// Package audit records who did what to the archive, for the activity view.
package audit

import "time"

// Action is a recorded archive operation.
type Action string

const (
	ActionDocumentCreated  Action = "document_created"
	ActionContentCorrected Action = "content_corrected"
	ActionFieldCorrected   Action = "field_corrected"
	ActionDocumentDeleted  Action = "document_deleted"
	ActionReindexed        Action = "reindexed"
)

// Entry is one audit record.
type Entry struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	OwnerID    string    `json:"ownerId"`
	DocumentID string    `json:"documentId,omitempty"`
	Action     Action    `json:"action"`
	Detail     string    `json:"detail,omitempty"`
}
