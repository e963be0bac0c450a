// Package queue defines message payloads exchanged over the message broker.
package queue

// SessionStatusChangedEvent is published whenever a session moves
// through the review workflow (approved, denied, billed). It carries
// enough information for downstream consumers to audit or notify
// without querying the primary database.
type SessionStatusChangedEvent struct {
	SessionID  string `json:"session_id"`
	CompanyID  string `json:"company_id"`
	CoachName  string `json:"coach_name"`
	ClientName string `json:"client_name"`
	OldStatus  string `json:"old_status"`
	NewStatus  string `json:"new_status"`
	ActorUID   string `json:"actor_uid"`
	ActorRole  string `json:"actor_role"`
	OccurredAt string `json:"occurred_at"`
}
