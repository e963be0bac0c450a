package model

import "time"

// Session status values. A session starts Under Review when a coach
// logs it; an admin moves it to Approved or Denied (a Denied session
// may be re-decided by an admin); a super-admin moves Approved
// sessions to Billed. Billed is terminal.
const (
	StatusUnderReview = "Under Review"
	StatusApproved    = "Approved"
	StatusDenied      = "Denied"
	StatusBilled      = "Billed"
)

// Session type values. A session is booked either as a full or a half
// session; the distinction only affects billing downstream.
const (
	SessionFull = "Full"
	SessionHalf = "Half"
)

// ValidSessionType reports whether s is a known session type.
func ValidSessionType(s string) bool {
	return s == SessionFull || s == SessionHalf
}

// Session records a coaching session as stored in the `sessions`
// table. Coach and client names (and the client email) are denormalized
// snapshots taken when the session is logged; they are deliberately
// never re-synced if the underlying profile changes later.
//
// Fields:
//  ID          – primary key, generated on creation.
//  CompanyID   – owning company; immutable after creation.
//  CoachID     – coach who logged the session.
//  CoachName   – coach display name at creation time.
//  ClientID    – client the session was held with.
//  ClientName  – client display name at creation time.
//  ClientEmail – client email at creation time.
//  SessionDate – when the session took place.
//  SessionType – Full or Half.
//  Notes       – free-text notes written by the coach.
//  Summary     – optional short summary.
//  VideoLink   – optional link to a recording.
//  Status      – one of the Status* constants.
//  IsArchived  – archived sessions are hidden from every workflow view.
//  CreatedAt   – timestamp of creation.
//  UpdatedAt   – timestamp of last update.
type Session struct {
	ID          string    `json:"id"`           // sessions.id
	CompanyID   string    `json:"company_id"`   // sessions.company_id
	CoachID     string    `json:"coach_id"`     // sessions.coach_id
	CoachName   string    `json:"coach_name"`   // sessions.coach_name
	ClientID    string    `json:"client_id"`    // sessions.client_id
	ClientName  string    `json:"client_name"`  // sessions.client_name
	ClientEmail string    `json:"client_email"` // sessions.client_email
	SessionDate time.Time `json:"session_date"` // sessions.session_date
	SessionType string    `json:"session_type"` // sessions.session_type
	Notes       string    `json:"notes"`        // sessions.notes
	Summary     *string   `json:"summary,omitempty"`    // sessions.summary (nullable)
	VideoLink   *string   `json:"video_link,omitempty"` // sessions.video_link (nullable)
	Status      string    `json:"status"`       // sessions.status
	IsArchived  bool      `json:"is_archived"`  // sessions.is_archived
	CreatedAt   time.Time `json:"created_at"`   // sessions.created_at
	UpdatedAt   time.Time `json:"updated_at"`   // sessions.updated_at
}
