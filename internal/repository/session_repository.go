package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/hmperform/coaching-api/internal/model"
)

// SessionRepo provides persistence for session records in the
// `sessions` table. Every read and write is scoped by company id;
// the column is set once at insertion and never appears in an UPDATE
// statement, which is how tenant-id immutability is enforced.
// Listings are ordered by session_date descending; ordering among
// equal dates follows the store and is not guaranteed.
type SessionRepo struct{ DB *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{DB: db} }

const sessionColumns = `id, company_id, coach_id, coach_name, client_id, client_name,
	client_email, session_date, session_type, notes, summary, video_link,
	status, is_archived, created_at, updated_at`

// Create inserts a new session with a generated id, populating the id
// and timestamps on the provided record.
func (r *SessionRepo) Create(ctx context.Context, s *model.Session) error {
	s.ID = uuid.NewString()
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO sessions (id, company_id, coach_id, coach_name, client_id,
		   client_name, client_email, session_date, session_type, notes,
		   summary, video_link, status, is_archived)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		s.ID, s.CompanyID, s.CoachID, s.CoachName, s.ClientID,
		s.ClientName, s.ClientEmail, s.SessionDate.UTC(), s.SessionType, s.Notes,
		s.Summary, s.VideoLink, s.Status, s.IsArchived)
	if err != nil {
		return err
	}
	// Query back the full row to populate server-side timestamps.
	got, err := r.getByID(ctx, s.ID)
	if err != nil {
		return err
	}
	*s = got
	return nil
}

// GetForCompany returns a session by id, enforcing tenant scope. A
// missing session returns ErrNotFound; a session that exists but
// belongs to another company returns ErrForbidden so the caller can
// emit a flat denial without leaking which predicate failed.
func (r *SessionRepo) GetForCompany(ctx context.Context, id, companyID string) (model.Session, error) {
	s, err := r.getByID(ctx, id)
	if err != nil {
		return model.Session{}, err
	}
	if s.CompanyID != companyID {
		return model.Session{}, ErrForbidden
	}
	return s, nil
}

func (r *SessionRepo) getByID(ctx context.Context, id string) (model.Session, error) {
	var (
		s         model.Session
		summary   sql.NullString
		videoLink sql.NullString
	)
	err := r.DB.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id=? LIMIT 1`, id).
		Scan(&s.ID, &s.CompanyID, &s.CoachID, &s.CoachName, &s.ClientID, &s.ClientName,
			&s.ClientEmail, &s.SessionDate, &s.SessionType, &s.Notes, &summary,
			&videoLink, &s.Status, &s.IsArchived, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Session{}, ErrNotFound
	}
	if err != nil {
		return model.Session{}, err
	}
	s.Summary = nullableString(summary)
	s.VideoLink = nullableString(videoLink)
	return s, nil
}

// UpdateStatusIf transitions a session's status, but only when the
// current status is one of `from`. It reports whether a row was
// updated; false means the session moved to a different status
// between the caller's read and this write.
func (r *SessionRepo) UpdateStatusIf(ctx context.Context, id, companyID string, from []string, to string) (bool, error) {
	if len(from) == 0 {
		return false, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(from)), ",")
	args := make([]any, 0, len(from)+3)
	args = append(args, to, id, companyID)
	for _, f := range from {
		args = append(args, f)
	}
	res, err := r.DB.ExecContext(ctx,
		`UPDATE sessions SET status=?, updated_at=NOW()
		 WHERE id=? AND company_id=? AND status IN (`+placeholders+`)`, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// SetArchived flags a session as archived. Archiving is idempotent:
// repeating it on an already archived session succeeds without effect.
func (r *SessionRepo) SetArchived(ctx context.Context, id, companyID string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE sessions SET is_archived=1, updated_at=NOW() WHERE id=? AND company_id=?",
		id, companyID)
	return err
}

// UpdateDetails amends the mutable free-text fields of a session.
// Status, parties, dates and the company column are not reachable
// through this statement. Nil fields are left unchanged.
func (r *SessionRepo) UpdateDetails(ctx context.Context, id, companyID string, notes, summary, videoLink *string) error {
	sets := make([]string, 0, 4)
	args := make([]any, 0, 5)
	if notes != nil {
		sets = append(sets, "notes=?")
		args = append(args, *notes)
	}
	if summary != nil {
		sets = append(sets, "summary=?")
		args = append(args, *summary)
	}
	if videoLink != nil {
		sets = append(sets, "video_link=?")
		args = append(args, *videoLink)
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at=NOW()")
	args = append(args, id, companyID)
	_, err := r.DB.ExecContext(ctx,
		"UPDATE sessions SET "+strings.Join(sets, ", ")+" WHERE id=? AND company_id=?",
		args...)
	return err
}

// ListForClient returns a client's own non-archived sessions, newest
// session date first.
func (r *SessionRepo) ListForClient(ctx context.Context, companyID, clientID string) ([]model.Session, error) {
	return r.list(ctx,
		`SELECT `+sessionColumns+` FROM sessions
		 WHERE company_id=? AND client_id=? AND is_archived=0
		 ORDER BY session_date DESC`, companyID, clientID)
}

// ListForCoach returns a coach's own non-archived sessions, newest
// session date first.
func (r *SessionRepo) ListForCoach(ctx context.Context, companyID, coachID string) ([]model.Session, error) {
	return r.list(ctx,
		`SELECT `+sessionColumns+` FROM sessions
		 WHERE company_id=? AND coach_id=? AND is_archived=0
		 ORDER BY session_date DESC`, companyID, coachID)
}

// ListForClientAndCoach returns the non-archived sessions a coach
// logged with one specific client.
func (r *SessionRepo) ListForClientAndCoach(ctx context.Context, companyID, clientID, coachID string) ([]model.Session, error) {
	return r.list(ctx,
		`SELECT `+sessionColumns+` FROM sessions
		 WHERE company_id=? AND client_id=? AND coach_id=? AND is_archived=0
		 ORDER BY session_date DESC`, companyID, clientID, coachID)
}

// ListByStatuses returns the company's non-archived sessions whose
// status is in the given set. Used for the admin (Under Review,
// Denied) and super-admin (Approved, Billed) review queues.
func (r *SessionRepo) ListByStatuses(ctx context.Context, companyID string, statuses []string) ([]model.Session, error) {
	if len(statuses) == 0 {
		return []model.Session{}, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(statuses)), ",")
	args := make([]any, 0, len(statuses)+1)
	args = append(args, companyID)
	for _, st := range statuses {
		args = append(args, st)
	}
	return r.list(ctx,
		`SELECT `+sessionColumns+` FROM sessions
		 WHERE company_id=? AND is_archived=0 AND status IN (`+placeholders+`)
		 ORDER BY session_date DESC`, args...)
}

func (r *SessionRepo) list(ctx context.Context, query string, args ...any) ([]model.Session, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	sessions := make([]model.Session, 0)
	for rows.Next() {
		var (
			s         model.Session
			summary   sql.NullString
			videoLink sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.CompanyID, &s.CoachID, &s.CoachName, &s.ClientID,
			&s.ClientName, &s.ClientEmail, &s.SessionDate, &s.SessionType, &s.Notes,
			&summary, &videoLink, &s.Status, &s.IsArchived, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		s.Summary = nullableString(summary)
		s.VideoLink = nullableString(videoLink)
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}
