package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/hmperform/coaching-api/internal/model"
	"github.com/hmperform/coaching-api/internal/utils"
)

// UserRepo provides persistence for principal records in the `users`
// table. All reads scan into model.User; nullable columns go through
// sql.Null* before landing in pointer fields.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = `uid, email, password_hash, display_name, role, company_id,
	coach_id, photo_url, stripe_customer_id_test, stripe_customer_id_live,
	created_at, updated_at`

// Create inserts a new user with a generated uid and returns it.
// The email is normalized to lower case before insertion; a duplicate
// email surfaces as ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, email, password, displayName, role, companyID string, coachID *string, cost int) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return "", err
	}
	uid := uuid.NewString()
	_, err = r.DB.ExecContext(ctx,
		`INSERT INTO users (uid, email, password_hash, display_name, role, company_id, coach_id)
		 VALUES (?,?,?,?,?,?,?)`,
		uid, email, hash, displayName, role, companyID, coachID)
	if err != nil {
		// 1062 is the MySQL duplicate-key error for the unique email index.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return "", ErrEmailExists
		}
		return "", err
	}
	return uid, nil
}

// GetByEmail fetches a user by normalized email. Returns ErrNotFound
// when no account exists for the address.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.getWhere(ctx, "email=?", email)
}

// GetByUID fetches a user by its uid. Returns ErrNotFound when the
// profile document does not exist.
func (r *UserRepo) GetByUID(ctx context.Context, uid string) (model.User, error) {
	return r.getWhere(ctx, "uid=?", uid)
}

func (r *UserRepo) getWhere(ctx context.Context, where string, arg any) (model.User, error) {
	var (
		u        model.User
		coachID  sql.NullString
		photoURL sql.NullString
		custTest sql.NullString
		custLive sql.NullString
	)
	err := r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE `+where+` LIMIT 1`, arg).
		Scan(&u.UID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.Role, &u.CompanyID,
			&coachID, &photoURL, &custTest, &custLive, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	u.CoachID = nullableString(coachID)
	u.PhotoURL = nullableString(photoURL)
	u.StripeCustomerIDTest = nullableString(custTest)
	u.StripeCustomerIDLive = nullableString(custLive)
	return u, nil
}

// UpdateProfile applies self-service profile updates. Only display
// name, photo URL and coach assignment are mutable through this path;
// role, email and company are deliberately not update targets here.
// Nil fields are left unchanged.
func (r *UserRepo) UpdateProfile(ctx context.Context, uid string, displayName, photoURL, coachID *string) error {
	sets := make([]string, 0, 4)
	args := make([]any, 0, 4)
	if displayName != nil {
		sets = append(sets, "display_name=?")
		args = append(args, *displayName)
	}
	if photoURL != nil {
		sets = append(sets, "photo_url=?")
		args = append(args, *photoURL)
	}
	if coachID != nil {
		sets = append(sets, "coach_id=?")
		args = append(args, *coachID)
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at=NOW()")
	args = append(args, uid)
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET "+strings.Join(sets, ", ")+" WHERE uid=?", args...)
	return err
}

// SetCustomerIDIfAbsent records a freshly provisioned payment customer
// identifier for the given mode, but only when no identifier exists
// yet for that mode. It returns the identifier that is persisted after
// the call: the provided one when the write won, or the previously
// stored one when a concurrent provisioning attempt got there first.
func (r *UserRepo) SetCustomerIDIfAbsent(ctx context.Context, uid string, mode model.BillingMode, customerID string) (string, error) {
	col := "stripe_customer_id_test"
	if mode == model.ModeLive {
		col = "stripe_customer_id_live"
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET "+col+"=?, updated_at=NOW() WHERE uid=? AND "+col+" IS NULL",
		customerID, uid)
	if err != nil {
		return "", err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return "", err
	}
	if n == 1 {
		return customerID, nil
	}
	// Lost the race (or the uid is unknown): re-read the stored value.
	u, err := r.GetByUID(ctx, uid)
	if err != nil {
		return "", err
	}
	stored := u.CustomerID(mode)
	if stored == nil {
		return "", ErrConflict
	}
	return *stored, nil
}

// ListByCompany returns every user belonging to a company. Role and
// roster filtering happens in the caller: fetching on the single
// company predicate keeps the store free of composite indexes at the
// cost of transferring a few extra rows.
func (r *UserRepo) ListByCompany(ctx context.Context, companyID string) ([]model.User, error) {
	return r.listWhere(ctx, "company_id=?", companyID)
}

// ListByCoach returns every user whose coach_id matches. Company and
// role membership are filtered in code by the caller, mirroring the
// single-predicate fetch strategy of ListByCompany.
func (r *UserRepo) ListByCoach(ctx context.Context, coachID string) ([]model.User, error) {
	return r.listWhere(ctx, "coach_id=?", coachID)
}

func (r *UserRepo) listWhere(ctx context.Context, where string, arg any) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE `+where, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := make([]model.User, 0)
	for rows.Next() {
		var (
			u        model.User
			coachID  sql.NullString
			photoURL sql.NullString
			custTest sql.NullString
			custLive sql.NullString
		)
		if err := rows.Scan(&u.UID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.Role,
			&u.CompanyID, &coachID, &photoURL, &custTest, &custLive,
			&u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		u.CoachID = nullableString(coachID)
		u.PhotoURL = nullableString(photoURL)
		u.StripeCustomerIDTest = nullableString(custTest)
		u.StripeCustomerIDLive = nullableString(custLive)
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
