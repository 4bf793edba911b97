package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/iudanet/microblog/internal/models"
	"github.com/iudanet/microblog/internal/server/storage"
)

const selectUser = `
	SELECT u.id, u.username, u.email, u.password_hash, k.key AS api_key,
	       u.first_name, u.last_name, u.avatar_url, u.is_active, u.date_joined
	FROM users u
	LEFT JOIN api_keys k ON k.user_id = u.id`

type userRow struct {
	APIKey       sql.NullString `db:"api_key"`
	Username     string         `db:"username"`
	Email        string         `db:"email"`
	PasswordHash string         `db:"password_hash"`
	FirstName    string         `db:"first_name"`
	LastName     string         `db:"last_name"`
	AvatarURL    string         `db:"avatar_url"`
	ID           int64          `db:"id"`
	DateJoined   int64          `db:"date_joined"`
	IsActive     bool           `db:"is_active"`
}

func (r *userRow) model() *models.User {
	return &models.User{
		ID:           r.ID,
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		APIKey:       r.APIKey.String,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		AvatarURL:    r.AvatarURL,
		IsActive:     r.IsActive,
		DateJoined:   fromStamp(r.DateJoined),
	}
}

func usersFromRows(rows []userRow) []*models.User {
	users := make([]*models.User, 0, len(rows))
	for i := range rows {
		users = append(users, rows[i].model())
	}
	return users
}

// CreateUser inserts the user row and its API key in one transaction
func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	if user.APIKey == "" {
		return fmt.Errorf("user %q has no api key", user.Username)
	}
	if user.DateJoined.IsZero() {
		user.DateJoined = s.now().UTC()
	}

	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO users (username, email, password_hash, first_name, last_name, avatar_url, is_active, date_joined)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			user.Username, user.Email, user.PasswordHash,
			user.FirstName, user.LastName, user.AvatarURL,
			user.IsActive, toStamp(user.DateJoined),
		)
		if err != nil {
			if classifyConstraint(err) == constraintUnique {
				return storage.ErrUserAlreadyExists
			}
			return fmt.Errorf("failed to insert user: %w", err)
		}

		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read user id: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO api_keys (user_id, key, created_at) VALUES (?, ?, ?)`,
			id, user.APIKey, toStamp(user.DateJoined),
		)
		if err != nil {
			return fmt.Errorf("failed to insert api key: %w", err)
		}

		user.ID = id
		return nil
	})
}

// GetUserByID retrieves user by ID
func (s *Storage) GetUserByID(ctx context.Context, userID int64) (*models.User, error) {
	return getUniqueUser(ctx, s.db, "u.id = ?", userID)
}

// GetUserByUsername retrieves user by username
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return getUniqueUser(ctx, s.db, "u.username = ?", username)
}

// GetUserByEmail retrieves user by email; the column collates NOCASE
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return getUniqueUser(ctx, s.db, "u.email = ?", email)
}

// getUniqueUser fetches up to two rows so that a non-unique match is reported
// instead of silently picking one
func getUniqueUser(ctx context.Context, q sqlx.QueryerContext, where string, arg any) (*models.User, error) {
	var rows []userRow
	if err := sqlx.SelectContext(ctx, q, &rows, selectUser+" WHERE "+where+" LIMIT 2", arg); err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	switch len(rows) {
	case 0:
		return nil, storage.ErrUserNotFound
	case 1:
		return rows[0].model(), nil
	default:
		return nil, storage.ErrAmbiguousUser
	}
}

// UpdateProfile replaces the optional profile fields
func (s *Storage) UpdateProfile(ctx context.Context, userID int64, profile models.Profile) error {
	return s.updateUser(ctx, userID,
		`UPDATE users SET first_name = ?, last_name = ?, avatar_url = ? WHERE id = ?`,
		profile.FirstName, profile.LastName, profile.AvatarURL, userID)
}

// UpdatePassword stores a new password hash
func (s *Storage) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	return s.updateUser(ctx, userID,
		`UPDATE users SET password_hash = ? WHERE id = ?`, passwordHash, userID)
}

// SetActive enables or disables an account
func (s *Storage) SetActive(ctx context.Context, userID int64, active bool) error {
	return s.updateUser(ctx, userID,
		`UPDATE users SET is_active = ? WHERE id = ?`, active, userID)
}

func (s *Storage) updateUser(ctx context.Context, userID int64, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update user %d: %w", userID, err)
	}
	return expectAffected(res, storage.ErrUserNotFound)
}

// ListUsers returns users matching any term in username, first or last name
func (s *Storage) ListUsers(ctx context.Context, q storage.UserQuery) ([]*models.User, int, error) {
	cond, args := termsCondition(q.Terms, "u.username", "u.first_name", "u.last_name")
	where := whereClause(cond)

	var total int
	if err := s.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM users u"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var rows []userRow
	query := selectUser + where + " ORDER BY u.id LIMIT ? OFFSET ?"
	args = append(args, limitArg(q.Limit), q.Offset)
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	return usersFromRows(rows), total, nil
}

type userStatsRow struct {
	Followers        int  `db:"followers"`
	Following        int  `db:"following"`
	Posts            int  `db:"posts"`
	FollowedByViewer bool `db:"followed_by_viewer"`
}

// UserStats computes counters for userID; FollowedByViewer is false for viewerID 0
func (s *Storage) UserStats(ctx context.Context, userID, viewerID int64) (*models.UserStats, error) {
	var row userStatsRow
	err := s.db.GetContext(ctx, &row, `
		SELECT
			(SELECT COUNT(*) FROM follows WHERE followee_id = u.id) AS followers,
			(SELECT COUNT(*) FROM follows WHERE follower_id = u.id) AS following,
			(SELECT COUNT(*) FROM posts WHERE user_id = u.id) AS posts,
			EXISTS (SELECT 1 FROM follows WHERE follower_id = ? AND followee_id = u.id) AS followed_by_viewer
		FROM users u
		WHERE u.id = ?`, viewerID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to compute user stats: %w", err)
	}

	return &models.UserStats{
		Followers:        row.Followers,
		Following:        row.Following,
		Posts:            row.Posts,
		FollowedByViewer: row.FollowedByViewer,
	}, nil
}

// termsCondition builds a condition matching rows where any term is contained
// in any of columns, ignoring case for the whole of Unicode.
func termsCondition(terms []string, columns ...string) (string, []any) {
	if len(terms) == 0 {
		return "", nil
	}

	var (
		conds []string
		args  []any
	)
	for _, term := range terms {
		pattern := likePattern(foldTerm(term))
		ors := make([]string, 0, len(columns))
		for _, col := range columns {
			ors = append(ors, casefoldFunc+"("+col+`) LIKE ? ESCAPE '\'`)
			args = append(args, pattern)
		}
		conds = append(conds, "("+strings.Join(ors, " OR ")+")")
	}
	return "(" + strings.Join(conds, " OR ") + ")", args
}

// whereClause joins the non-empty conditions with AND
func whereClause(conds ...string) string {
	parts := make([]string, 0, len(conds))
	for _, c := range conds {
		if c != "" {
			parts = append(parts, c)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(parts, " AND ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// limitArg maps a non-positive limit to SQLite's "no limit"
func limitArg(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

func expectAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
