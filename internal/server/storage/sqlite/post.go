package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/iudanet/microblog/internal/models"
	"github.com/iudanet/microblog/internal/server/storage"
)

// selectPost takes the viewer id as its first argument
const selectPost = `
	SELECT p.id, p.user_id, p.in_reply_to, p.text, p.created_at, p.modified_at,
	       (SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id) AS likes,
	       (SELECT COUNT(*) FROM shares s WHERE s.post_id = p.id) AS shares,
	       (SELECT COUNT(*) FROM posts r WHERE r.in_reply_to = p.id) AS replies,
	       EXISTS (SELECT 1 FROM likes v WHERE v.post_id = p.id AND v.user_id = ?) AS liked_by_viewer
	FROM posts p`

type postRow struct {
	InReplyTo     sql.NullInt64 `db:"in_reply_to"`
	Text          string        `db:"text"`
	ID            int64         `db:"id"`
	UserID        int64         `db:"user_id"`
	CreatedAt     int64         `db:"created_at"`
	ModifiedAt    int64         `db:"modified_at"`
	Likes         int           `db:"likes"`
	Shares        int           `db:"shares"`
	Replies       int           `db:"replies"`
	LikedByViewer bool          `db:"liked_by_viewer"`
}

func (r *postRow) model() *models.Post {
	p := &models.Post{
		ID:         r.ID,
		UserID:     r.UserID,
		Text:       r.Text,
		CreatedAt:  fromStamp(r.CreatedAt),
		ModifiedAt: fromStamp(r.ModifiedAt),
		Stats: models.PostStats{
			Likes:   r.Likes,
			Shares:  r.Shares,
			Replies: r.Replies,
		},
		LikedByViewer: r.LikedByViewer,
	}
	if r.InReplyTo.Valid {
		parent := r.InReplyTo.Int64
		p.InReplyTo = &parent
	}
	return p
}

// CreatePost inserts the post; created_at and modified_at default to now
func (s *Storage) CreatePost(ctx context.Context, post *models.Post) error {
	if post.CreatedAt.IsZero() {
		post.CreatedAt = s.now().UTC()
	}
	if post.ModifiedAt.IsZero() {
		post.ModifiedAt = post.CreatedAt
	}

	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := rowExists(ctx, tx, `SELECT 1 FROM users WHERE id = ?`, post.UserID); err != nil {
			return orNotFound(err, storage.ErrUserNotFound)
		}
		if post.InReplyTo != nil {
			if err := rowExists(ctx, tx, `SELECT 1 FROM posts WHERE id = ?`, *post.InReplyTo); err != nil {
				return orNotFound(err, storage.ErrPostNotFound)
			}
		}

		res, err := tx.ExecContext(ctx, `
			INSERT INTO posts (user_id, in_reply_to, text, created_at, modified_at)
			VALUES (?, ?, ?, ?, ?)`,
			post.UserID, post.InReplyTo, post.Text,
			toStamp(post.CreatedAt), toStamp(post.ModifiedAt),
		)
		if err != nil {
			return fmt.Errorf("failed to insert post: %w", err)
		}

		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read post id: %w", err)
		}
		post.ID = id
		return nil
	})
}

// GetPost returns a post with stats computed for viewerID
func (s *Storage) GetPost(ctx context.Context, postID, viewerID int64) (*models.Post, error) {
	var rows []postRow
	if err := s.db.SelectContext(ctx, &rows, selectPost+" WHERE p.id = ?", viewerID, postID); err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	if len(rows) == 0 {
		return nil, storage.ErrPostNotFound
	}
	return rows[0].model(), nil
}

// UpdatePostText replaces the text and bumps modified_at
func (s *Storage) UpdatePostText(ctx context.Context, postID int64, text string, modifiedAt time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE posts SET text = ?, modified_at = ? WHERE id = ?`,
		text, toStamp(modifiedAt), postID)
	if err != nil {
		return fmt.Errorf("failed to update post %d: %w", postID, err)
	}
	return expectAffected(res, storage.ErrPostNotFound)
}

// homeScope is the union of own posts, followee posts and posts shared by
// the subject or a followee. IN subqueries deduplicate a post reachable
// through several paths.
const homeScope = `(
	p.user_id = ?
	OR p.user_id IN (SELECT followee_id FROM follows WHERE follower_id = ?)
	OR p.id IN (
		SELECT sh.post_id FROM shares sh
		WHERE sh.user_id = ?
		   OR sh.user_id IN (SELECT followee_id FROM follows WHERE follower_id = ?)
	)
)`

// QueryPosts runs a keyset-paginated post query ordered by (created_at, id)
func (s *Storage) QueryPosts(ctx context.Context, q storage.PostQuery) ([]*models.Post, error) {
	var (
		conds []string
		args  = []any{q.ViewerID}
	)

	switch q.Scope {
	case storage.ScopeAll:
	case storage.ScopeHome:
		conds = append(conds, homeScope)
		args = append(args, q.SubjectID, q.SubjectID, q.SubjectID, q.SubjectID)
	case storage.ScopeAuthor:
		conds = append(conds, "p.user_id = ?")
		args = append(args, q.SubjectID)
	case storage.ScopeReplies:
		conds = append(conds, "p.in_reply_to = ?")
		args = append(args, q.SubjectID)
	default:
		return nil, fmt.Errorf("unknown post scope %d", q.Scope)
	}

	if cond, termArgs := termsCondition(q.Terms, "p.text"); cond != "" {
		conds = append(conds, cond)
		args = append(args, termArgs...)
	}

	if q.After != nil {
		at := toStamp(q.After.CreatedAt)
		conds = append(conds, "(p.created_at > ? OR (p.created_at = ? AND p.id > ?))")
		args = append(args, at, at, q.After.ID)
	}

	query := selectPost + whereClause(conds...) + " ORDER BY p.created_at, p.id LIMIT ?"
	args = append(args, limitArg(q.Limit))

	var rows []postRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}

	posts := make([]*models.Post, 0, len(rows))
	for i := range rows {
		posts = append(posts, rows[i].model())
	}
	return posts, nil
}

// rowExists returns sql.ErrNoRows when the probe query yields nothing
func rowExists(ctx context.Context, q sqlx.QueryerContext, query string, args ...any) error {
	var one int
	return sqlx.GetContext(ctx, q, &one, query, args...)
}

func orNotFound(err, notFound error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	return err
}
