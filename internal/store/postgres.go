package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

// Ping verifies the database connection is alive
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// ---- users & profiles ----

func (s *PostgresStore) CreateUser(ctx context.Context, user User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, display_name, email, password_hash, is_staff)
		VALUES ($1, $2, $3, $4, $5)
	`, user.ID, user.DisplayName, strings.ToLower(user.Email), user.PasswordHash, user.IsStaff)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var user User
	var role sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT u.id, u.display_name, u.email, u.password_hash, u.is_staff, u.created_at, p.role
		FROM users u
		LEFT JOIN profiles p ON p.user_id = u.id
		WHERE u.email = $1
	`, strings.ToLower(email)).Scan(&user.ID, &user.DisplayName, &user.Email, &user.PasswordHash, &user.IsStaff, &user.CreatedAt, &role)
	if err != nil {
		return User{}, err
	}
	user.Role = role.String
	return user, nil
}

func (s *PostgresStore) GetUserByID(ctx context.Context, userID string) (User, error) {
	var user User
	var role sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT u.id, u.display_name, u.email, u.password_hash, u.is_staff, u.created_at, p.role
		FROM users u
		LEFT JOIN profiles p ON p.user_id = u.id
		WHERE u.id = $1
	`, userID).Scan(&user.ID, &user.DisplayName, &user.Email, &user.PasswordHash, &user.IsStaff, &user.CreatedAt, &role)
	if err != nil {
		return User{}, err
	}
	user.Role = role.String
	return user, nil
}

func (s *PostgresStore) UpdateUserPassword(ctx context.Context, userID, passwordHash string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE users SET password_hash=$2 WHERE id=$1`, userID, passwordHash)
	if err != nil {
		return fmt.Errorf("update user password: %w", err)
	}
	return nil
}

func (s *PostgresStore) CreateProfile(ctx context.Context, profile Profile) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO NOTHING
	`, profile.ID, profile.UserID, profile.Role)
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetProfile(ctx context.Context, userID string) (Profile, error) {
	var profile Profile
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, role, created_at FROM profiles WHERE user_id = $1
	`, userID).Scan(&profile.ID, &profile.UserID, &profile.Role, &profile.CreatedAt)
	if err != nil {
		return Profile{}, err
	}
	return profile, nil
}

// EnsureProfile returns the user's profile, creating one with defaultRole if
// none exists yet. A concurrent creator wins via the unique constraint and
// the loser adopts the existing row.
func (s *PostgresStore) EnsureProfile(ctx context.Context, profileID, userID, defaultRole string) (Profile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Profile{}, fmt.Errorf("lookup profile: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO NOTHING
	`, profileID, userID, defaultRole); err != nil {
		return Profile{}, fmt.Errorf("insert profile: %w", err)
	}
	profile, err = s.GetProfile(ctx, userID)
	if err != nil {
		return Profile{}, fmt.Errorf("reload profile: %w", err)
	}
	return profile, nil
}

func (s *PostgresStore) SetProfileRole(ctx context.Context, userID, role string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `UPDATE profiles SET role=$2 WHERE user_id=$1`, userID, role)
	if err != nil {
		return false, fmt.Errorf("set profile role: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("set profile role rows: %w", err)
	}
	return affected > 0, nil
}

func (s *PostgresStore) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.display_name, u.email, u.is_staff, u.created_at, COALESCE(p.role, '')
		FROM users u
		LEFT JOIN profiles p ON p.user_id = u.id
		ORDER BY u.display_name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	items := make([]User, 0)
	for rows.Next() {
		var item User
		if err := rows.Scan(&item.ID, &item.DisplayName, &item.Email, &item.IsStaff, &item.CreatedAt, &item.Role); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return items, nil
}

// DeleteUser removes the account; the user's ideas, votes, and comments go
// with it through the foreign key cascades.
func (s *PostgresStore) DeleteUser(ctx context.Context, userID string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id=$1`, userID)
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete user rows: %w", err)
	}
	return affected > 0, nil
}

// ---- refresh sessions & token revocation ----

func (s *PostgresStore) SaveRefreshSession(ctx context.Context, tokenHash, userID string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO refresh_sessions (token_hash, user_id, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (token_hash) DO UPDATE SET user_id=EXCLUDED.user_id, expires_at=EXCLUDED.expires_at, revoked_at=NULL
	`, tokenHash, userID, expiresAt)
	if err != nil {
		return fmt.Errorf("save refresh session: %w", err)
	}
	return nil
}

func (s *PostgresStore) RevokeRefreshSession(ctx context.Context, tokenHash string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE refresh_sessions SET revoked_at=NOW() WHERE token_hash=$1`, tokenHash)
	if err != nil {
		return fmt.Errorf("revoke refresh session: %w", err)
	}
	return nil
}

func (s *PostgresStore) LookupRefreshSession(ctx context.Context, tokenHash string) (User, error) {
	const query = `
		SELECT u.id, u.display_name, u.email, u.is_staff, COALESCE(p.role, '')
		FROM refresh_sessions rs
		JOIN users u ON u.id = rs.user_id
		LEFT JOIN profiles p ON p.user_id = u.id
		WHERE rs.token_hash = $1
			AND rs.revoked_at IS NULL
			AND rs.expires_at > NOW()
	`
	var user User
	err := s.db.QueryRowContext(ctx, query, tokenHash).Scan(&user.ID, &user.DisplayName, &user.Email, &user.IsStaff, &user.Role)
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func (s *PostgresStore) RevokeAccessToken(ctx context.Context, jti string, exp time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO revoked_access_tokens (jti, expires_at)
		VALUES ($1, $2)
		ON CONFLICT (jti) DO NOTHING
	`, jti, exp)
	if err != nil {
		return fmt.Errorf("revoke access token: %w", err)
	}
	return nil
}

func (s *PostgresStore) IsAccessTokenRevoked(ctx context.Context, jti string) (bool, error) {
	var revoked bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM revoked_access_tokens WHERE jti=$1)`, jti).Scan(&revoked)
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return revoked, nil
}

// ---- categories ----

func (s *PostgresStore) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.description, c.created_at,
			(SELECT COUNT(*) FROM ideas i WHERE i.category_id=c.id) AS idea_count
		FROM categories c
		ORDER BY c.name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	items := make([]Category, 0)
	for rows.Next() {
		var item Category
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.CreatedAt, &item.IdeaCount); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) GetCategory(ctx context.Context, categoryID string) (Category, error) {
	var item Category
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, created_at FROM categories WHERE id=$1
	`, categoryID).Scan(&item.ID, &item.Name, &item.Description, &item.CreatedAt)
	if err != nil {
		return Category{}, err
	}
	return item, nil
}

func (s *PostgresStore) FindCategoryByName(ctx context.Context, name string) (Category, error) {
	var item Category
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, created_at FROM categories WHERE LOWER(name)=LOWER($1)
	`, strings.TrimSpace(name)).Scan(&item.ID, &item.Name, &item.Description, &item.CreatedAt)
	if err != nil {
		return Category{}, err
	}
	return item, nil
}

func (s *PostgresStore) CountCategories(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return count, nil
}

// ResolveCategory looks up a category by name case-insensitively and creates
// it when missing. Two submissions racing on the same name both land on one
// row: the insert is ON CONFLICT DO NOTHING against the lower(name) index and
// the loser reselects the winner's row. When the existing category has no
// description and the caller supplied one, it is backfilled.
func (s *PostgresStore) ResolveCategory(ctx context.Context, categoryID, name, description string) (Category, bool, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)

	existing, err := s.FindCategoryByName(ctx, name)
	if err == nil {
		if existing.Description == "" && description != "" {
			if _, err := s.db.ExecContext(ctx, `UPDATE categories SET description=$2 WHERE id=$1`, existing.ID, description); err != nil {
				return Category{}, false, fmt.Errorf("backfill category description: %w", err)
			}
			existing.Description = description
		}
		return existing, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Category{}, false, fmt.Errorf("lookup category: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, description)
		VALUES ($1, $2, $3)
		ON CONFLICT (LOWER(name)) DO NOTHING
	`, categoryID, name, description)
	if err != nil {
		return Category{}, false, fmt.Errorf("insert category: %w", err)
	}
	inserted, err := result.RowsAffected()
	if err != nil {
		return Category{}, false, fmt.Errorf("insert category rows: %w", err)
	}

	created, err := s.FindCategoryByName(ctx, name)
	if err != nil {
		return Category{}, false, fmt.Errorf("reload category: %w", err)
	}
	return created, inserted > 0, nil
}

// ---- ideas ----

const ideaColumns = `
	i.id, i.title, i.description, i.category_id, COALESCE(c.name, ''),
	i.submitter_id, u.display_name, i.submission_date, i.status,
	(SELECT COUNT(*) FROM votes v WHERE v.idea_id=i.id AND v.vote_type='upvote') AS upvotes,
	(SELECT COUNT(*) FROM votes v WHERE v.idea_id=i.id AND v.vote_type='downvote') AS downvotes,
	(SELECT COUNT(*) FROM comments cm WHERE cm.idea_id=i.id) AS comment_total
`

func scanIdea(scan func(...any) error) (Idea, error) {
	var item Idea
	if err := scan(
		&item.ID,
		&item.Title,
		&item.Description,
		&item.CategoryID,
		&item.CategoryName,
		&item.SubmitterID,
		&item.SubmitterName,
		&item.SubmissionDate,
		&item.Status,
		&item.Upvotes,
		&item.Downvotes,
		&item.CommentCount,
	); err != nil {
		return Idea{}, err
	}
	item.VoteScore = item.Upvotes - item.Downvotes
	return item, nil
}

func (s *PostgresStore) InsertIdea(ctx context.Context, idea Idea) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ideas (id, title, description, category_id, submitter_id, status)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, idea.ID, idea.Title, idea.Description, idea.CategoryID, idea.SubmitterID, idea.Status)
	if err != nil {
		return fmt.Errorf("insert idea: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetIdea(ctx context.Context, ideaID string) (Idea, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+ideaColumns+`
		FROM ideas i
		JOIN users u ON u.id = i.submitter_id
		LEFT JOIN categories c ON c.id = i.category_id
		WHERE i.id=$1
	`, ideaID)
	return scanIdea(row.Scan)
}

func (s *PostgresStore) ListIdeas(ctx context.Context, filter IdeaFilter) ([]Idea, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+ideaColumns+`
		FROM ideas i
		JOIN users u ON u.id = i.submitter_id
		LEFT JOIN categories c ON c.id = i.category_id
		WHERE ($1='' OR i.category_id=$1)
		  AND ($2='' OR i.status=$2)
		  AND ($3='' OR i.title ILIKE '%' || $3 || '%' OR i.description ILIKE '%' || $3 || '%')
		  AND ($4='' OR i.submitter_id=$4)
		ORDER BY i.submission_date DESC
	`, filter.CategoryID, filter.Status, filter.Search, filter.SubmitterID)
	if err != nil {
		return nil, fmt.Errorf("list ideas: %w", err)
	}
	defer rows.Close()

	items := make([]Idea, 0)
	for rows.Next() {
		item, err := scanIdea(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan idea: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ideas: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) UpdateIdeaContent(ctx context.Context, ideaID, title, description string, categoryID *string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE ideas SET title=$2, description=$3, category_id=$4 WHERE id=$1
	`, ideaID, title, description, categoryID)
	if err != nil {
		return fmt.Errorf("update idea content: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateIdeaStatus(ctx context.Context, ideaID, status string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `UPDATE ideas SET status=$2 WHERE id=$1`, ideaID, status)
	if err != nil {
		return false, fmt.Errorf("update idea status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update idea status rows: %w", err)
	}
	return affected > 0, nil
}

// DeleteIdea removes the idea; its votes and comments follow via cascade.
func (s *PostgresStore) DeleteIdea(ctx context.Context, ideaID string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM ideas WHERE id=$1`, ideaID)
	if err != nil {
		return false, fmt.Errorf("delete idea: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete idea rows: %w", err)
	}
	return affected > 0, nil
}

// ---- votes ----

// CastVote applies the toggle policy for one (idea, user) pair inside a
// transaction: an existing same-type vote is retracted, a different-type
// vote switches sides, and a missing vote is inserted. The insert lands as
// ON CONFLICT DO UPDATE so a concurrent insert on the same pair degrades to
// the switch branch instead of surfacing the uniqueness violation.
func (s *PostgresStore) CastVote(ctx context.Context, voteID, ideaID, userID, voteType string) (VoteOutcome, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin vote tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var existingID, existingType string
	err = tx.QueryRowContext(ctx, `
		SELECT id, vote_type FROM votes
		WHERE idea_id=$1 AND user_id=$2
		FOR UPDATE
	`, ideaID, userID).Scan(&existingID, &existingType)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("lookup vote: %w", err)
	}

	outcome := VoteRecorded
	switch {
	case err == nil && existingType == voteType:
		// Voting the same side again retracts the vote. The type guard means
		// a lost race deletes nothing rather than a freshly switched vote.
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM votes WHERE id=$1 AND vote_type=$2
		`, existingID, voteType); err != nil {
			return "", fmt.Errorf("delete vote: %w", err)
		}
		outcome = VoteRemoved
	case err == nil:
		if _, err := tx.ExecContext(ctx, `
			UPDATE votes SET vote_type=$2, voted_at=NOW() WHERE id=$1
		`, existingID, voteType); err != nil {
			return "", fmt.Errorf("switch vote: %w", err)
		}
	default:
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO votes (id, idea_id, user_id, vote_type)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (idea_id, user_id)
			DO UPDATE SET vote_type=EXCLUDED.vote_type, voted_at=NOW()
		`, voteID, ideaID, userID, voteType); err != nil {
			return "", fmt.Errorf("insert vote: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit vote tx: %w", err)
	}
	return outcome, nil
}

func (s *PostgresStore) GetUserVote(ctx context.Context, ideaID, userID string) (*Vote, error) {
	var item Vote
	err := s.db.QueryRowContext(ctx, `
		SELECT id, idea_id, user_id, vote_type, voted_at
		FROM votes
		WHERE idea_id=$1 AND user_id=$2
	`, ideaID, userID).Scan(&item.ID, &item.IdeaID, &item.UserID, &item.VoteType, &item.VotedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user vote: %w", err)
	}
	return &item, nil
}

func (s *PostgresStore) CountVotes(ctx context.Context, ideaID string) (upvotes int, downvotes int, err error) {
	err = s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE vote_type='upvote'),
			COUNT(*) FILTER (WHERE vote_type='downvote')
		FROM votes WHERE idea_id=$1
	`, ideaID).Scan(&upvotes, &downvotes)
	if err != nil {
		err = fmt.Errorf("count votes: %w", err)
	}
	return
}

// ---- comments ----

func (s *PostgresStore) InsertComment(ctx context.Context, comment Comment) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO comments (id, idea_id, user_id, content, parent_comment_id)
		VALUES ($1, $2, $3, $4, $5)
	`, comment.ID, comment.IdeaID, comment.UserID, comment.Content, comment.ParentCommentID)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetComment(ctx context.Context, commentID string) (Comment, error) {
	var item Comment
	err := s.db.QueryRowContext(ctx, `
		SELECT cm.id, cm.idea_id, cm.user_id, u.display_name, cm.content, cm.parent_comment_id, cm.created_at
		FROM comments cm
		JOIN users u ON u.id = cm.user_id
		WHERE cm.id=$1
	`, commentID).Scan(&item.ID, &item.IdeaID, &item.UserID, &item.AuthorName, &item.Content, &item.ParentCommentID, &item.CreatedAt)
	if err != nil {
		return Comment{}, err
	}
	return item, nil
}

// ListComments returns every comment on the idea, oldest first. Threading is
// assembled by the caller.
func (s *PostgresStore) ListComments(ctx context.Context, ideaID string) ([]Comment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT cm.id, cm.idea_id, cm.user_id, u.display_name, cm.content, cm.parent_comment_id, cm.created_at
		FROM comments cm
		JOIN users u ON u.id = cm.user_id
		WHERE cm.idea_id=$1
		ORDER BY cm.created_at ASC
	`, ideaID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	items := make([]Comment, 0)
	for rows.Next() {
		var item Comment
		if err := rows.Scan(&item.ID, &item.IdeaID, &item.UserID, &item.AuthorName, &item.Content, &item.ParentCommentID, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}
	return items, nil
}
