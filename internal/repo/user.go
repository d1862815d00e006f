package repo

import (
	"context"
	"database/sql"

	"github.com/daylansit/social-blog/internal/models"
)

// ==========================
// UserRepo
// ==========================
type UserRepo struct {
	DB *sql.DB
}

// ==========================
// Constructor
// ==========================
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

// ==========================
// Create User
// ==========================
// A duplicate email surfaces as *pq.Error with code 23505; handlers classify it.
func (r *UserRepo) Create(ctx context.Context, email, name, passwordHash string) (*models.User, error) {
	query := `
		INSERT INTO users (email, name, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, email, name, status
	`

	user := &models.User{}

	err := r.DB.QueryRowContext(ctx, query, email, name, passwordHash).
		Scan(&user.ID, &user.Email, &user.Name, &user.Status)

	if err != nil {
		return nil, err
	}

	return user, nil
}

// ==========================
// Get By ID
// ==========================
func (r *UserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	query := `
		SELECT id, email, name, status, password_hash
		FROM users
		WHERE id = $1
	`

	user := &models.User{}

	err := r.DB.QueryRowContext(ctx, query, id).
		Scan(&user.ID, &user.Email, &user.Name, &user.Status, &user.PasswordHash)

	if err != nil {
		return nil, err
	}

	return user, nil
}

// ==========================
// Get By Email
// ==========================
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, email, name, status, password_hash
		FROM users
		WHERE email = $1
	`

	user := &models.User{}

	err := r.DB.QueryRowContext(ctx, query, email).
		Scan(&user.ID, &user.Email, &user.Name, &user.Status, &user.PasswordHash)

	if err != nil {
		return nil, err
	}

	return user, nil
}

// ==========================
// Update Status
// ==========================
func (r *UserRepo) UpdateStatus(ctx context.Context, id int, status string) error {
	result, err := r.DB.ExecContext(ctx, `UPDATE users SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// ==========================
// Post IDs
// ==========================
// PostIDs returns the ids of posts this user created, oldest first.
// The post list lives on the posts table; this is the "posts" collection
// of the user resource.
func (r *UserRepo) PostIDs(ctx context.Context, id int) ([]int, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id FROM posts WHERE creator_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var postID int
		if err := rows.Scan(&postID); err != nil {
			return nil, err
		}
		ids = append(ids, postID)
	}

	return ids, rows.Err()
}
