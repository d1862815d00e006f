package repo

import (
	"context"
	"database/sql"

	"github.com/daylansit/social-blog/internal/models"
)

// ==========================
// PostRepo
// ==========================
type PostRepo struct {
	DB *sql.DB
}

// ==========================
// Constructor
// ==========================
func NewPostRepo(db *sql.DB) *PostRepo {
	return &PostRepo{DB: db}
}

// ==========================
// Count
// ==========================
func (r *PostRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ==========================
// List Page
// ==========================
// ListPage returns one feed page, newest first, with the creator populated.
// page is 1-based; perPage rows are returned after skipping (page-1)*perPage.
func (r *PostRepo) ListPage(ctx context.Context, page, perPage int) ([]models.Post, error) {
	query := `
		SELECT p.id, p.title, p.content, p.image_url, p.creator_id, u.name, p.created_at, p.updated_at
		FROM posts p
		JOIN users u ON u.id = p.creator_id
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.DB.QueryContext(ctx, query, perPage, (page-1)*perPage)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.ImageURL,
			&p.Creator.ID, &p.Creator.Name, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}

	return posts, rows.Err()
}

// ==========================
// Create Post
// ==========================
// A single INSERT: the creator linkage is the foreign key, so there is no
// second write to keep consistent with the post row.
func (r *PostRepo) Create(ctx context.Context, title, content, imageURL string, creatorID int) (*models.Post, error) {
	query := `
		INSERT INTO posts (title, content, image_url, creator_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	post := &models.Post{
		Title:    title,
		Content:  content,
		ImageURL: imageURL,
		Creator:  models.Creator{ID: creatorID},
	}

	err := r.DB.QueryRowContext(ctx, query, title, content, imageURL, creatorID).
		Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)

	if err != nil {
		return nil, err
	}

	return post, nil
}

// ==========================
// Get By ID
// ==========================
func (r *PostRepo) GetByID(ctx context.Context, id int) (*models.Post, error) {
	query := `
		SELECT p.id, p.title, p.content, p.image_url, p.creator_id, u.name, p.created_at, p.updated_at
		FROM posts p
		JOIN users u ON u.id = p.creator_id
		WHERE p.id = $1
	`

	p := &models.Post{}

	err := r.DB.QueryRowContext(ctx, query, id).
		Scan(&p.ID, &p.Title, &p.Content, &p.ImageURL,
			&p.Creator.ID, &p.Creator.Name, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		return nil, err
	}

	return p, nil
}

// ==========================
// Update Post
// ==========================
// The caller checks ownership against the loaded post before calling.
func (r *PostRepo) Update(ctx context.Context, id int, title, content, imageURL string) (*models.Post, error) {
	query := `
		UPDATE posts
		SET title = $1, content = $2, image_url = $3, updated_at = now()
		WHERE id = $4
		RETURNING id, title, content, image_url, creator_id, created_at, updated_at
	`

	p := &models.Post{}

	err := r.DB.QueryRowContext(ctx, query, title, content, imageURL, id).
		Scan(&p.ID, &p.Title, &p.Content, &p.ImageURL,
			&p.Creator.ID, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		return nil, err
	}

	return p, nil
}

// ==========================
// Delete Post
// ==========================
func (r *PostRepo) Delete(ctx context.Context, id int) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
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
// Image URLs
// ==========================
// ImageURLs lists every image reference currently held by a post.
// Used by the orphan sweep to decide which stored files are still live.
func (r *PostRepo) ImageURLs(ctx context.Context) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT image_url FROM posts`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		urls = append(urls, u)
	}

	return urls, rows.Err()
}
