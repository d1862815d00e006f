package models

import "time"

// Creator is the public subset of a user that rides along with a post.
type Creator struct {
	ID   int    `json:"_id"`
	Name string `json:"name"`
}

type Post struct {
	ID        int       `json:"_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"imageUrl"`
	Creator   Creator   `json:"creator"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
