package models

// DefaultStatus is the status text every new account starts with.
const DefaultStatus = "I am new!"

type User struct {
	ID           int    `json:"_id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Name         string `json:"name"`
	Status       string `json:"status"`
	// Posts holds ids of the posts this user created, oldest first.
	// Derived from posts.creator_id; filled only where a handler needs it.
	Posts []int `json:"posts,omitempty"`
}
