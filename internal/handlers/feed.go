package handlers

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/daylansit/social-blog/internal/metrics"
	"github.com/daylansit/social-blog/internal/middleware"
	"github.com/daylansit/social-blog/internal/models"
	"github.com/daylansit/social-blog/internal/repo"
	"github.com/daylansit/social-blog/internal/storage"
	"github.com/go-chi/chi/v5"
)

// PerPage is the fixed feed page size.
const PerPage = 5

// ==========================
// Feed Handler
// ==========================
type FeedHandler struct {
	Posts  *repo.PostRepo
	Users  *repo.UserRepo
	Images *storage.Images
}

//
// ==========================
// List Posts (GET /feed/posts?page=N)
// ==========================
//

func (h *FeedHandler) GetPosts(w http.ResponseWriter, r *http.Request) {
	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		if val, err := strconv.Atoi(p); err == nil && val > 0 {
			page = val
		}
	}

	totalItems, err := h.Posts.Count(r.Context())
	if err != nil {
		slog.Error("list posts: count", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	posts, err := h.Posts.ListPage(r.Context(), page, PerPage)
	if err != nil {
		slog.Error("list posts: page", "error", err, "page", page)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":    "fetched posts successfully",
		"posts":      posts,
		"totalItems": totalItems,
	})
}

//
// ==========================
// Create Post (POST /feed/post, multipart)
// ==========================
//

func (h *FeedHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	content := strings.TrimSpace(r.FormValue("content"))

	if data := validatePostFields(title, content); len(data) > 0 {
		JSONValidationError(w, "Validation failed, entered data is incorrect", data, http.StatusUnprocessableEntity)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		JSONError(w, "No image provided", http.StatusUnprocessableEntity)
		return
	}
	defer file.Close()

	imageURL, err := h.Images.Save(file, header)
	if err != nil {
		// A rejected content type reads the same as a missing file.
		if err == storage.ErrUnsupportedType {
			JSONError(w, "No image provided", http.StatusUnprocessableEntity)
			return
		}
		slog.Error("create post: store image", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	post, err := h.Posts.Create(r.Context(), title, content, imageURL, userID)
	if err != nil {
		slog.Error("create post: insert", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	creator, err := h.Users.GetByID(r.Context(), userID)
	if err != nil {
		slog.Error("create post: load creator", "error", err, "user_id", userID)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	post.Creator = models.Creator{ID: creator.ID, Name: creator.Name}

	metrics.PostsCreated.Inc()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Post created successfully",
		"post":    post,
		"creator": post.Creator,
	})
}

//
// ==========================
// Get Post (GET /feed/post/{postId})
// ==========================
//

func (h *FeedHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.Atoi(chi.URLParam(r, "postId"))
	if err != nil {
		JSONError(w, "Could not find post", http.StatusNotFound)
		return
	}

	post, err := h.Posts.GetByID(r.Context(), postID)
	if err != nil {
		if err == sql.ErrNoRows {
			JSONError(w, "Could not find post", http.StatusNotFound)
			return
		}
		slog.Error("get post", "error", err, "post_id", postID)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Post fetched",
		"post":    post,
	})
}

//
// ==========================
// Update Post (PUT /feed/post/{postId}, multipart)
// ==========================
//

func (h *FeedHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	postID, err := strconv.Atoi(chi.URLParam(r, "postId"))
	if err != nil {
		JSONError(w, "Could not find post", http.StatusNotFound)
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	content := strings.TrimSpace(r.FormValue("content"))

	if data := validatePostFields(title, content); len(data) > 0 {
		JSONValidationError(w, "Validation failed, entered data is incorrect", data, http.StatusUnprocessableEntity)
		return
	}

	// The image is either the existing reference re-supplied as a text field
	// or a freshly uploaded file, which wins.
	imageURL := strings.TrimSpace(r.FormValue("image"))
	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		saved, err := h.Images.Save(file, header)
		if err == nil {
			imageURL = saved
		} else if err != storage.ErrUnsupportedType {
			slog.Error("update post: store image", "error", err)
			JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
			return
		}
	}
	if imageURL == "" {
		JSONError(w, "No image file picked", http.StatusUnprocessableEntity)
		return
	}

	post, err := h.Posts.GetByID(r.Context(), postID)
	if err != nil {
		if err == sql.ErrNoRows {
			JSONError(w, "Could not find post", http.StatusNotFound)
			return
		}
		slog.Error("update post: load", "error", err, "post_id", postID)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	if post.Creator.ID != userID {
		JSONError(w, "Not authorized", http.StatusForbidden)
		return
	}

	if imageURL != post.ImageURL {
		h.Images.Clear(post.ImageURL)
	}

	updated, err := h.Posts.Update(r.Context(), postID, title, content, imageURL)
	if err != nil {
		slog.Error("update post: write", "error", err, "post_id", postID)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	updated.Creator.Name = post.Creator.Name

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Post updated",
		"post":    updated,
	})
}

//
// ==========================
// Delete Post (DELETE /feed/post/{postId})
// ==========================
//

func (h *FeedHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	postID, err := strconv.Atoi(chi.URLParam(r, "postId"))
	if err != nil {
		JSONError(w, "Could not find post", http.StatusNotFound)
		return
	}

	post, err := h.Posts.GetByID(r.Context(), postID)
	if err != nil {
		if err == sql.ErrNoRows {
			JSONError(w, "Could not find post", http.StatusNotFound)
			return
		}
		slog.Error("delete post: load", "error", err, "post_id", postID)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	if post.Creator.ID != userID {
		JSONError(w, "Not authorized", http.StatusForbidden)
		return
	}

	h.Images.Clear(post.ImageURL)

	if err := h.Posts.Delete(r.Context(), postID); err != nil {
		if err == sql.ErrNoRows {
			JSONError(w, "Could not find post", http.StatusNotFound)
			return
		}
		slog.Error("delete post: write", "error", err, "post_id", postID)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	metrics.PostsDeleted.Inc()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Deleted post"})
}

// validatePostFields applies the shared title/content rules: both required,
// minimum length 5 after trimming.
func validatePostFields(title, content string) []FieldError {
	var data []FieldError
	if len(title) < 5 {
		data = append(data, FieldError{Param: "title", Msg: "Title must be at least 5 characters long."})
	}
	if len(content) < 5 {
		data = append(data, FieldError{Param: "content", Msg: "Content must be at least 5 characters long."})
	}
	return data
}
