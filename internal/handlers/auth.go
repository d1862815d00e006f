package handlers

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/daylansit/social-blog/internal/auth"
	"github.com/daylansit/social-blog/internal/middleware"
	"github.com/daylansit/social-blog/internal/repo"
	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	Users  *repo.UserRepo
	Tokens *auth.Tokens
}

// ==========================
// Signup (PUT /auth/signup)
// ==========================
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "Validation failed", http.StatusUnprocessableEntity)
		return
	}

	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	var data []FieldError

	// ===== Validate input =====
	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		data = append(data, FieldError{Param: "email", Msg: "Please enter a valid email."})
	}
	if len(strings.TrimSpace(input.Password)) < 5 {
		data = append(data, FieldError{Param: "password", Msg: "Password must be at least 5 characters long."})
	}
	if strings.TrimSpace(input.Name) == "" {
		data = append(data, FieldError{Param: "name", Msg: "Name must not be empty."})
	}
	if len(data) > 0 {
		JSONValidationError(w, "Validation failed", data, http.StatusUnprocessableEntity)
		return
	}

	// Email uniqueness is part of validation. The unique index is still the
	// backstop for concurrent signups.
	if _, err := h.Users.GetByEmail(r.Context(), input.Email); err == nil {
		data = append(data, FieldError{Param: "email", Msg: "Email address already exists"})
		JSONValidationError(w, "Validation failed", data, http.StatusUnprocessableEntity)
		return
	} else if err != sql.ErrNoRows {
		slog.Error("signup: lookup email", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(input.Password)), bcryptCost)
	if err != nil {
		slog.Error("signup: hash password", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	user, err := h.Users.Create(r.Context(), input.Email, strings.TrimSpace(input.Name), string(hash))
	if err != nil {
		if e, ok := err.(*pq.Error); ok && e.Code == "23505" {
			data = append(data, FieldError{Param: "email", Msg: "Email address already exists"})
			JSONValidationError(w, "Validation failed", data, http.StatusUnprocessableEntity)
			return
		}
		slog.Error("signup: create user", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "User created",
		"userId":  user.ID,
	})
}

// ==========================
// Login (POST /auth/login)
// ==========================
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "Validation failed", http.StatusUnprocessableEntity)
		return
	}

	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	user, err := h.Users.GetByEmail(r.Context(), input.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			JSONError(w, "A user with this email could not be found", http.StatusUnauthorized)
			return
		}
		slog.Error("login: lookup email", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		JSONError(w, "Wrong password", http.StatusUnauthorized)
		return
	}

	token, err := h.Tokens.Issue(user.ID, user.Email)
	if err != nil {
		slog.Error("login: issue token", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"token":  token,
		"userId": user.ID,
	})
}

// ==========================
// Get Status (GET /auth/status)
// ==========================
func (h *AuthHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	user, err := h.Users.GetByID(r.Context(), userID)
	if err != nil {
		if err == sql.ErrNoRows {
			JSONError(w, "User not found", http.StatusNotFound)
			return
		}
		slog.Error("get status: lookup user", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": user.Status})
}

// ==========================
// Update Status (PATCH /auth/status)
// ==========================
func (h *AuthHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	var input struct {
		Status string `json:"status"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "Validation failed", http.StatusUnprocessableEntity)
		return
	}

	status := strings.TrimSpace(input.Status)
	if status == "" {
		JSONValidationError(w, "Validation failed",
			[]FieldError{{Param: "status", Msg: "Status must not be empty."}},
			http.StatusUnprocessableEntity)
		return
	}

	if err := h.Users.UpdateStatus(r.Context(), userID, status); err != nil {
		if err == sql.ErrNoRows {
			JSONError(w, "User not found", http.StatusNotFound)
			return
		}
		slog.Error("update status", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "User status updated"})
}
