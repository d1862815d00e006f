package main

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/daylansit/social-blog/internal/auth"
	"github.com/daylansit/social-blog/internal/config"
	"golang.org/x/crypto/bcrypt"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		JWTSecret:        "test-secret-for-integration",
		JWTExpireMinutes: 60,
		ImageDir:         t.TempDir(),
		MaxUploadBytes:   10 << 20,
	}
}

// TestAPI_SignupLoginCreateThenForbiddenDelete walks the whole flow: Ann signs
// up and logs in, creates a post with her token, and Bob's token is rejected
// when he tries to delete it.
func TestAPI_SignupLoginCreateThenForbiddenDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}

	// Signup: uniqueness probe, then insert.
	mock.ExpectQuery(`SELECT id, email, name, status, password_hash`).
		WithArgs("a@x.com").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`INSERT INTO users \(email, name, password_hash\)`).
		WithArgs("a@x.com", "Ann", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "status"}).
			AddRow(1, "a@x.com", "Ann", "I am new!"))

	// Login.
	mock.ExpectQuery(`SELECT id, email, name, status, password_hash`).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "status", "password_hash"}).
			AddRow(1, "a@x.com", "Ann", "I am new!", string(hash)))

	// Create post: insert, then load the creator summary.
	mock.ExpectQuery(`INSERT INTO posts \(title, content, image_url, creator_id\)`).
		WithArgs("Hello World", "Hello content!", sqlmock.AnyArg(), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(7, now, now))
	mock.ExpectQuery(`SELECT id, email, name, status, password_hash`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "status", "password_hash"}).
			AddRow(1, "a@x.com", "Ann", "I am new!", string(hash)))

	// Bob's delete attempt loads the post, sees creator 1, and stops.
	mock.ExpectQuery(`SELECT p.id, p.title, p.content, p.image_url`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "content", "image_url", "creator_id", "name", "created_at", "updated_at",
		}).AddRow(7, "Hello World", "Hello content!", "images/a.png", 1, "Ann", now, now))

	cfg := testConfig(t)
	srv := httptest.NewServer(newRouter(db, cfg))
	defer srv.Close()

	// 1) Signup
	signupBody, _ := json.Marshal(map[string]string{
		"email": "a@x.com", "password": "secret1", "name": "Ann",
	})
	req, _ := http.NewRequest("PUT", srv.URL+"/auth/signup", bytes.NewReader(signupBody))
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("signup request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup status: got %d, want 201", resp.StatusCode)
	}

	// 2) Login
	loginBody, _ := json.Marshal(map[string]string{"email": "a@x.com", "password": "secret1"})
	loginResp, err := http.Post(srv.URL+"/auth/login", "application/json", bytes.NewReader(loginBody))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	var loginOut struct {
		Token  string `json:"token"`
		UserID int    `json:"userId"`
	}
	if err := json.NewDecoder(loginResp.Body).Decode(&loginOut); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	loginResp.Body.Close()
	if loginOut.Token == "" || loginOut.UserID != 1 {
		t.Fatalf("unexpected login response: %+v", loginOut)
	}

	// 3) Create a post with Ann's token
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	w.WriteField("title", "Hello World")
	w.WriteField("content", "Hello content!")
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, "cat.png"))
	header.Set("Content-Type", "image/png")
	part, _ := w.CreatePart(header)
	part.Write([]byte("png-bytes"))
	w.Close()

	req, _ = http.NewRequest("POST", srv.URL+"/feed/post", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+loginOut.Token)
	createResp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("create post request: %v", err)
	}
	var createOut struct {
		Creator struct {
			Name string `json:"name"`
		} `json:"creator"`
		Post struct {
			ID int `json:"_id"`
		} `json:"post"`
	}
	if err := json.NewDecoder(createResp.Body).Decode(&createOut); err != nil {
		t.Fatalf("decode create: %v", err)
	}
	createResp.Body.Close()
	if createResp.StatusCode != http.StatusCreated {
		t.Fatalf("create status: got %d, want 201", createResp.StatusCode)
	}
	if createOut.Creator.Name != "Ann" || createOut.Post.ID != 7 {
		t.Fatalf("unexpected create response: %+v", createOut)
	}

	// 4) Delete with a different user's token -> 403
	bobToken, err := auth.New(cfg.JWTSecret, time.Hour).Issue(2, "bob@x.com")
	if err != nil {
		t.Fatalf("issue bob token: %v", err)
	}
	req, _ = http.NewRequest("DELETE", fmt.Sprintf("%s/feed/post/%d", srv.URL, createOut.Post.ID), nil)
	req.Header.Set("Authorization", "Bearer "+bobToken)
	deleteResp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("delete request: %v", err)
	}
	deleteResp.Body.Close()
	if deleteResp.StatusCode != http.StatusForbidden {
		t.Errorf("delete status: got %d, want 403", deleteResp.StatusCode)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

// TestAPI_FeedRequiresToken confirms protected routes reject anonymous calls.
func TestAPI_FeedRequiresToken(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	srv := httptest.NewServer(newRouter(db, testConfig(t)))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/feed/posts")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("GET /feed/posts status: got %d, want 401", resp.StatusCode)
	}
}

// TestAPI_Health is a quick smoke test for the health endpoint.
func TestAPI_Health(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	srv := httptest.NewServer(newRouter(db, testConfig(t)))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("health request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /health status: got %d, want 200", resp.StatusCode)
	}
}

// TestAPI_Ready checks that /ready pings the DB and returns 200 when DB is reachable.
func TestAPI_Ready(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	srv := httptest.NewServer(newRouter(db, testConfig(t)))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/ready")
	if err != nil {
		t.Fatalf("ready request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /ready status: got %d, want 200", resp.StatusCode)
	}
}
