package auth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/daylansit/social-blog/cmd/cli/config"
	"github.com/spf13/cobra"
)

// InitAuth registers auth-related CLI commands (signup, login, status) on the root command.
func InitAuth(rootCmd *cobra.Command) {
	rootCmd.AddCommand(signupCmd(), loginCmd(), statusCmd())
}

// ==========================
// SIGNUP
// ==========================
func signupCmd() *cobra.Command {
	var email, password, name string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || password == "" || name == "" {
				return fmt.Errorf("email, password, and name are required")
			}

			var out struct {
				Message string `json:"message"`
				UserID  int    `json:"userId"`
			}
			payload := map[string]string{"email": email, "password": password, "name": name}
			if err := callJSONEndpoint("PUT", "/auth/signup", payload, "", &out); err != nil {
				return fmt.Errorf("failed to sign up: %w", err)
			}

			fmt.Printf("%s (user id %d)\n", out.Message, out.UserID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password (min 5 characters)")
	cmd.Flags().StringVar(&name, "name", "", "Display name")

	return cmd
}

// ==========================
// LOGIN
// ==========================
func loginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the Social Blog API",
		Long:  "Authenticate with the Social Blog API and store a JWT token for subsequent CLI commands.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || password == "" {
				return fmt.Errorf("email and password are required")
			}

			var out struct {
				Token  string `json:"token"`
				UserID int    `json:"userId"`
			}
			payload := map[string]string{"email": email, "password": password}
			if err := callJSONEndpoint("POST", "/auth/login", payload, "", &out); err != nil {
				return fmt.Errorf("failed to login: %w", err)
			}
			if out.Token == "" {
				return fmt.Errorf("login succeeded but no token returned")
			}

			if err := config.SaveToken(out.Token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			fmt.Println("Login successful. Token stored locally.")
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")

	return cmd
}

// ==========================
// STATUS (get / set)
// ==========================
func statusCmd() *cobra.Command {
	var set string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show or update your status text",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := config.ReadToken()
			if err != nil {
				return fmt.Errorf("please login first")
			}

			if set != "" {
				var out struct {
					Message string `json:"message"`
				}
				if err := callJSONEndpoint("PATCH", "/auth/status", map[string]string{"status": set}, token, &out); err != nil {
					return fmt.Errorf("failed to update status: %w", err)
				}
				fmt.Println(out.Message)
				return nil
			}

			var out struct {
				Status string `json:"status"`
			}
			if err := callJSONEndpoint("GET", "/auth/status", nil, token, &out); err != nil {
				return fmt.Errorf("failed to fetch status: %w", err)
			}
			fmt.Println(out.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&set, "set", "", "New status text")

	return cmd
}

func callJSONEndpoint(method, path string, payload interface{}, token string, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, config.APIURL()+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(data))
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return err
		}
	}

	return nil
}
