package posts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"time"

	"github.com/daylansit/social-blog/cmd/cli/config"
	"github.com/daylansit/social-blog/cmd/cli/output"
	"github.com/spf13/cobra"
)

type post struct {
	ID       int    `json:"_id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl"`
	Creator  struct {
		ID   int    `json:"_id"`
		Name string `json:"name"`
	} `json:"creator"`
	CreatedAt time.Time `json:"createdAt"`
}

// ==========================
// Init Posts
// ==========================
func InitPosts(rootCmd *cobra.Command) {

	postsCmd := &cobra.Command{
		Use:   "posts",
		Short: "Manage feed posts",
	}

	postsCmd.AddCommand(
		listPostsCmd(),
		getPostCmd(),
		createPostCmd(),
		updatePostCmd(),
		deletePostCmd(),
	)

	rootCmd.AddCommand(postsCmd)
}

// ==========================
// LIST
// ==========================
func listPostsCmd() *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List feed posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := config.ReadToken()
			if err != nil {
				return fmt.Errorf("please login first")
			}

			var out struct {
				Posts      []post `json:"posts"`
				TotalItems int    `json:"totalItems"`
			}
			path := fmt.Sprintf("/feed/posts?page=%d", page)
			if err := doRequest("GET", path, nil, "", token, &out); err != nil {
				return err
			}

			rows := make([][]interface{}, 0, len(out.Posts))
			for _, p := range out.Posts {
				rows = append(rows, []interface{}{
					p.ID, p.Title, p.Creator.Name, p.CreatedAt.Format(time.RFC3339),
				})
			}
			output.RenderTable([]string{"ID", "Title", "Creator", "Created"}, rows)
			fmt.Printf("Total posts: %d\n", out.TotalItems)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "feed page to fetch")

	return cmd
}

// ==========================
// GET
// ==========================
func getPostCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := config.ReadToken()
			if err != nil {
				return fmt.Errorf("please login first")
			}

			var out struct {
				Post post `json:"post"`
			}
			if err := doRequest("GET", "/feed/post/"+args[0], nil, "", token, &out); err != nil {
				return err
			}

			b, _ := json.MarshalIndent(out.Post, "", "  ")
			fmt.Println(string(b))
			return nil
		},
	}
}

// ==========================
// CREATE
// ==========================
func createPostCmd() *cobra.Command {
	var title, content, image string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a post with an image",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := config.ReadToken()
			if err != nil {
				return fmt.Errorf("please login first")
			}
			if image == "" {
				return fmt.Errorf("an image file is required")
			}

			body, contentType, err := multipartForm(map[string]string{
				"title":   title,
				"content": content,
			}, image)
			if err != nil {
				return err
			}

			var out struct {
				Message string `json:"message"`
				Post    post   `json:"post"`
			}
			if err := doRequest("POST", "/feed/post", body, contentType, token, &out); err != nil {
				return err
			}

			fmt.Printf("%s (post id %d)\n", out.Message, out.Post.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "post title (min 5 characters)")
	cmd.Flags().StringVar(&content, "content", "", "post content (min 5 characters)")
	cmd.Flags().StringVar(&image, "image", "", "path to a PNG or JPEG file")

	return cmd
}

// ==========================
// UPDATE
// ==========================
func updatePostCmd() *cobra.Command {
	var title, content, image, imageURL string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a post you created",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := config.ReadToken()
			if err != nil {
				return fmt.Errorf("please login first")
			}
			if image == "" && imageURL == "" {
				return fmt.Errorf("either --image or --image-url is required")
			}

			fields := map[string]string{
				"title":   title,
				"content": content,
			}
			if imageURL != "" {
				fields["image"] = imageURL
			}

			body, contentType, err := multipartForm(fields, image)
			if err != nil {
				return err
			}

			var out struct {
				Message string `json:"message"`
				Post    post   `json:"post"`
			}
			if err := doRequest("PUT", "/feed/post/"+args[0], body, contentType, token, &out); err != nil {
				return err
			}

			fmt.Println(out.Message)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "post title (min 5 characters)")
	cmd.Flags().StringVar(&content, "content", "", "post content (min 5 characters)")
	cmd.Flags().StringVar(&image, "image", "", "path to a new PNG or JPEG file")
	cmd.Flags().StringVar(&imageURL, "image-url", "", "existing image reference to keep")

	return cmd
}

// ==========================
// DELETE
// ==========================
func deletePostCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a post you created",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := config.ReadToken()
			if err != nil {
				return fmt.Errorf("please login first")
			}

			var out struct {
				Message string `json:"message"`
			}
			if err := doRequest("DELETE", "/feed/post/"+args[0], nil, "", token, &out); err != nil {
				return err
			}

			fmt.Println(out.Message)
			return nil
		},
	}
}

// multipartForm builds a multipart body with the given text fields, plus the
// file at imagePath (when non-empty) as the "image" part.
func multipartForm(fields map[string]string, imagePath string) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}

	if imagePath != "" {
		f, err := os.Open(imagePath)
		if err != nil {
			return nil, "", err
		}
		defer f.Close()

		contentType := mime.TypeByExtension(filepath.Ext(imagePath))
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="image"; filename=%q`, filepath.Base(imagePath)))
		header.Set("Content-Type", contentType)

		part, err := w.CreatePart(header)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, f); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func doRequest(method, path string, body io.Reader, contentType, token string, out interface{}) error {
	req, err := http.NewRequest(method, config.APIURL()+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Authorization", "Bearer "+token)

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
