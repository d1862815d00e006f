package main

import (
	"fmt"
	"os"

	"github.com/daylansit/social-blog/cmd/cli/auth"
	"github.com/daylansit/social-blog/cmd/cli/posts"
	"github.com/daylansit/social-blog/cmd/cli/root"
)

func main() {
	rootCmd := root.GetRoot()
	auth.InitAuth(rootCmd)
	posts.InitPosts(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
