// Package cli implements the s3fs command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/jmgilman/s3fs"
	"github.com/jmgilman/s3fs/miniostore"
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for s3fs
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "s3fs",
		Short: "Glob, copy and move objects on S3-compatible storage",
		Long: `s3fs presents an S3-compatible bucket as a hierarchical filesystem:
directories are synthesized from key prefixes and shell-style glob
patterns (*, ?, [...]) are expanded over flat object listings.

Connection settings are read from the environment (S3FS_ENDPOINT,
S3FS_BUCKET, S3FS_ACCESS_KEY, S3FS_SECRET_KEY, S3FS_USE_SSL,
S3FS_PREFIX, S3FS_BASE_URL), optionally loaded from a .env file.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.AddCommand(NewGlobCommand())
	cmd.AddCommand(NewMkdirCommand())
	cmd.AddCommand(NewCpCommand())
	cmd.AddCommand(NewMvCommand())
	cmd.AddCommand(NewPutCommand())

	return cmd
}

// newDriver builds a driver from the process environment.
func newDriver() (*s3fs.Driver, error) {
	endpoint := os.Getenv("S3FS_ENDPOINT")
	bucket := os.Getenv("S3FS_BUCKET")

	store, err := miniostore.New(miniostore.Config{
		Endpoint:  endpoint,
		Bucket:    bucket,
		AccessKey: os.Getenv("S3FS_ACCESS_KEY"),
		SecretKey: os.Getenv("S3FS_SECRET_KEY"),
		UseSSL:    os.Getenv("S3FS_USE_SSL") != "false",
		Prefix:    os.Getenv("S3FS_PREFIX"),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to storage: %w", err)
	}

	baseURL := os.Getenv("S3FS_BASE_URL")
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s/%s/", endpoint, bucket)
	}

	return s3fs.New(s3fs.Config{
		Store:   store,
		BaseURL: baseURL,
	})
}
