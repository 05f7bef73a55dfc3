// Package archive stores raw fetched pages for later inspection. Archiving
// is strictly best-effort: callers log and continue when a save fails.
package archive

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	satbrowse "github.com/psagers/sat-browse"
)

// New creates an archive based on the provider configuration.
func New(ctx context.Context, logger *slog.Logger, cfg satbrowse.ArchiveConfig) (satbrowse.Archive, error) {
	switch cfg.Provider {
	case "s3":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.S3Region))
		if err != nil {
			return nil, fmt.Errorf("loading AWS config: %w", err)
		}

		logger.Info("initialized S3 archive",
			slog.String("bucket", cfg.S3Bucket),
			slog.String("region", cfg.S3Region),
		)
		return NewS3Archive(s3.NewFromConfig(awsCfg), cfg.S3Bucket), nil

	case "local":
		return NewLocalArchive(cfg.LocalPath)

	default:
		return &noopArchive{}, nil
	}
}

// noopArchive discards everything. Used when archiving is disabled.
type noopArchive struct{}

func (a *noopArchive) Save(ctx context.Context, key string, body []byte) error {
	return nil
}

// LocalArchive stores pages under a directory on the local filesystem.
type LocalArchive struct {
	root string
}

// NewLocalArchive creates the archive directory if needed.
func NewLocalArchive(root string) (*LocalArchive, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}
	return &LocalArchive{root: root}, nil
}

// Save writes the body to <root>/<key>.
func (a *LocalArchive) Save(ctx context.Context, key string, body []byte) error {
	path := filepath.Join(a.root, key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating archive subdirectory: %w", err)
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("writing archive file: %w", err)
	}
	return nil
}
