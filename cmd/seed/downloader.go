package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/stocklens/backend-go/internal/config"
	"github.com/stocklens/backend-go/internal/ingest"
	"github.com/stocklens/backend-go/internal/repository/postgres"
	"github.com/stocklens/backend-go/internal/storage"
	"github.com/urfave/cli/v2"
)

func storageFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "storage-endpoint",
			Usage:    "S3-compatible storage endpoint",
			Required: true,
			EnvVars:  []string{"STORAGE_ENDPOINT"},
		},
		&cli.StringFlag{
			Name:     "storage-access-key",
			Required: true,
			EnvVars:  []string{"STORAGE_ACCESS_KEY"},
		},
		&cli.StringFlag{
			Name:     "storage-secret-key",
			Required: true,
			EnvVars:  []string{"STORAGE_SECRET_KEY"},
		},
		&cli.StringFlag{
			Name:    "storage-bucket",
			Value:   "stocklens-snapshots",
			EnvVars: []string{"STORAGE_BUCKET"},
		},
		&cli.BoolFlag{
			Name:    "storage-use-ssl",
			Value:   true,
			EnvVars: []string{"STORAGE_USE_SSL"},
		},
	}
}

// downloadAndIngest pulls snapshot CSVs from object storage, then feeds the
// local copies through the ingest service.
func downloadAndIngest(c *cli.Context) error {
	client, err := storage.NewMinioClient(config.StorageConfig{
		Endpoint:  c.String("storage-endpoint"),
		AccessKey: c.String("storage-access-key"),
		SecretKey: c.String("storage-secret-key"),
		Bucket:    c.String("storage-bucket"),
		UseSSL:    c.Bool("storage-use-ssl"),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize storage client: %w", err)
	}

	downloadDir := c.String("download-dir")
	if err := os.MkdirAll(downloadDir, 0o755); err != nil {
		return fmt.Errorf("failed to ensure download dir %s: %w", downloadDir, err)
	}

	paths, err := downloadObjects(c.Context, client, c.String("prefix"), downloadDir)
	if err != nil {
		return err
	}
	log.Printf("Downloaded %d snapshot files to %s\n", len(paths), downloadDir)

	db, err := postgres.NewDBFromURL("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	ingester := ingest.NewService(postgres.NewSnapshotRepository(db))

	var stored int
	for _, path := range paths {
		result, err := ingester.IngestFile(c.Context, path)
		if err != nil {
			log.Printf("Failed to ingest %s: %v\n", path, err)
			continue
		}
		stored += result.RowsStored
	}
	log.Printf("Ingestion finished: %d rows stored\n", stored)
	return nil
}

func downloadObjects(ctx context.Context, client storage.ObjectStorage, prefix, destDir string) ([]string, error) {
	objects, err := client.ListObjects(ctx, strings.TrimSpace(prefix))
	if err != nil {
		return nil, fmt.Errorf("failed to list objects for prefix %s: %w", prefix, err)
	}

	var keys []string
	for _, obj := range objects {
		if strings.HasSuffix(strings.ToLower(obj.Key), ".csv") {
			keys = append(keys, obj.Key)
		}
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("no CSV files found for prefix %s", prefix)
	}

	localPaths := make([]string, 0, len(keys))
	for _, key := range keys {
		localPath := filepath.Join(destDir, objectRelativePath(prefix, key))
		if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to prepare directory for %s: %w", localPath, err)
		}
		if err := client.DownloadObject(ctx, key, localPath); err != nil {
			return nil, err
		}
		localPaths = append(localPaths, localPath)
	}

	sort.Strings(localPaths)
	return localPaths, nil
}

func objectRelativePath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	prefixTrimmed := strings.TrimSuffix(strings.TrimSpace(prefix), "/")
	rel := strings.TrimPrefix(key, prefixTrimmed+"/")
	if rel == "" {
		return filepath.Base(key)
	}
	return rel
}
