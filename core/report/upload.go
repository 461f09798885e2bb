package report

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"migration-audit/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Upload archives every CSV produced under dir to object storage beneath
// objectPrefix, creating the bucket if it does not exist. The audit result
// on disk is authoritative; an upload failure is reported back but callers
// treat it as non-fatal.
func Upload(ctx context.Context, client storage.Client, bucket, objectPrefix, dir string, logger *zap.Logger) error {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read results directory: %w", err)
	}

	uploaded := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".csv") {
			continue
		}
		local := filepath.Join(dir, entry.Name())
		f, err := os.Open(local)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", local, err)
		}
		info, err := f.Stat()
		if err != nil {
			f.Close()
			return fmt.Errorf("failed to stat %s: %w", local, err)
		}

		object := path.Join(objectPrefix, entry.Name())
		_, err = client.PutObject(ctx, bucket, object, f, info.Size(), minio.PutObjectOptions{
			ContentType: "text/csv",
		})
		f.Close()
		if err != nil {
			return fmt.Errorf("failed to upload %s: %w", object, err)
		}
		uploaded++
	}

	logger.Info("Uploaded audit reports",
		zap.String("bucket", bucket),
		zap.String("prefix", objectPrefix),
		zap.Int("files", uploaded),
	)
	return nil
}
