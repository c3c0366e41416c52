package initializers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"gymdash-api/repository"

	"github.com/minio/minio-go/v7"
	"github.com/robfig/cron/v3"
)

// Backupper snapshots every collection to the backup bucket as one JSON
// object per collection, keyed by run timestamp.
type Backupper struct {
	store  repository.DocStore
	client *minio.Client
	bucket string
	keep   int
}

func NewBackupper(store repository.DocStore) *Backupper {
	return &Backupper{
		store:  store,
		client: MinioClient,
		bucket: BackupConf.Bucket,
		keep:   BackupConf.Keep,
	}
}

type backupDocument struct {
	ID  string          `json:"id"`
	Doc json.RawMessage `json:"doc"`
}

// Run snapshots all collections and returns the object key prefix of the run.
func (b *Backupper) Run(ctx context.Context) (string, error) {
	prefix := time.Now().UTC().Format("2006-01-02T15-04-05Z")
	collections, err := b.store.Collections(ctx)
	if err != nil {
		return "", fmt.Errorf("list collections: %w", err)
	}
	for _, collection := range collections {
		docs, _, err := b.store.Find(ctx, collection, nil, 0, 0)
		if err != nil {
			return "", fmt.Errorf("read collection %s: %w", collection, err)
		}
		out := make([]backupDocument, 0, len(docs))
		for _, d := range docs {
			out = append(out, backupDocument{ID: d.ID, Doc: json.RawMessage(d.Data)})
		}
		payload, err := json.Marshal(out)
		if err != nil {
			return "", fmt.Errorf("encode collection %s: %w", collection, err)
		}
		key := prefix + "/" + collection + ".json"
		_, err = b.client.PutObject(ctx, b.bucket, key, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
			ContentType: "application/json",
		})
		if err != nil {
			return "", fmt.Errorf("upload %s: %w", key, err)
		}
		slog.Info("collection backed up", "collection", collection, "key", key, "documents", len(out))
	}
	if b.keep > 0 {
		if err := b.pruneOldRuns(ctx); err != nil {
			slog.Warn("failed to prune old backups", "err", err)
		}
	}
	return prefix, nil
}

// pruneOldRuns drops the oldest run prefixes beyond the retention count. Run
// prefixes sort chronologically because of the timestamp layout.
func (b *Backupper) pruneOldRuns(ctx context.Context) error {
	prefixes := map[string]bool{}
	for object := range b.client.ListObjects(ctx, b.bucket, minio.ListObjectsOptions{Recursive: true}) {
		if object.Err != nil {
			return object.Err
		}
		if i := strings.Index(object.Key, "/"); i > 0 {
			prefixes[object.Key[:i]] = true
		}
	}
	names := make([]string, 0, len(prefixes))
	for p := range prefixes {
		names = append(names, p)
	}
	sort.Strings(names)
	if len(names) <= b.keep {
		return nil
	}
	for _, stale := range names[:len(names)-b.keep] {
		for object := range b.client.ListObjects(ctx, b.bucket, minio.ListObjectsOptions{Prefix: stale + "/", Recursive: true}) {
			if object.Err != nil {
				return object.Err
			}
			if err := b.client.RemoveObject(ctx, b.bucket, object.Key, minio.RemoveObjectOptions{}); err != nil {
				return err
			}
		}
	}
	return nil
}

// StartBackupSchedule runs snapshots on the configured cron schedule. The
// returned cron is already started; callers stop it on shutdown. A nil cron
// means scheduling is disabled.
func StartBackupSchedule(b *Backupper) (*cron.Cron, error) {
	if BackupConf.Schedule == "" {
		return nil, nil
	}
	c := cron.New()
	_, err := c.AddFunc(BackupConf.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		prefix, err := b.Run(ctx)
		if err != nil {
			slog.Error("scheduled backup failed", "err", err)
			return
		}
		slog.Info("scheduled backup complete", "prefix", prefix)
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
