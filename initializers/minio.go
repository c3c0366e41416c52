package initializers

import (
	"context"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"gopkg.in/yaml.v3"
)

type BackupConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// Schedule is a cron expression; empty disables scheduled backups.
	Schedule string
	// Keep is how many snapshots to retain per collection; 0 keeps all.
	Keep int
}

var MinioClient *minio.Client
var BackupConf BackupConfig

// backupConfigYAML defines optional YAML configuration for backup settings.
// If present, it overrides environment variables for backup-related fields.
type backupConfigYAML struct {
	Bucket   string `yaml:"bucket"`
	Schedule string `yaml:"schedule"`
	Keep     int    `yaml:"keep"`
}

// loadBackupConfig tries to load YAML config from disk. If not found, returns nil with error.
func loadBackupConfig() (*backupConfigYAML, error) {
	path := os.Getenv("BACKUP_CONFIG_FILE")
	if strings.TrimSpace(path) == "" {
		path = "config/backup.yaml"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg backupConfigYAML
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func InitMinio() error {
	BackupConf = BackupConfig{
		Endpoint:  os.Getenv("MINIO_ENDPOINT"),
		AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		SecretKey: os.Getenv("MINIO_SECRET_KEY"),
		Bucket:    os.Getenv("MINIO_BUCKET"),
		UseSSL:    parseBool(os.Getenv("MINIO_USE_SSL")),
		Schedule:  os.Getenv("BACKUP_SCHEDULE"),
		Keep:      parseInt(os.Getenv("BACKUP_KEEP"), 0),
	}

	// If YAML config exists, override backup-related settings
	if yamlCfg, err := loadBackupConfig(); err == nil && yamlCfg != nil {
		if yamlCfg.Bucket != "" {
			BackupConf.Bucket = yamlCfg.Bucket
		}
		if yamlCfg.Schedule != "" {
			BackupConf.Schedule = yamlCfg.Schedule
		}
		if yamlCfg.Keep > 0 {
			BackupConf.Keep = yamlCfg.Keep
		}
	}
	if BackupConf.Bucket == "" {
		BackupConf.Bucket = "gymdash-backups"
	}

	client, err := minio.New(BackupConf.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(BackupConf.AccessKey, BackupConf.SecretKey, ""),
		Secure: BackupConf.UseSSL,
	})
	if err != nil {
		return err
	}
	MinioClient = client
	exists, errBucket := client.BucketExists(context.Background(), BackupConf.Bucket)
	if errBucket != nil {
		return errBucket
	}
	if !exists {
		errCreate := client.MakeBucket(context.Background(), BackupConf.Bucket, minio.MakeBucketOptions{})
		if errCreate != nil {
			return errCreate
		}
	}

	log.Println("Minio backup bucket ready:", BackupConf.Bucket)
	return nil
}

func parseBool(val string) bool {
	return strings.ToLower(val) == "true"
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	v, err := strconv.Atoi(val)
	if err != nil {
		return def
	}
	return v
}
