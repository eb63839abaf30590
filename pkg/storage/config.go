package storage

import (
	"fmt"
	"os"
	"strconv"

	"github.com/docker/go-units"
)

// Backend names a storage implementation.
type Backend string

const (
	BackendFilesystem Backend = "filesystem"
	BackendMinio      Backend = "minio"
)

// Config contains blob storage configuration.
type Config struct {
	Backend Backend `toml:"backend"`

	// BasePath is the root directory for filesystem storage.
	// Default: ".data/blobs"
	BasePath         string      `toml:"base_path"`
	MaxUploadSize    string      `toml:"max_upload_size"`
	Minio            MinioConfig `toml:"minio"`
	maxUploadSizeVal int64
}

// MinioConfig addresses an S3-compatible bucket.
type MinioConfig struct {
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	Bucket    string `toml:"bucket"`
	UseSSL    bool   `toml:"use_ssl"`
}

type Env struct {
	Backend        string
	BasePath       string
	MaxUploadSize  string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    string
}

func (c *Config) MaxUploadSizeBytes() int64 {
	return c.maxUploadSizeVal
}

// Finalize applies defaults, loads environment overrides, and validates the storage configuration.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *Config) Merge(overlay *Config) {
	if overlay.Backend != "" {
		c.Backend = overlay.Backend
	}
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}
	if overlay.Minio.Endpoint != "" {
		c.Minio.Endpoint = overlay.Minio.Endpoint
	}
	if overlay.Minio.AccessKey != "" {
		c.Minio.AccessKey = overlay.Minio.AccessKey
	}
	if overlay.Minio.SecretKey != "" {
		c.Minio.SecretKey = overlay.Minio.SecretKey
	}
	if overlay.Minio.Bucket != "" {
		c.Minio.Bucket = overlay.Minio.Bucket
	}
	if overlay.Minio.UseSSL {
		c.Minio.UseSSL = true
	}
}

func (c *Config) loadDefaults() {
	if c.Backend == "" {
		c.Backend = BackendFilesystem
	}
	if c.BasePath == "" {
		c.BasePath = ".data/blobs"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "50MB"
	}
	if c.Minio.Bucket == "" {
		c.Minio.Bucket = "templates"
	}
}

func (c *Config) loadEnv(env *Env) {
	set := func(name string, dst *string) {
		if name == "" {
			return
		}
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}

	if env.Backend != "" {
		if v := os.Getenv(env.Backend); v != "" {
			c.Backend = Backend(v)
		}
	}
	set(env.BasePath, &c.BasePath)
	set(env.MaxUploadSize, &c.MaxUploadSize)
	set(env.MinioEndpoint, &c.Minio.Endpoint)
	set(env.MinioAccessKey, &c.Minio.AccessKey)
	set(env.MinioSecretKey, &c.Minio.SecretKey)
	set(env.MinioBucket, &c.Minio.Bucket)

	if env.MinioUseSSL != "" {
		if b, err := strconv.ParseBool(os.Getenv(env.MinioUseSSL)); err == nil {
			c.Minio.UseSSL = b
		}
	}
}

func (c *Config) validate() error {
	switch c.Backend {
	case BackendFilesystem:
		if c.BasePath == "" {
			return fmt.Errorf("base_path required")
		}
	case BackendMinio:
		if c.Minio.Endpoint == "" {
			return fmt.Errorf("minio.endpoint required")
		}
		if c.Minio.Bucket == "" {
			return fmt.Errorf("minio.bucket required")
		}
	default:
		return fmt.Errorf("unknown backend %q (must be filesystem or minio)", c.Backend)
	}

	size, err := units.FromHumanSize(c.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_upload_size must be positive")
	}
	c.maxUploadSizeVal = size

	return nil
}
