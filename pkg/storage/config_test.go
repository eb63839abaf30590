package storage_test

import (
	"testing"

	"github.com/harshad-dhokane/new-docx/pkg/storage"
)

func TestConfig_Defaults(t *testing.T) {
	var cfg storage.Config
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}

	if cfg.Backend != storage.BackendFilesystem {
		t.Errorf("Backend = %q, want filesystem", cfg.Backend)
	}
	if cfg.BasePath != ".data/blobs" {
		t.Errorf("BasePath = %q", cfg.BasePath)
	}
	if cfg.MaxUploadSizeBytes() != 50*1000*1000 {
		t.Errorf("MaxUploadSizeBytes() = %d, want 50000000", cfg.MaxUploadSizeBytes())
	}
}

func TestConfig_Env(t *testing.T) {
	t.Setenv("TEST_STORAGE_BACKEND", "minio")
	t.Setenv("TEST_MINIO_ENDPOINT", "localhost:9000")
	t.Setenv("TEST_MINIO_SSL", "true")
	t.Setenv("TEST_MAX_UPLOAD", "10MB")

	cfg := storage.Config{}
	err := cfg.Finalize(&storage.Env{
		Backend:       "TEST_STORAGE_BACKEND",
		MinioEndpoint: "TEST_MINIO_ENDPOINT",
		MinioUseSSL:   "TEST_MINIO_SSL",
		MaxUploadSize: "TEST_MAX_UPLOAD",
	})
	if err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}

	if cfg.Backend != storage.BackendMinio {
		t.Errorf("Backend = %q, want minio", cfg.Backend)
	}
	if cfg.Minio.Endpoint != "localhost:9000" || !cfg.Minio.UseSSL {
		t.Errorf("Minio = %+v", cfg.Minio)
	}
	if cfg.MaxUploadSizeBytes() != 10*1000*1000 {
		t.Errorf("MaxUploadSizeBytes() = %d", cfg.MaxUploadSizeBytes())
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name string
		cfg  storage.Config
	}{
		{"minio without endpoint", storage.Config{Backend: storage.BackendMinio}},
		{"unknown backend", storage.Config{Backend: "s4"}},
		{"bad size", storage.Config{MaxUploadSize: "lots"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Finalize(nil); err == nil {
				t.Error("Finalize() succeeded, want error")
			}
		})
	}
}

func TestConfig_Merge(t *testing.T) {
	base := storage.Config{BasePath: "/base", MaxUploadSize: "5MB"}
	base.Merge(&storage.Config{
		Backend: storage.BackendMinio,
		Minio:   storage.MinioConfig{Endpoint: "s3:9000", Bucket: "docs"},
	})

	if base.Backend != storage.BackendMinio {
		t.Errorf("Backend = %q", base.Backend)
	}
	if base.BasePath != "/base" {
		t.Errorf("BasePath = %q, want unchanged", base.BasePath)
	}
	if base.Minio.Bucket != "docs" || base.Minio.Endpoint != "s3:9000" {
		t.Errorf("Minio = %+v", base.Minio)
	}
}
