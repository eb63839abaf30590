package config

import (
	"github.com/harshad-dhokane/new-docx/internal/converter"
	"github.com/harshad-dhokane/new-docx/pkg/database"
	"github.com/harshad-dhokane/new-docx/pkg/logging"
	"github.com/harshad-dhokane/new-docx/pkg/storage"
)

var databaseEnv = &database.Env{
	Host:            "DATABASE_HOST",
	Port:            "DATABASE_PORT",
	Name:            "DATABASE_NAME",
	User:            "DATABASE_USER",
	Password:        "DATABASE_PASSWORD",
	MaxOpenConns:    "DATABASE_MAX_OPEN_CONNS",
	MaxIdleConns:    "DATABASE_MAX_IDLE_CONNS",
	ConnMaxLifetime: "DATABASE_CONN_MAX_LIFETIME",
	ConnTimeout:     "DATABASE_CONN_TIMEOUT",
	SSLMode:         "DATABASE_SSL_MODE",
}

var storageEnv = &storage.Env{
	Backend:        "STORAGE_BACKEND",
	BasePath:       "STORAGE_BASE_PATH",
	MaxUploadSize:  "STORAGE_MAX_UPLOAD_SIZE",
	MinioEndpoint:  "STORAGE_MINIO_ENDPOINT",
	MinioAccessKey: "STORAGE_MINIO_ACCESS_KEY",
	MinioSecretKey: "STORAGE_MINIO_SECRET_KEY",
	MinioBucket:    "STORAGE_MINIO_BUCKET",
	MinioUseSSL:    "STORAGE_MINIO_USE_SSL",
}

var loggingEnv = &logging.Env{
	Level:     "LOGGING_LEVEL",
	Format:    "LOGGING_FORMAT",
	AddSource: "LOGGING_ADD_SOURCE",
}

var converterEnv = &converter.Env{
	Binary:       "CONVERTER_BINARY",
	Timeout:      "CONVERTER_TIMEOUT",
	ProbeTimeout: "CONVERTER_PROBE_TIMEOUT",
	TempDir:      "CONVERTER_TEMP_DIR",
	Grace:        "CONVERTER_GRACE",
}
