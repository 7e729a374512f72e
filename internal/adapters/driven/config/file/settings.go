package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/jasonbrettpreston/buildo-sub002/internal/core/domain"
)

// Configuration keys.
const (
	KeyBatchSize       = "sync.batch_size"
	KeyStorageDriver   = "storage.driver"
	KeyStoragePath     = "storage.path"
	KeyStorageDSN      = "storage.dsn"
	KeyLogVerbose      = "log.verbose"
	KeyLogFormat       = "log.format"
	KeyMetricsTextfile = "metrics.textfile"
)

// Environment overrides, applied after the file.
const (
	EnvStorageDriver = "BUILDO_STORAGE_DRIVER"
	EnvStoragePath   = "BUILDO_STORAGE_PATH"
	EnvPostgresDSN   = "BUILDO_POSTGRES_DSN"
	EnvBatchSize     = "BUILDO_BATCH_SIZE"
)

// Storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Settings is the resolved runtime configuration.
type Settings struct {
	BatchSize       int    `validate:"min=1,max=100000"`
	StorageDriver   string `validate:"oneof=sqlite postgres memory"`
	StoragePath     string
	PostgresDSN     string `validate:"required_if=StorageDriver postgres"`
	Verbose         bool
	LogFormat       string `validate:"oneof=console json"`
	MetricsTextfile string
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		BatchSize:     500,
		StorageDriver: DriverSQLite,
		LogFormat:     "console",
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment.
// A missing file is not an error; variables already set are kept.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("loading %s: %w", path, err)
}

// Settings resolves defaults, then file values, then environment overrides,
// and validates the result.
func (s *ConfigStore) Settings() (*Settings, error) {
	cfg := DefaultSettings()

	if _, ok := s.Get(KeyBatchSize); ok {
		cfg.BatchSize = s.GetInt(KeyBatchSize)
	}
	if v := s.GetString(KeyStorageDriver); v != "" {
		cfg.StorageDriver = v
	}
	cfg.StoragePath = s.GetString(KeyStoragePath)
	cfg.PostgresDSN = s.GetString(KeyStorageDSN)
	cfg.Verbose = s.GetBool(KeyLogVerbose)
	if v := s.GetString(KeyLogFormat); v != "" {
		cfg.LogFormat = v
	}
	cfg.MetricsTextfile = s.GetString(KeyMetricsTextfile)

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	cfg.StorageDriver = strings.ToLower(cfg.StorageDriver)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings against their constraints.
func (c *Settings) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(msgs, "; "))
}

func applyEnv(cfg *Settings) error {
	if v, ok := os.LookupEnv(EnvStorageDriver); ok && v != "" {
		cfg.StorageDriver = v
	}
	if v, ok := os.LookupEnv(EnvStoragePath); ok && v != "" {
		cfg.StoragePath = v
	}
	if v, ok := os.LookupEnv(EnvPostgresDSN); ok && v != "" {
		cfg.PostgresDSN = v
	}
	if v, ok := os.LookupEnv(EnvBatchSize); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer, got %q", domain.ErrInvalidInput, EnvBatchSize, v)
		}
		cfg.BatchSize = n
	}
	return nil
}

// describe renders one validation failure in config key terms.
func describe(fe validator.FieldError) string {
	key := map[string]string{
		"BatchSize":     KeyBatchSize,
		"StorageDriver": KeyStorageDriver,
		"PostgresDSN":   KeyStorageDSN,
		"LogFormat":     KeyLogFormat,
	}[fe.Field()]
	if key == "" {
		key = fe.Field()
	}

	switch fe.Tag() {
	case "min", "max":
		return fmt.Sprintf("%s must be between 1 and 100000, got %v", key, fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", key, fe.Param(), fe.Value())
	case "required_if":
		return fmt.Sprintf("%s is required when %s is postgres", key, KeyStorageDriver)
	default:
		return fmt.Sprintf("%s failed %s validation", key, fe.Tag())
	}
}
