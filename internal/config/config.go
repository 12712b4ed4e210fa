package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
	"github.com/dotnetappdev/renameit/internal/media"
	"github.com/dotnetappdev/renameit/internal/naming"
	"github.com/dotnetappdev/renameit/internal/provider"
	"github.com/go-playground/validator/v10"
)

// AppName names the config and data directories.
const AppName = "renameit"

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// FormatConfig holds the user's rename defaults
type FormatConfig struct {
	DefaultPattern string `json:"default_pattern" validate:"required,pattern"`
	DefaultSource  string `json:"default_source" validate:"required"`

	Recursive    bool     `json:"recursive"`
	Backup       bool     `json:"backup"`
	BackupFolder string   `json:"backup_folder"`
	SkipExisting bool     `json:"skip_existing" validate:"excluded_with=Overwrite"`
	Overwrite    bool     `json:"overwrite"`
	Extensions   []string `json:"extensions" validate:"min=1,dive,startswith=.,excludesall=/\\"`
	MaxDepth     int      `json:"max_depth" validate:"min=-1"`
	WorkerCount  int      `json:"worker_count" validate:"min=1,max=64"`

	LogRetentionDays int  `json:"log_retention_days" validate:"min=0"`
	EnableLogging    bool `json:"enable_logging"`

	TemplatesDB string `json:"templates_db"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *FormatConfig {
	return &FormatConfig{
		DefaultPattern:   "{n} - {s00e00} - {t}",
		DefaultSource:    provider.Default,
		Extensions:       slices.Clone(media.DefaultVideoExtensions),
		MaxDepth:         -1,
		WorkerCount:      8,
		LogRetentionDays: 30,
		EnableLogging:    true,
	}
}

var pathOverride string

// SetPath points ConfigPath at path instead of the XDG location. An empty
// path restores the default.
func SetPath(path string) {
	pathOverride = path
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	if pathOverride != "" {
		return pathOverride
	}
	return filepath.Join(xdg.ConfigHome, AppName, "config.json")
}

// DataDir returns the directory holding journals, logs and the template
// database.
func DataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// TemplatesPath returns the configured template database path, falling back
// to templates.db in DataDir.
func (cfg *FormatConfig) TemplatesPath() string {
	if cfg.TemplatesDB != "" {
		return cfg.TemplatesDB
	}
	return filepath.Join(DataDir(), "templates.db")
}

// Load reads the configuration from disk. A missing file yields the defaults.
func Load() (*FormatConfig, error) {
	path := ConfigPath()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Decoding over the defaults keeps absent booleans at their default.
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Fill in any blanked fields with defaults
	defaults := DefaultConfig()
	if strings.TrimSpace(cfg.DefaultPattern) == "" {
		cfg.DefaultPattern = defaults.DefaultPattern
	}
	if strings.TrimSpace(cfg.DefaultSource) == "" {
		cfg.DefaultSource = defaults.DefaultSource
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = defaults.Extensions
	}
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = defaults.WorkerCount
	}
	if cfg.LogRetentionDays == 0 {
		cfg.LogRetentionDays = defaults.LogRetentionDays
	}
	cfg.DefaultSource = provider.Canonical(cfg.DefaultSource)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to disk
func (cfg *FormatConfig) Save() error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	path := ConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("pattern", func(fl validator.FieldLevel) bool {
		return naming.Validate(fl.Field().String()) == nil
	}); err != nil {
		panic(fmt.Sprintf("registering pattern validation: %v", err))
	}
	return v
}

// Validate checks every field against its constraints.
func (cfg *FormatConfig) Validate() error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	msgs := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		msgs = append(msgs, formatValidationError(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

func formatValidationError(fe validator.FieldError) string {
	field := jsonName(fe.StructField())
	switch fe.Tag() {
	case "pattern":
		return fmt.Sprintf("%s: %v", field, naming.Validate(fmt.Sprint(fe.Value())))
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min", "max":
		return fmt.Sprintf("%s must be %s %s", field, map[string]string{"min": "at least", "max": "at most"}[fe.Tag()], fe.Param())
	case "excluded_with":
		return fmt.Sprintf("%s cannot be combined with %s", field, jsonName(fe.Param()))
	case "startswith":
		return fmt.Sprintf("%s entry %q must start with %q", field, fe.Value(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// Keys lists the settable keys in display order.
func Keys() []string {
	return []string{
		"default_pattern", "default_source", "recursive", "backup", "backup_folder",
		"skip_existing", "overwrite", "extensions", "max_depth", "worker_count",
		"enable_logging", "log_retention_days", "templates_db",
	}
}

// Get returns the display value of key.
func (cfg *FormatConfig) Get(key string) (string, error) {
	switch key {
	case "default_pattern":
		return cfg.DefaultPattern, nil
	case "default_source":
		return cfg.DefaultSource, nil
	case "recursive":
		return strconv.FormatBool(cfg.Recursive), nil
	case "backup":
		return strconv.FormatBool(cfg.Backup), nil
	case "backup_folder":
		return cfg.BackupFolder, nil
	case "skip_existing":
		return strconv.FormatBool(cfg.SkipExisting), nil
	case "overwrite":
		return strconv.FormatBool(cfg.Overwrite), nil
	case "extensions":
		return strings.Join(cfg.Extensions, ","), nil
	case "max_depth":
		return strconv.Itoa(cfg.MaxDepth), nil
	case "worker_count":
		return strconv.Itoa(cfg.WorkerCount), nil
	case "enable_logging":
		return strconv.FormatBool(cfg.EnableLogging), nil
	case "log_retention_days":
		return strconv.Itoa(cfg.LogRetentionDays), nil
	case "templates_db":
		return cfg.TemplatesDB, nil
	}
	return "", fmt.Errorf("unknown config key %q", key)
}

// Set parses value into the field named by key and revalidates the result.
// The receiver is left unchanged when an error is returned.
func (cfg *FormatConfig) Set(key, value string) error {
	next := *cfg
	next.Extensions = slices.Clone(cfg.Extensions)

	var err error
	switch key {
	case "default_pattern":
		next.DefaultPattern = value
	case "default_source":
		next.DefaultSource = provider.Canonical(value)
	case "recursive":
		next.Recursive, err = strconv.ParseBool(value)
	case "backup":
		next.Backup, err = strconv.ParseBool(value)
	case "backup_folder":
		next.BackupFolder = value
	case "skip_existing":
		next.SkipExisting, err = strconv.ParseBool(value)
	case "overwrite":
		next.Overwrite, err = strconv.ParseBool(value)
	case "extensions":
		next.Extensions = ParseExtensions(value)
	case "max_depth":
		next.MaxDepth, err = strconv.Atoi(value)
	case "worker_count":
		next.WorkerCount, err = strconv.Atoi(value)
	case "enable_logging":
		next.EnableLogging, err = strconv.ParseBool(value)
	case "log_retention_days":
		next.LogRetentionDays, err = strconv.Atoi(value)
	case "templates_db":
		next.TemplatesDB = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalid, key, err)
	}
	if err := next.Validate(); err != nil {
		return err
	}

	*cfg = next
	return nil
}

// ParseExtensions splits a comma separated extension list, adding the
// leading dot where it is missing and lowercasing each entry.
func ParseExtensions(list string) []string {
	var out []string
	for _, part := range strings.Split(list, ",") {
		ext := strings.ToLower(strings.TrimSpace(part))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if !slices.Contains(out, ext) {
			out = append(out, ext)
		}
	}
	return out
}

func jsonName(structField string) string {
	var b strings.Builder
	for i, r := range structField {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
