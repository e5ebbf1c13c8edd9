// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/ragdesk/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete ragdesk configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// Backend connection
	Backend BackendConfig `toml:"backend" json:"backend"`

	// Chat defaults
	Chat ChatConfig `toml:"chat" json:"chat"`

	// Upload defaults and limits
	Upload UploadConfig `toml:"upload" json:"upload"`

	// Prompt template cache
	Prompts PromptsConfig `toml:"prompts" json:"prompts"`

	// Inbox watcher
	Watch WatchConfig `toml:"watch" json:"watch"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`

	// Diagnostic log
	Log LogConfig `toml:"log" json:"log"`
}

// BackendConfig locates the document backend.
type BackendConfig struct {
	// URL is the backend root; API paths resolve under URL + "/api".
	URL string `toml:"url" json:"url"`
	// TimeoutSecs bounds every request except uploads.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
	// UploadTimeoutSecs bounds a document upload.
	UploadTimeoutSecs int `toml:"upload_timeout_secs" json:"upload_timeout_secs"`
	// RequestsPerSecond caps client-side request rate (burst of the same size).
	RequestsPerSecond float64 `toml:"requests_per_second" json:"requests_per_second"`
}

// ChatConfig contains chat defaults.
type ChatConfig struct {
	// DefaultCollection is the initial filter; "all" searches everything.
	DefaultCollection string `toml:"default_collection" json:"default_collection"`
	// HistoryFile stores line-mode input history (empty = ~/.ragdesk/chat_history).
	HistoryFile string `toml:"history_file" json:"history_file"`
}

// UploadConfig contains upload defaults.
type UploadConfig struct {
	// DefaultCollection is used when no collection is typed.
	DefaultCollection string `toml:"default_collection" json:"default_collection"`
	// MaxFileMB rejects larger files before upload (0 = unlimited).
	MaxFileMB int `toml:"max_file_mb" json:"max_file_mb"`
}

// PromptsConfig controls the prompt template cache.
type PromptsConfig struct {
	CacheTTLSecs int `toml:"cache_ttl_secs" json:"cache_ttl_secs"`
}

// WatchConfig controls the inbox watcher.
type WatchConfig struct {
	// DebounceMS waits for writes to settle before uploading.
	DebounceMS int `toml:"debounce_ms" json:"debounce_ms"`
	// UploadsPerMinute paces uploads from a busy inbox.
	UploadsPerMinute int `toml:"uploads_per_minute" json:"uploads_per_minute"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is "dark", "light" or "auto".
	Theme string `toml:"theme" json:"theme"`
	// Markdown renders answers with glamour.
	Markdown bool `toml:"markdown" json:"markdown"`
	// ToastSecs is how long success notices stay on screen.
	ToastSecs int `toml:"toast_secs" json:"toast_secs"`
}

// LogConfig configures the diagnostic log file.
type LogConfig struct {
	// Path of the JSON log (empty = ~/.ragdesk/ragdesk.log).
	Path string `toml:"path" json:"path"`
	// Level is debug, info, warn or error.
	Level string `toml:"level" json:"level"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a configuration with default values.
func Default() *Config {
	return &Config{
		Version: "1",
		Backend: BackendConfig{
			URL:               "http://127.0.0.1:8000",
			TimeoutSecs:       60,
			UploadTimeoutSecs: 300,
			RequestsPerSecond: 20,
		},
		Chat: ChatConfig{
			DefaultCollection: "all",
		},
		Upload: UploadConfig{
			DefaultCollection: "default",
			MaxFileMB:         50,
		},
		Prompts: PromptsConfig{
			CacheTTLSecs: 600,
		},
		Watch: WatchConfig{
			DebounceMS:       500,
			UploadsPerMinute: 30,
		},
		UI: UIConfig{
			Theme:     "auto",
			Markdown:  true,
			ToastSecs: 4,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Timeout returns the per-request deadline.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSecs) * time.Second
}

// UploadTimeout returns the upload deadline.
func (c *Config) UploadTimeout() time.Duration {
	return time.Duration(c.Backend.UploadTimeoutSecs) * time.Second
}

// PromptCacheTTL returns how long fetched prompt templates are reused.
func (c *Config) PromptCacheTTL() time.Duration {
	return time.Duration(c.Prompts.CacheTTLSecs) * time.Second
}

// MaxFileBytes returns the upload size limit in bytes (0 = unlimited).
func (c *Config) MaxFileBytes() int64 {
	return int64(c.Upload.MaxFileMB) * 1024 * 1024
}

// ToastDuration returns how long success notices are shown.
func (c *Config) ToastDuration() time.Duration {
	return time.Duration(c.UI.ToastSecs) * time.Second
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the ragdesk configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".ragdesk"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
// RAGDESK_CONFIG overrides the default location.
func ConfigPathTOML() (string, error) {
	if p := os.Getenv("RAGDESK_CONFIG"); p != "" {
		return p, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// LogPath returns the configured log path or the default one.
func (c *Config) LogPath() (string, error) {
	if c.Log.Path != "" {
		return c.Log.Path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "ragdesk.log"), nil
}

// HistoryPath returns the line-mode history file.
func (c *Config) HistoryPath() (string, error) {
	if c.Chat.HistoryFile != "" {
		return c.Chat.HistoryFile, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "chat_history"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load reads the TOML config file when present, then applies environment
// overrides, defaults and validation. A missing file is not an error.
func Load() (*Config, error) {
	path, err := ConfigPathTOML()
	if err != nil {
		return nil, err
	}
	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
		return finish(Default())
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific file path with full validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := LoadTOML(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
	}
	return finish(cfg)
}

// LoadTOML decodes path on top of cfg.
func LoadTOML(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

func finish(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML atomically writes cfg to path with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# ragdesk configuration file\n")
	buf.WriteString("# Generated by ragdesk - edit with care\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

var (
	validThemes = []string{"dark", "light", "auto"}
	validLevels = []string{"debug", "info", "warn", "error"}
)

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	u, err := url.Parse(c.Backend.URL)
	switch {
	case c.Backend.URL == "":
		errs = append(errs, ValidationError{"backend.url", "must not be empty"})
	case err != nil:
		errs = append(errs, ValidationError{"backend.url", err.Error()})
	case u.Scheme != "http" && u.Scheme != "https":
		errs = append(errs, ValidationError{"backend.url", "scheme must be http or https"})
	case u.Host == "":
		errs = append(errs, ValidationError{"backend.url", "missing host"})
	}

	if c.Backend.TimeoutSecs <= 0 {
		errs = append(errs, ValidationError{"backend.timeout_secs", "must be positive"})
	}
	if c.Backend.UploadTimeoutSecs <= 0 {
		errs = append(errs, ValidationError{"backend.upload_timeout_secs", "must be positive"})
	}
	if c.Backend.RequestsPerSecond < 0 {
		errs = append(errs, ValidationError{"backend.requests_per_second", "must not be negative"})
	}
	if c.Upload.MaxFileMB < 0 {
		errs = append(errs, ValidationError{"upload.max_file_mb", "must not be negative"})
	}
	if c.Prompts.CacheTTLSecs < 0 {
		errs = append(errs, ValidationError{"prompts.cache_ttl_secs", "must not be negative"})
	}
	if c.Watch.DebounceMS < 0 {
		errs = append(errs, ValidationError{"watch.debounce_ms", "must not be negative"})
	}
	if !contains(validThemes, c.UI.Theme) {
		errs = append(errs, ValidationError{"ui.theme", "must be one of " + strings.Join(validThemes, ", ")})
	}
	if !contains(validLevels, c.Log.Level) {
		errs = append(errs, ValidationError{"log.level", "must be one of " + strings.Join(validLevels, ", ")})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// SetDefaults fills zero values that have no meaningful zero.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	if c.Backend.URL == "" {
		c.Backend.URL = defaults.Backend.URL
	}
	if c.Backend.TimeoutSecs == 0 {
		c.Backend.TimeoutSecs = defaults.Backend.TimeoutSecs
	}
	if c.Backend.UploadTimeoutSecs == 0 {
		c.Backend.UploadTimeoutSecs = defaults.Backend.UploadTimeoutSecs
	}
	if c.Backend.RequestsPerSecond == 0 {
		c.Backend.RequestsPerSecond = defaults.Backend.RequestsPerSecond
	}
	if c.Chat.DefaultCollection == "" {
		c.Chat.DefaultCollection = defaults.Chat.DefaultCollection
	}
	if c.Upload.DefaultCollection == "" {
		c.Upload.DefaultCollection = defaults.Upload.DefaultCollection
	}
	if c.Prompts.CacheTTLSecs == 0 {
		c.Prompts.CacheTTLSecs = defaults.Prompts.CacheTTLSecs
	}
	if c.Watch.UploadsPerMinute <= 0 {
		c.Watch.UploadsPerMinute = defaults.Watch.UploadsPerMinute
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	if c.UI.ToastSecs <= 0 {
		c.UI.ToastSecs = defaults.UI.ToastSecs
	}
	c.Log.Level = strings.ToLower(c.Log.Level)
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - RAGDESK_BACKEND_URL: overrides backend.url
//   - REACT_APP_BACKEND_URL: same, used when RAGDESK_BACKEND_URL is unset
//   - RAGDESK_TIMEOUT: backend.timeout_secs, as seconds or a duration ("90s", "2m")
//   - RAGDESK_LOG_LEVEL: overrides log.level
func (c *Config) ApplyEnvOverrides() {
	if u := os.Getenv("RAGDESK_BACKEND_URL"); u != "" {
		c.Backend.URL = u
	} else if u := os.Getenv("REACT_APP_BACKEND_URL"); u != "" {
		c.Backend.URL = u
	}

	if t := os.Getenv("RAGDESK_TIMEOUT"); t != "" {
		if secs, err := strconv.Atoi(t); err == nil {
			c.Backend.TimeoutSecs = secs
		} else if d, err := time.ParseDuration(t); err == nil {
			c.Backend.TimeoutSecs = int(d.Round(time.Second) / time.Second)
		}
	}

	if level := os.Getenv("RAGDESK_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "backend.url").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation (e.g., "backend.timeout_secs").
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			if field.Kind() == reflect.Struct {
				return reflect.Value{}, fmt.Errorf("%s is a section, not a value", key)
			}
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Float64:
			floatVal, err := strconv.ParseFloat(strVal, 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %v", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			lower := strings.ToLower(strVal)
			field.SetBool(lower == "1" || lower == "true" || lower == "yes")
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// GetAllKeys returns all configuration keys in dot notation, in file order.
func GetAllKeys() []string {
	var keys []string
	t := reflect.TypeOf(Config{})
	for i := 0; i < t.NumField(); i++ {
		section := t.Field(i)
		name := section.Tag.Get("toml")
		if section.Type.Kind() != reflect.Struct {
			keys = append(keys, name)
			continue
		}
		for j := 0; j < section.Type.NumField(); j++ {
			keys = append(keys, name+"."+section.Type.Field(j).Tag.Get("toml"))
		}
	}
	return keys
}

// String renders the configuration as TOML.
func (c *Config) String() string {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(c); err != nil {
		return fmt.Sprintf("error encoding config: %v", err)
	}
	return b.String()
}
