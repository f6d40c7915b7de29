package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultEnvFile      = ".env"
	defaultPort         = "8080"
	defaultReadTimeout  = 15 * time.Second
	defaultWriteTimeout = 30 * time.Second
	defaultIdleTimeout  = 120 * time.Second
	defaultDBPath       = "library.db"
	defaultPageSize     = 10
	defaultMaxItems     = 10000
	defaultCatalogRange = 100
	defaultBaseURL      = "/"
	defaultTheme        = "light"
	defaultLang         = "en"
	defaultLogLevel     = "info"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server  ServerConfig
	Library LibraryConfig
	Locale  LocaleConfig
	Log     LogConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// LibraryConfig holds the listing settings shared by every view.
type LibraryConfig struct {
	DBPath string
	// PageSize is the number of items per list page.
	PageSize int
	// MaxItems caps how deep any listing may be paged.
	MaxItems int
	// CatalogRange is the number of ids covered by one catalog bucket.
	CatalogRange int
	BaseURL      string
	Theme        string
}

// LocaleConfig lists the languages the views are translated into.
type LocaleConfig struct {
	Default   string
	Supported []string
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level string
}

// ValidationError is returned when configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path. An empty path skips the file.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects explicit values that win over every other source.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv stops Load from consulting the process environment.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load assembles the configuration from defaults, the .env file, the process
// environment and explicit values, in increasing order of precedence.
func Load(opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	dotEnv, err := readDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	var sources []map[string]string
	if options.envMap != nil {
		sources = append(sources, options.envMap)
	}
	if options.useSystemEnv {
		sources = append(sources, systemEnv())
	}
	if dotEnv != nil {
		sources = append(sources, dotEnv)
	}
	r := &reader{sources: sources}

	cfg := Config{
		Server: ServerConfig{
			Port:         r.str("LIBRARIAN_SERVER_PORT", defaultPort),
			ReadTimeout:  r.duration("LIBRARIAN_SERVER_READ_TIMEOUT", "Server.ReadTimeout", defaultReadTimeout),
			WriteTimeout: r.duration("LIBRARIAN_SERVER_WRITE_TIMEOUT", "Server.WriteTimeout", defaultWriteTimeout),
			IdleTimeout:  r.duration("LIBRARIAN_SERVER_IDLE_TIMEOUT", "Server.IdleTimeout", defaultIdleTimeout),
		},
		Library: LibraryConfig{
			DBPath:       r.str("LIBRARIAN_DB_PATH", defaultDBPath),
			PageSize:     r.integer("LIBRARIAN_PAGE_SIZE", "Library.PageSize", defaultPageSize),
			MaxItems:     r.integer("LIBRARIAN_MAX_ITEMS", "Library.MaxItems", defaultMaxItems),
			CatalogRange: r.integer("LIBRARIAN_CATALOG_RANGE", "Library.CatalogRange", defaultCatalogRange),
			BaseURL:      r.str("LIBRARIAN_BASE_URL", defaultBaseURL),
			Theme:        strings.ToLower(r.str("LIBRARIAN_THEME", defaultTheme)),
		},
		Locale: LocaleConfig{
			Default:   strings.ToLower(r.str("LIBRARIAN_DEFAULT_LANG", defaultLang)),
			Supported: r.list("LIBRARIAN_LANGS", []string{"en", "de"}),
		},
		Log: LogConfig{
			Level: r.str("LIBRARIAN_LOG_LEVEL", defaultLogLevel),
		},
	}

	if err := validateConfig(cfg, r.invalid); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg Config, invalid []string) error {
	bad := append([]string(nil), invalid...)
	flag := func(field string, failed bool) {
		if failed && !slices.Contains(bad, field) {
			bad = append(bad, field)
		}
	}

	flag("Server.Port", strings.TrimSpace(cfg.Server.Port) == "")
	flag("Library.DBPath", strings.TrimSpace(cfg.Library.DBPath) == "")
	// Zero or negative sizes are configuration errors, never silently replaced.
	flag("Library.PageSize", cfg.Library.PageSize <= 0)
	flag("Library.MaxItems", cfg.Library.MaxItems < 0)
	flag("Library.CatalogRange", cfg.Library.CatalogRange <= 0)
	flag("Library.BaseURL", !strings.HasPrefix(cfg.Library.BaseURL, "/") && !strings.Contains(cfg.Library.BaseURL, "://"))
	flag("Locale.Default", !slices.Contains(cfg.Locale.Supported, cfg.Locale.Default))

	if len(bad) > 0 {
		return &ValidationError{fields: bad}
	}
	return nil
}

// readDotEnv returns nil when path is empty or the file does not exist.
func readDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	values, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return values, nil
}

func systemEnv() map[string]string {
	out := make(map[string]string)
	for _, kv := range os.Environ() {
		if key, value, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(key, "LIBRARIAN_") {
			out[key] = value
		}
	}
	return out
}

// reader resolves keys against sources in order and collects fields whose
// values are set but malformed.
type reader struct {
	sources []map[string]string
	invalid []string
}

func (r *reader) lookup(key string) (string, bool) {
	for _, src := range r.sources {
		if value, ok := src[key]; ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value), true
		}
	}
	return "", false
}

func (r *reader) str(key, fallback string) string {
	if value, ok := r.lookup(key); ok {
		return value
	}
	return fallback
}

func (r *reader) integer(key, field string, fallback int) int {
	value, ok := r.lookup(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		r.invalid = append(r.invalid, field)
		return fallback
	}
	return parsed
}

func (r *reader) duration(key, field string, fallback time.Duration) time.Duration {
	value, ok := r.lookup(key)
	if !ok {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		r.invalid = append(r.invalid, field)
		return fallback
	}
	return parsed
}

func (r *reader) list(key string, fallback []string) []string {
	value, ok := r.lookup(key)
	if !ok {
		return fallback
	}
	out := make([]string, 0)
	for _, part := range strings.Split(value, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" && !slices.Contains(out, part) {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
