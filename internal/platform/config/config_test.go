package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadWithDefaults(t *testing.T) {
	cfg, err := Load(WithEnvMap(map[string]string{}), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("unexpected read timeout: %s", cfg.Server.ReadTimeout)
	}
	if cfg.Library.PageSize != defaultPageSize {
		t.Errorf("expected default page size %d, got %d", defaultPageSize, cfg.Library.PageSize)
	}
	if cfg.Library.MaxItems != defaultMaxItems {
		t.Errorf("expected default max items %d, got %d", defaultMaxItems, cfg.Library.MaxItems)
	}
	if cfg.Library.CatalogRange != defaultCatalogRange {
		t.Errorf("expected default catalog range %d, got %d", defaultCatalogRange, cfg.Library.CatalogRange)
	}
	if cfg.Library.BaseURL != "/" {
		t.Errorf("expected base url /, got %s", cfg.Library.BaseURL)
	}
	if cfg.Locale.Default != "en" || len(cfg.Locale.Supported) != 2 {
		t.Errorf("unexpected locale config %+v", cfg.Locale)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected info log level, got %s", cfg.Log.Level)
	}
}

func TestLoadWithOverrides(t *testing.T) {
	env := map[string]string{
		"LIBRARIAN_SERVER_PORT":         "9090",
		"LIBRARIAN_SERVER_READ_TIMEOUT": "20s",
		"LIBRARIAN_DB_PATH":             "/var/lib/librarian/library.db",
		"LIBRARIAN_PAGE_SIZE":           "25",
		"LIBRARIAN_MAX_ITEMS":           "500",
		"LIBRARIAN_CATALOG_RANGE":       "50",
		"LIBRARIAN_BASE_URL":            "/librarian",
		"LIBRARIAN_THEME":               "Dark",
		"LIBRARIAN_DEFAULT_LANG":        "DE",
		"LIBRARIAN_LANGS":               "en, de ,",
	}

	cfg, err := Load(WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Server.ReadTimeout != 20*time.Second {
		t.Errorf("unexpected server config %+v", cfg.Server)
	}
	if cfg.Library.PageSize != 25 || cfg.Library.MaxItems != 500 || cfg.Library.CatalogRange != 50 {
		t.Errorf("unexpected library config %+v", cfg.Library)
	}
	if cfg.Library.Theme != "dark" {
		t.Errorf("expected lower-cased theme, got %s", cfg.Library.Theme)
	}
	if cfg.Locale.Default != "de" {
		t.Errorf("expected default lang de, got %s", cfg.Locale.Default)
	}
	if len(cfg.Locale.Supported) != 2 || cfg.Locale.Supported[1] != "de" {
		t.Errorf("unexpected supported langs %v", cfg.Locale.Supported)
	}
}

func TestLoadRejectsImpossibleSizes(t *testing.T) {
	env := map[string]string{
		"LIBRARIAN_PAGE_SIZE":     "0",
		"LIBRARIAN_CATALOG_RANGE": "ten",
		"LIBRARIAN_MAX_ITEMS":     "-1",
	}
	_, err := Load(WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	fields := map[string]bool{}
	for _, f := range vErr.Fields() {
		fields[f] = true
	}
	for _, want := range []string{"Library.PageSize", "Library.CatalogRange", "Library.MaxItems"} {
		if !fields[want] {
			t.Errorf("expected %s in invalid fields %v", want, vErr.Fields())
		}
	}
}

func TestLoadRejectsUnsupportedDefaultLang(t *testing.T) {
	env := map[string]string{"LIBRARIAN_DEFAULT_LANG": "fr"}
	_, err := Load(WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# local overrides\nexport LIBRARIAN_PAGE_SIZE=\"15\"\nLIBRARIAN_THEME='dark'\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	cfg, err := Load(WithEnvFile(path), WithoutSystemEnv(), WithEnvMap(map[string]string{"LIBRARIAN_THEME": "light"}))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Library.PageSize != 15 {
		t.Errorf("expected page size from .env, got %d", cfg.Library.PageSize)
	}
	if cfg.Library.Theme != "light" {
		t.Errorf("expected explicit map to win over .env, got %s", cfg.Library.Theme)
	}
}

func TestLoadFlagsMalformedDuration(t *testing.T) {
	env := map[string]string{"LIBRARIAN_SERVER_WRITE_TIMEOUT": "soon"}
	_, err := Load(WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if got := vErr.Fields(); len(got) != 1 || got[0] != "Server.WriteTimeout" {
		t.Errorf("unexpected invalid fields %v", got)
	}
}

func TestLoadIgnoresMissingDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.env")
	cfg, err := Load(WithEnvFile(path), WithoutSystemEnv())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Library.PageSize != defaultPageSize {
		t.Errorf("expected default page size, got %d", cfg.Library.PageSize)
	}
}
