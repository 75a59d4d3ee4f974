package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"github.com/kbukum/logpipe/errors"
)

type testConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Workers       int    `mapstructure:"workers"`
	ChunkSize     int    `mapstructure:"chunk_size"`
	Marker        string `mapstructure:"marker"`
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestServiceConfigApplyDefaults(t *testing.T) {
	t.Run("empty environment defaults to development", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc"}
		cfg.ApplyDefaults()
		if cfg.Environment != "development" {
			t.Errorf("expected 'development', got %q", cfg.Environment)
		}
		if cfg.Logging.Level != "info" {
			t.Errorf("expected info level, got %q", cfg.Logging.Level)
		}
	})

	t.Run("debug lowers the log level", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc", Debug: true}
		cfg.ApplyDefaults()
		if cfg.Logging.Level != "debug" {
			t.Errorf("expected debug level, got %q", cfg.Logging.Level)
		}
	})

	t.Run("explicit level wins over debug", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc", Debug: true}
		cfg.Logging.Level = "warn"
		cfg.ApplyDefaults()
		if cfg.Logging.Level != "warn" {
			t.Errorf("expected warn level, got %q", cfg.Logging.Level)
		}
	})
}

func TestServiceConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr bool
		errMsg  string
	}{
		{"valid development", ServiceConfig{Name: "svc", Environment: "development"}, false, ""},
		{"valid production", ServiceConfig{Name: "svc", Environment: "production"}, false, ""},
		{"missing name", ServiceConfig{Environment: "production"}, true, "name: is required"},
		{"invalid environment", ServiceConfig{Name: "svc", Environment: "invalid"}, true, "environment: must be one of"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.Logging.ApplyDefaults()
			err := tc.cfg.Validate()
			if tc.wantErr {
				if !errors.HasCode(err, errors.ErrCodeInvalidConfig) {
					t.Fatalf("expected INVALID_CONFIG, got %v", err)
				}
				if !strings.Contains(err.Error(), tc.errMsg) {
					t.Errorf("expected error containing %q, got %q", tc.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestServiceConfigValidate_Logging(t *testing.T) {
	cfg := ServiceConfig{Name: "svc", Environment: "staging"}
	cfg.Logging.ApplyDefaults()
	cfg.Logging.Format = "xml"
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "logging.format") {
		t.Fatalf("expected logging format error, got %v", err)
	}
}

func TestLoadConfigWithYAML(t *testing.T) {
	path := writeFile(t, "config.yml", `
name: logpipe
environment: staging
workers: 8
chunk_size: 250
logging:
  level: warn
  format: json
`)
	var cfg testConfig
	if err := LoadConfig("logpipe", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Name != "logpipe" || cfg.Environment != "staging" {
		t.Errorf("unexpected service config %+v", cfg.ServiceConfig)
	}
	if cfg.Workers != 8 || cfg.ChunkSize != 250 {
		t.Errorf("expected workers=8 chunk_size=250, got %d %d", cfg.Workers, cfg.ChunkSize)
	}
	if cfg.Logging.Level != "warn" || cfg.Logging.Format != "json" {
		t.Errorf("unexpected logging config %+v", cfg.Logging)
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	var cfg testConfig
	err := LoadConfig("logpipe", &cfg, WithConfigFile("/nonexistent/path.yml"))
	if !errors.HasCode(err, errors.ErrCodeInvalidConfig) {
		t.Fatalf("expected INVALID_CONFIG, got %v", err)
	}
}

func TestLoadConfig_BrokenFile(t *testing.T) {
	path := writeFile(t, "config.yml", "workers: [1, 2\n")
	var cfg testConfig
	if err := LoadConfig("logpipe", &cfg, WithConfigFile(path)); !errors.HasCode(err, errors.ErrCodeInvalidConfig) {
		t.Fatalf("expected INVALID_CONFIG, got %v", err)
	}
}

func TestLoadConfig_NoSources(t *testing.T) {
	var cfg testConfig
	fs := &mockFS{files: map[string]bool{}}
	err := LoadConfig("logpipe", &cfg, WithFileSystem(fs), WithDefaults(map[string]any{"workers": 4}))
	if err != nil {
		t.Fatalf("expected LoadConfig to succeed without files, got %v", err)
	}
	if cfg.Workers != 4 {
		t.Errorf("expected default workers=4, got %d", cfg.Workers)
	}
}

func TestLoadConfig_Priority(t *testing.T) {
	path := writeFile(t, "config.yml", "workers: 8\nchunk_size: 50\nmarker: FILE\n")
	t.Setenv("LOGPIPE_CHUNK_SIZE", "75")
	t.Setenv("LOGPIPE_MARKER", "ENV")
	t.Setenv("CHUNK_SIZE", "999")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("workers", 1, "")
	fs.Int("chunk-size", 1, "")
	fs.String("marker", "FLAGDEFAULT", "")
	if err := fs.Parse([]string{"--marker", "FLAG"}); err != nil {
		t.Fatal(err)
	}

	var cfg testConfig
	err := LoadConfig("logpipe", &cfg,
		WithConfigFile(path),
		WithEnvPrefix("LOGPIPE"),
		WithDefaults(map[string]any{"workers": 4, "chunk_size": 100, "marker": "DEFAULT"}),
		WithFlags(fs, nil),
	)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Workers != 8 {
		t.Errorf("file beats default and unset flag: workers = %d", cfg.Workers)
	}
	if cfg.ChunkSize != 75 {
		t.Errorf("prefixed env beats file: chunk_size = %d", cfg.ChunkSize)
	}
	if cfg.Marker != "FLAG" {
		t.Errorf("set flag beats env: marker = %q", cfg.Marker)
	}
}

func TestLoadConfig_FlagKeys(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("log-level", "info", "")
	if err := fs.Parse([]string{"--log-level", "debug"}); err != nil {
		t.Fatal(err)
	}
	var cfg testConfig
	err := LoadConfig("logpipe", &cfg,
		WithFileSystem(&mockFS{}),
		WithFlags(fs, map[string]string{"log-level": "logging.level"}),
	)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected logging.level from flag, got %q", cfg.Logging.Level)
	}
}

func TestLoadConfig_NestedEnv(t *testing.T) {
	t.Setenv("LOGPIPE_LOGGING_FORMAT", "json")
	var cfg testConfig
	err := LoadConfig("logpipe", &cfg, WithFileSystem(&mockFS{}), WithEnvPrefix("LOGPIPE_"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("expected logging.format from env, got %q", cfg.Logging.Format)
	}
}

func TestLoadConfig_EnvIgnoredWithoutPrefix(t *testing.T) {
	t.Setenv("WORKERS", "12")
	var cfg testConfig
	if err := LoadConfig("logpipe", &cfg, WithFileSystem(&mockFS{})); err != nil {
		t.Fatal(err)
	}
	if cfg.Workers != 0 {
		t.Errorf("environment must not be read without a prefix, got workers=%d", cfg.Workers)
	}
}

func TestLoadConfig_EnvFile(t *testing.T) {
	path := writeFile(t, ".env", "LOGPIPE_TEST_ENVFILE_WORKERS=6\n")
	t.Cleanup(func() { os.Unsetenv("LOGPIPE_TEST_ENVFILE_WORKERS") })

	type envConfig struct {
		Test struct {
			Envfile struct {
				Workers int `mapstructure:"workers"`
			} `mapstructure:"envfile"`
		} `mapstructure:"test"`
	}
	var cfg envConfig
	fs := &RealFileSystem{}
	err := LoadConfig("logpipe", &cfg, WithFileSystem(fs), WithEnvFile(path), WithEnvPrefix("LOGPIPE"),
		WithConfigFile(""))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Test.Envfile.Workers != 6 {
		t.Errorf("expected value from .env, got %d", cfg.Test.Envfile.Workers)
	}
}

func TestLoadConfig_MissingEnvFile(t *testing.T) {
	var cfg testConfig
	err := LoadConfig("logpipe", &cfg, WithFileSystem(&mockFS{}), WithEnvFile("/nope/.env"))
	if !errors.HasCode(err, errors.ErrCodeInvalidConfig) {
		t.Fatalf("expected INVALID_CONFIG, got %v", err)
	}
}

func TestResolverWithMockFS(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./cmd/logpipe/config.yml": true,
		"./config.yml":             true,
	}}
	resolver := &Resolver{FileSystem: fs}
	files := resolver.ResolveFiles("logpipe", LoaderConfig{})
	if files.ConfigFile != "./cmd/logpipe/config.yml" {
		t.Errorf("expected config file at ./cmd/logpipe/config.yml, got %q", files.ConfigFile)
	}
	if files.EnvFile != "" {
		t.Errorf("env files are never searched, got %q", files.EnvFile)
	}

	explicit := resolver.ResolveFiles("logpipe", LoaderConfig{ConfigFile: "custom.yml", EnvFile: "custom.env"})
	if explicit.ConfigFile != "custom.yml" || explicit.EnvFile != "custom.env" {
		t.Errorf("explicit paths must be kept, got %+v", explicit)
	}
}

func TestGenerateEnvKeyVariants(t *testing.T) {
	got := generateEnvKeyVariants("LOGGING_NO_COLOR")
	want := []string{"logging_no_color", "logging.no.color", "logging.no_color", "logging_no.color"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("got %v, want %v", got, want)
	}
	if single := generateEnvKeyVariants("WORKERS"); len(single) != 1 || single[0] != "workers" {
		t.Errorf("unexpected variants %v", single)
	}
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool  { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error { return nil }

func TestLoaderOptions(t *testing.T) {
	var lc LoaderConfig
	fs := &mockFS{}
	WithFileSystem(fs)(&lc)
	WithConfigFile("/path/to/config.yml")(&lc)
	WithEnvFile("/path/to/.env")(&lc)
	WithEnvPrefix("logpipe_")(&lc)
	if lc.FileSystem == nil || lc.ConfigFile != "/path/to/config.yml" || lc.EnvFile != "/path/to/.env" {
		t.Errorf("options not applied: %+v", lc)
	}
	if lc.EnvPrefix != "LOGPIPE" {
		t.Errorf("expected normalised prefix LOGPIPE, got %q", lc.EnvPrefix)
	}
}
