package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "exdoc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
project: QtDoc
help_base_url: qthelp://org.qt-project.qtdoc/qtdoc
sources:
  - name: qtdoc
    path: ./src
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "QtDoc", cfg.Project)
	require.Equal(t, ".", cfg.Output.Directory)
	require.Equal(t, defaultFileTypes, cfg.Scan.FileTypes)
	require.Equal(t, defaultExampleDirs, cfg.Scan.ExampleDirs)
	require.Empty(t, cfg.Sources[0].Branch, "local sources get no branch default")
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("EXDOC_TEST_TOKEN", "s3cret")

	path := writeConfig(t, `
project: QtDoc
sources:
  - name: qtbase
    url: https://example.org/qtbase.git
    auth:
      type: token
      token: ${EXDOC_TEST_TOKEN}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "s3cret", cfg.Sources[0].Auth.Token)
	require.Equal(t, "main", cfg.Sources[0].Branch, "remote sources default to main")
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("EXDOC_DOTENV_PROJECT=FromDotEnv\n"), 0o644))
	path := filepath.Join(dir, "exdoc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
project: ${EXDOC_DOTENV_PROJECT}
sources:
  - name: local
    path: .
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "FromDotEnv", cfg.Project)
}

func TestLoadRejectsMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	path := writeConfig(t, "project: [unclosed")
	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "parsing config file")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Project: "QtDoc",
			Sources: []Source{{Name: "qtdoc", Path: "./src"}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(*Config) {},
		},
		{
			name:    "missing project",
			mutate:  func(c *Config) { c.Project = "  " },
			wantErr: "project name is required",
		},
		{
			name:    "no sources",
			mutate:  func(c *Config) { c.Sources = nil },
			wantErr: "no sources configured",
		},
		{
			name:    "source without name",
			mutate:  func(c *Config) { c.Sources[0].Name = "" },
			wantErr: "name is required",
		},
		{
			name: "duplicate source name",
			mutate: func(c *Config) {
				c.Sources = append(c.Sources, Source{Name: "qtdoc", Path: "./other"})
			},
			wantErr: "duplicate name",
		},
		{
			name:    "source without path or url",
			mutate:  func(c *Config) { c.Sources[0].Path = "" },
			wantErr: "either path or url is required",
		},
		{
			name: "source with both path and url",
			mutate: func(c *Config) {
				c.Sources[0].URL = "https://example.org/repo.git"
			},
			wantErr: "mutually exclusive",
		},
		{
			name: "unknown auth type",
			mutate: func(c *Config) {
				c.Sources[0].Auth = &Auth{Type: "kerberos"}
			},
			wantErr: `unsupported auth type "kerberos"`,
		},
		{
			name: "token auth without token",
			mutate: func(c *Config) {
				c.Sources[0].Auth = &Auth{Type: "token"}
			},
			wantErr: "token is required",
		},
		{
			name: "basic auth without password",
			mutate: func(c *Config) {
				c.Sources[0].Auth = &Auth{Type: "basic", Username: "u"}
			},
			wantErr: "username and password are required",
		},
		{
			name: "ssh auth without key",
			mutate: func(c *Config) {
				c.Sources[0].Auth = &Auth{Type: "ssh"}
			},
			wantErr: "key_path is required",
		},
		{
			name: "filter without names",
			mutate: func(c *Config) {
				c.ManifestMeta = []ManifestFilter{{Attributes: []string{"isHighlighted"}}}
			},
			wantErr: "names is required",
		},
		{
			name: "notifications enabled without url",
			mutate: func(c *Config) {
				c.Notifications.Enabled = true
			},
			wantErr: "url is required when enabled",
		},
		{
			name: "unknown retry backoff",
			mutate: func(c *Config) {
				c.Git.RetryBackoff = "spiral"
			},
			wantErr: `unsupported retry backoff "spiral"`,
		},
		{
			name: "negative retry budget",
			mutate: func(c *Config) {
				c.Git.MaxRetries = -1
			},
			wantErr: "max_retries cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadNormalizesRetryBackoff(t *testing.T) {
	path := writeConfig(t, `
project: QtDoc
sources:
  - name: qtdoc
    path: ./src
git:
  max_retries: 3
  retry_backoff: ExPoNeNtIaL
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, RetryBackoffExponential, cfg.Git.RetryBackoff)
	require.Equal(t, 3, cfg.Git.MaxRetries)

	path = writeConfig(t, `
project: QtDoc
sources:
  - name: qtdoc
    path: ./src
`)
	cfg, err = Load(path)
	require.NoError(t, err)
	require.Equal(t, RetryBackoffLinear, cfg.Git.RetryBackoff, "unset backoff defaults to linear")
	require.Zero(t, cfg.Git.MaxRetries, "retrying is off unless configured")
}

func TestNormalizeRetryBackoff(t *testing.T) {
	require.Equal(t, RetryBackoffFixed, NormalizeRetryBackoff(" Fixed "))
	require.Equal(t, RetryBackoffLinear, NormalizeRetryBackoff("linear"))
	require.Equal(t, RetryBackoffExponential, NormalizeRetryBackoff("EXPONENTIAL"))
	require.Empty(t, NormalizeRetryBackoff("spiral"))
	require.Empty(t, NormalizeRetryBackoff(""))
}

func TestDaemonDurations(t *testing.T) {
	var d Daemon
	require.Equal(t, time.Hour, d.IntervalDuration())
	require.Equal(t, 2*time.Second, d.DebounceDuration())

	d = Daemon{Interval: "15m", Debounce: "500ms"}
	require.Equal(t, 15*time.Minute, d.IntervalDuration())
	require.Equal(t, 500*time.Millisecond, d.DebounceDuration())

	d = Daemon{Interval: "bogus", Debounce: "-3s"}
	require.Equal(t, time.Hour, d.IntervalDuration())
	require.Equal(t, 2*time.Second, d.DebounceDuration())
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exdoc.yaml")
	require.NoError(t, Init(path, false))

	// The template must itself survive a Load round trip once a source
	// path exists; parse it directly to keep the test hermetic.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "project: MyModule")

	err = Init(path, false)
	require.Error(t, err)
	require.Contains(t, err.Error(), "already exists")

	require.NoError(t, Init(path, true))
}
