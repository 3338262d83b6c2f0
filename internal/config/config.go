// Package config loads and validates the exdoc configuration file.
//
// Configuration is plain YAML with environment variable expansion, so a
// config file can reference secrets without embedding them:
//
//	sources:
//	  - name: qtbase
//	    url: https://code.example.org/qt/qtbase.git
//	    auth:
//	      type: token
//	      token: ${EXDOC_GIT_TOKEN}
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default scan settings applied when the config file leaves them out.
var (
	defaultFileTypes = []string{".cpp", ".h", ".qml", ".qdoc", ".js"}

	defaultExcludeDirs = []string{".git", ".svn", "build", "node_modules"}

	defaultExampleDirs = []string{"examples"}

	defaultExampleFilePatterns = []string{
		"*.cpp", "*.h", "*.qml", "*.js", "*.py", "*.ui", "*.qrc", "*.png",
	}
)

// Config is the root configuration for a documentation project.
type Config struct {
	// Project is the module name written to the manifest root element
	// and used when matching `project/title` filter patterns.
	Project string `yaml:"project"`

	// HelpBaseURL is prepended to generated page names to form docUrl
	// attributes, e.g. "qthelp://org.qt-project.qtdoc/qtdoc".
	HelpBaseURL string `yaml:"help_base_url"`

	// ExamplesInstallPath is the default install location recorded as
	// each example's projectPath prefix when the example does not carry
	// its own installpath annotation.
	ExamplesInstallPath string `yaml:"examples_install_path"`

	Output        Output           `yaml:"output"`
	Sources       []Source         `yaml:"sources"`
	Scan          Scan             `yaml:"scan"`
	Git           Git              `yaml:"git"`
	ManifestMeta  []ManifestFilter `yaml:"manifest_meta"`
	Daemon        Daemon           `yaml:"daemon"`
	Notifications Notifications    `yaml:"notifications"`
	History       History          `yaml:"history"`
}

// Output controls where generated manifests are written.
type Output struct {
	Directory string `yaml:"directory"`
}

// Source describes one documentation source tree. Either Path (local
// checkout) or URL (git remote, cloned into the workspace) must be set.
type Source struct {
	Name   string `yaml:"name"`
	Path   string `yaml:"path,omitempty"`
	URL    string `yaml:"url,omitempty"`
	Branch string `yaml:"branch,omitempty"`
	Depth  int    `yaml:"depth,omitempty"`
	Auth   *Auth  `yaml:"auth,omitempty"`
}

// IsRemote reports whether the source has to be cloned before scanning.
func (s Source) IsRemote() bool { return s.URL != "" }

// Auth holds credentials for cloning a remote source.
type Auth struct {
	// Type selects the mechanism: "none", "token", "basic" or "ssh".
	Type     string `yaml:"type"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	Token    string `yaml:"token,omitempty"`
	KeyPath  string `yaml:"key_path,omitempty"`
}

// Scan controls which files the comment scanner and the example file
// resolver visit.
type Scan struct {
	// FileTypes lists extensions of files scanned for documentation
	// comments.
	FileTypes []string `yaml:"file_types"`

	// ExcludeDirs and ExcludeFiles are skipped everywhere, both while
	// scanning for comments and while collecting example file lists.
	ExcludeDirs  []string `yaml:"exclude_dirs"`
	ExcludeFiles []string `yaml:"exclude_files"`

	// ExampleDirs are directories (relative to each source root) under
	// which example projects live.
	ExampleDirs []string `yaml:"example_dirs"`

	// ExampleFilePatterns are glob patterns, matched against base
	// names, selecting which files become part of an example's file
	// list.
	ExampleFilePatterns []string `yaml:"example_file_patterns"`
}

// Git tunes how remote sources are synced. MaxRetries of zero disables
// retrying; delays are duration strings parsed at use with fallbacks.
type Git struct {
	MaxRetries        int              `yaml:"max_retries,omitempty"`
	RetryBackoff      RetryBackoffMode `yaml:"retry_backoff,omitempty"`
	RetryInitialDelay string           `yaml:"retry_initial_delay,omitempty"`
	RetryMaxDelay     string           `yaml:"retry_max_delay,omitempty"`
}

// ManifestFilter is one entry of the manifest_meta list. Entries are
// applied in order; the first entry to claim an attribute key wins.
type ManifestFilter struct {
	Name string `yaml:"name,omitempty"`

	// Names holds match patterns: "Project/Title" exact matches, "*"
	// for everything, or a "prefix*" wildcard.
	Names []string `yaml:"names"`

	// Attributes are "key:value" pairs (bare "key" means "key:true")
	// written as XML attributes on matching examples.
	Attributes []string `yaml:"attributes"`

	// Tags are added to each matching example's tag set.
	Tags []string `yaml:"tags"`
}

// Daemon configures continuous generation.
type Daemon struct {
	Interval      string `yaml:"interval"`
	Debounce      string `yaml:"debounce"`
	MetricsListen string `yaml:"metrics_listen,omitempty"`
}

// IntervalDuration returns the rebuild interval, defaulting to an hour.
func (d Daemon) IntervalDuration() time.Duration {
	return parseDurationOr(d.Interval, time.Hour)
}

// DebounceDuration returns the settle time applied after a file change
// before triggering a run.
func (d Daemon) DebounceDuration() time.Duration {
	return parseDurationOr(d.Debounce, 2*time.Second)
}

func parseDurationOr(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// Notifications configures manifest-written events on NATS.
type Notifications struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// History configures the run history database.
type History struct {
	// Path of the SQLite file. Empty disables persistence.
	Path string `yaml:"path,omitempty"`
}

// Load reads, expands and parses the configuration at path. Values like
// ${EXDOC_GIT_TOKEN} are substituted from the environment after any
// .env files next to the config have been loaded.
func Load(path string) (*Config, error) {
	loadEnvFiles(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Output.Directory == "" {
		c.Output.Directory = "."
	}
	if len(c.Scan.FileTypes) == 0 {
		c.Scan.FileTypes = append([]string(nil), defaultFileTypes...)
	}
	if len(c.Scan.ExcludeDirs) == 0 {
		c.Scan.ExcludeDirs = append([]string(nil), defaultExcludeDirs...)
	}
	if len(c.Scan.ExampleDirs) == 0 {
		c.Scan.ExampleDirs = append([]string(nil), defaultExampleDirs...)
	}
	if len(c.Scan.ExampleFilePatterns) == 0 {
		c.Scan.ExampleFilePatterns = append([]string(nil), defaultExampleFilePatterns...)
	}
	if c.Git.RetryBackoff == "" {
		c.Git.RetryBackoff = RetryBackoffLinear
	} else if mode := NormalizeRetryBackoff(string(c.Git.RetryBackoff)); mode != "" {
		c.Git.RetryBackoff = mode
	}
	for i := range c.Sources {
		src := &c.Sources[i]
		if src.IsRemote() && src.Branch == "" {
			src.Branch = "main"
		}
	}
}
