package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoSources is returned when the configuration lists nothing to scan.
var ErrNoSources = errors.New("no sources configured")

var authTypes = map[string]bool{
	"":      true, // treated as none
	"none":  true,
	"token": true,
	"basic": true,
	"ssh":   true,
}

// Validate checks the configuration for problems that would make a run
// fail halfway through. It returns the first problem found.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Project) == "" {
		return errors.New("project name is required")
	}
	if len(c.Sources) == 0 {
		return ErrNoSources
	}

	seen := make(map[string]bool, len(c.Sources))
	for i, src := range c.Sources {
		if src.Name == "" {
			return fmt.Errorf("source %d: name is required", i)
		}
		if seen[src.Name] {
			return fmt.Errorf("source %q: duplicate name", src.Name)
		}
		seen[src.Name] = true

		if src.Path == "" && src.URL == "" {
			return fmt.Errorf("source %q: either path or url is required", src.Name)
		}
		if src.Path != "" && src.URL != "" {
			return fmt.Errorf("source %q: path and url are mutually exclusive", src.Name)
		}
		if err := src.Auth.validate(); err != nil {
			return fmt.Errorf("source %q: %w", src.Name, err)
		}
	}

	if c.Git.RetryBackoff != "" && NormalizeRetryBackoff(string(c.Git.RetryBackoff)) == "" {
		return fmt.Errorf("git: unsupported retry backoff %q", c.Git.RetryBackoff)
	}
	if c.Git.MaxRetries < 0 {
		return errors.New("git: max_retries cannot be negative")
	}

	for i, f := range c.ManifestMeta {
		if len(f.Names) == 0 {
			return fmt.Errorf("manifest_meta entry %d: names is required", i)
		}
	}

	if c.Notifications.Enabled && c.Notifications.URL == "" {
		return errors.New("notifications: url is required when enabled")
	}

	return nil
}

func (a *Auth) validate() error {
	if a == nil {
		return nil
	}
	if !authTypes[a.Type] {
		return fmt.Errorf("unsupported auth type %q", a.Type)
	}
	switch a.Type {
	case "token":
		if a.Token == "" {
			return errors.New("auth: token is required for type token")
		}
	case "basic":
		if a.Username == "" || a.Password == "" {
			return errors.New("auth: username and password are required for type basic")
		}
	case "ssh":
		if a.KeyPath == "" {
			return errors.New("auth: key_path is required for type ssh")
		}
	}
	return nil
}
