package config

import (
	"fmt"
	"os"
)

const initTemplate = `# exdoc configuration
#
# Scans documentation comments in the configured sources and writes
# examples-manifest.xml / demos-manifest.xml for the project.

project: MyModule

# Base URL for generated documentation pages. Each example's docUrl
# becomes <help_base_url>/<page-name>.html.
help_base_url: qthelp://org.example.mymodule/doc

# Default install location recorded as projectPath for examples that
# do not declare their own installpath.
examples_install_path: examples

output:
  directory: ./manifests

sources:
  # Local checkout:
  - name: mymodule
    path: ../mymodule

  # Or a git remote cloned into a temporary workspace:
  # - name: mymodule
  #   url: https://code.example.org/mymodule.git
  #   branch: main
  #   depth: 1
  #   auth:
  #     type: token
  #     token: ${EXDOC_GIT_TOKEN}

# scan:
#   file_types: [".cpp", ".h", ".qml", ".qdoc", ".js"]
#   exclude_dirs: [".git", "build"]
#   exclude_files: []
#   example_dirs: ["examples"]
#   example_file_patterns: ["*.cpp", "*.h", "*.qml"]

# Ordered attribute/tag rules applied to matching examples. Bare
# attribute keys default to "true"; the first rule to claim a key wins.
# manifest_meta:
#   - name: highlighted
#     names: ["MyModule/Analog Clock"]
#     attributes: ["isHighlighted"]
#     tags: ["showcase"]
#   - name: all
#     names: ["*"]
#     tags: ["mymodule"]

# Retrying of transient git failures is off by default.
# git:
#   max_retries: 2
#   retry_backoff: linear
#   retry_initial_delay: 1s
#   retry_max_delay: 30s

# daemon:
#   interval: 1h
#   debounce: 2s
#   metrics_listen: :9105

# notifications:
#   enabled: true
#   url: nats://localhost:4222
#   subject: exdoc.manifests

# history:
#   path: exdoc-runs.db
`

// Init writes a commented starter configuration to path. It refuses to
// overwrite an existing file unless force is set.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file already exists: %s", path)
	}
	if err := os.WriteFile(path, []byte(initTemplate), 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
