package integration

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/exdoc/internal/config"
	"git.home.luguber.info/inful/exdoc/internal/generator"
	"git.home.luguber.info/inful/exdoc/internal/metrics"
)

// setupTestRepo turns a testdata source tree into a temporary git repository
// with a single commit on a "main" branch, ready to be cloned by a run.
func setupTestRepo(t *testing.T, sourcePath string) string {
	t.Helper()

	tmpDir := t.TempDir()
	require.NoError(t, copyDir(sourcePath, tmpDir), "failed to copy test source tree")

	repo, err := gogit.PlainInit(tmpDir, false)
	require.NoError(t, err, "failed to initialize git repo")

	w, err := repo.Worktree()
	require.NoError(t, err, "failed to get worktree")

	err = w.AddGlob(".")
	require.NoError(t, err, "failed to add files to git")

	_, err = w.Commit("Initial test commit", &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  "Test",
			Email: "test@example.com",
			When:  time.Now(),
		},
	})
	require.NoError(t, err, "failed to create initial commit")

	// The sync client checks out "main"; rename whatever default branch
	// go-git created.
	headRef, err := repo.Head()
	require.NoError(t, err, "failed to get HEAD")

	if headRef.Name().Short() != "main" {
		err = w.Checkout(&gogit.CheckoutOptions{
			Branch: "refs/heads/main",
			Create: true,
		})
		require.NoError(t, err, "failed to create main branch")
		_ = repo.Storer.RemoveReference(headRef.Name())
	}

	return tmpDir
}

// copyDir recursively copies a directory tree.
func copyDir(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}

		targetPath := filepath.Join(dst, relPath)

		if info.IsDir() {
			return os.MkdirAll(targetPath, info.Mode())
		}

		return copyFile(path, targetPath)
	})
}

// copyFile copies a single file.
func copyFile(src, dst string) error {
	// #nosec G304 -- test utility with paths from test setup, not user input
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = srcFile.Close() }()

	// #nosec G304 -- test utility with paths from test setup, not user input
	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() { _ = dstFile.Close() }()

	_, err = io.Copy(dstFile, srcFile)
	return err
}

// loadGoldenConfig loads a test configuration and returns it.
func loadGoldenConfig(t *testing.T, configPath string) *config.Config {
	t.Helper()

	cfg, err := config.Load(configPath)
	require.NoError(t, err, "failed to load test config")

	return cfg
}

// runPipeline executes one generation run against cfg with a fresh workspace
// and requires the run itself to come back without a hard error.
func runPipeline(t *testing.T, cfg *config.Config, baseline string) *generator.Report {
	t.Helper()

	report, err := generator.New(cfg, t.TempDir()).Run(t.Context(), baseline)
	require.NoError(t, err, "generation run failed")
	require.NotNil(t, report, "run must produce a report")

	return report
}

// verifyManifest compares one generated manifest byte for byte against its
// golden file. Manifest serialization is a strict contract (attribute order,
// indentation, CDATA), so no normalization is applied.
func verifyManifest(t *testing.T, outputDir, name, goldenPath string, updateGolden bool) {
	t.Helper()

	actualPath := filepath.Join(outputDir, name)
	// #nosec G304 -- test utility reading from test output directory
	actual, err := os.ReadFile(actualPath)
	require.NoError(t, err, "failed to read generated manifest %s", name)

	if updateGolden {
		err = os.MkdirAll(filepath.Dir(goldenPath), 0o750)
		require.NoError(t, err, "failed to create golden directory")

		err = os.WriteFile(goldenPath, actual, 0o600)
		require.NoError(t, err, "failed to write golden file")

		t.Logf("Updated golden file: %s", goldenPath)
		return
	}

	// #nosec G304 -- test utility reading golden file from testdata
	golden, err := os.ReadFile(goldenPath)
	require.NoError(t, err, "failed to read golden file: %s", goldenPath)

	require.Equal(t, string(golden), string(actual), "manifest %s diverges from golden", name)
}

// runGoldenTest executes a full generation run over a local source tree and
// verifies both manifests against the golden files in goldenDir.
func runGoldenTest(t *testing.T, sourceDir, configPath, goldenDir string, updateGolden bool) *generator.Report {
	t.Helper()

	cfg := loadGoldenConfig(t, configPath)

	// Point configuration to the testdata source tree
	require.Len(t, cfg.Sources, 1, "expected exactly one source in config")
	cfg.Sources[0].Path = sourceDir
	cfg.Sources[0].URL = ""

	outputDir := t.TempDir()
	cfg.Output.Directory = outputDir

	report := runPipeline(t, cfg, "")
	require.Equal(t, string(metrics.OutcomeSuccess), report.Outcome, "run should finish warning free")
	require.Zero(t, report.Warnings, "run should raise no diagnostics")

	verifyManifest(t, outputDir, "examples-manifest.xml",
		filepath.Join(goldenDir, "examples-manifest.golden.xml"), updateGolden)
	verifyManifest(t, outputDir, "demos-manifest.xml",
		filepath.Join(goldenDir, "demos-manifest.golden.xml"), updateGolden)

	return report
}
