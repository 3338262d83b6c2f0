// Package git clones and updates remote documentation sources into the run
// workspace. Checkouts are scratch scan material: sync always converges the
// local state on the remote branch head.
package git

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	ggitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"

	appcfg "git.home.luguber.info/inful/exdoc/internal/config"
	"git.home.luguber.info/inful/exdoc/internal/logfields"
)

// Client performs git operations against a workspace directory. Each source
// is checked out under <workspace>/<source name>.
type Client struct {
	workspaceDir string
	retryCfg     *appcfg.Git
}

// NewClient creates a git client rooted at workspaceDir.
func NewClient(workspaceDir string) *Client {
	return &Client{workspaceDir: workspaceDir}
}

// WithRetryConfig attaches retry tuning for transient failures (fluent
// helper). Without it every operation runs exactly once.
func (c *Client) WithRetryConfig(cfg appcfg.Git) *Client {
	c.retryCfg = &cfg
	return c
}

// Sync makes the source's checkout match the remote branch head and returns
// the checkout path. A missing checkout is cloned, an existing one is fetched
// and reset to the remote state.
func (c *Client) Sync(ctx context.Context, src appcfg.Source) (string, error) {
	return c.withRetry(ctx, "sync", src.Name, func() (string, error) {
		repoPath := filepath.Join(c.workspaceDir, src.Name)
		if _, err := os.Stat(filepath.Join(repoPath, ".git")); err != nil {
			return c.clone(ctx, src, repoPath)
		}
		return c.update(ctx, src, repoPath)
	})
}

func (c *Client) clone(ctx context.Context, src appcfg.Source, repoPath string) (string, error) {
	slog.Debug("cloning source",
		logfields.Source(src.Name),
		logfields.URL(src.URL),
		slog.String("branch", src.Branch),
		logfields.Path(repoPath))

	if err := os.RemoveAll(repoPath); err != nil {
		return "", fmt.Errorf("clearing checkout directory: %w", err)
	}

	opts := &git.CloneOptions{URL: src.URL}
	if src.Branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(src.Branch)
		opts.SingleBranch = true
	}
	if src.Depth > 0 {
		opts.Depth = src.Depth
	}
	auth, err := authMethod(src.Auth)
	if err != nil {
		return "", fmt.Errorf("source %s: %w", src.Name, err)
	}
	opts.Auth = auth

	repository, err := git.PlainCloneContext(ctx, repoPath, false, opts)
	if err != nil {
		return "", classifyError("clone", src.URL, err)
	}

	if ref, herr := repository.Head(); herr == nil {
		slog.Info("source cloned",
			logfields.Source(src.Name),
			logfields.URL(src.URL),
			slog.String("commit", shortHash(ref.Hash())))
	} else {
		slog.Info("source cloned", logfields.Source(src.Name), logfields.URL(src.URL))
	}
	return repoPath, nil
}

func (c *Client) update(ctx context.Context, src appcfg.Source, repoPath string) (string, error) {
	repository, err := git.PlainOpen(repoPath)
	if err != nil {
		return "", fmt.Errorf("opening checkout: %w", err)
	}
	wt, err := repository.Worktree()
	if err != nil {
		return "", fmt.Errorf("worktree: %w", err)
	}

	if err := c.fetchOrigin(ctx, repository, src); err != nil {
		return "", classifyError("fetch", src.URL, err)
	}

	branch, err := resolveTargetBranch(repository, src)
	if err != nil {
		return "", err
	}
	localRef, remoteRef, err := checkoutBranch(repository, wt, branch)
	if err != nil {
		return "", err
	}

	switch {
	case localRef.Hash() == remoteRef.Hash():
		slog.Info("source already up to date",
			logfields.Source(src.Name),
			slog.String("branch", branch),
			slog.String("commit", shortHash(remoteRef.Hash())))
		return repoPath, nil
	case ancestorOf(repository, localRef.Hash(), remoteRef.Hash()):
		slog.Info("fast-forwarding source",
			logfields.Source(src.Name),
			slog.String("branch", branch),
			slog.String("from", shortHash(localRef.Hash())),
			slog.String("to", shortHash(remoteRef.Hash())))
	default:
		// The checkout is never written to, so divergence means leftover
		// local state. Converging on the remote is always safe here.
		slog.Warn("checkout diverged from remote, resetting",
			logfields.Source(src.Name),
			slog.String("branch", branch))
	}

	if err := wt.Reset(&git.ResetOptions{Commit: remoteRef.Hash(), Mode: git.HardReset}); err != nil {
		return "", fmt.Errorf("reset to remote head: %w", err)
	}
	return repoPath, nil
}

// fetchOrigin fetches all remote branch heads with the source's depth and
// credentials.
func (c *Client) fetchOrigin(ctx context.Context, repository *git.Repository, src appcfg.Source) error {
	opts := &git.FetchOptions{
		RemoteName: "origin",
		Tags:       git.NoTags,
		RefSpecs:   []ggitcfg.RefSpec{"+refs/heads/*:refs/remotes/origin/*"},
	}
	if src.Depth > 0 {
		opts.Depth = src.Depth
	}
	auth, err := authMethod(src.Auth)
	if err != nil {
		return err
	}
	opts.Auth = auth

	if err := repository.FetchContext(ctx, opts); err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return err
	}
	return nil
}

// resolveTargetBranch picks the branch to sync: the configured branch, else
// the branch HEAD points at, else the remote default, else "main".
func resolveTargetBranch(repository *git.Repository, src appcfg.Source) (string, error) {
	if src.Branch != "" {
		return src.Branch, nil
	}
	if headRef, err := repository.Head(); err == nil && headRef.Name().IsBranch() {
		return headRef.Name().Short(), nil
	}
	if ref, err := repository.Reference("refs/remotes/origin/HEAD", true); err == nil && ref.Target() != "" {
		return ref.Target().Short(), nil
	}
	return "main", nil
}

// checkoutBranch ensures the local branch exists and is checked out, and
// returns the local and remote references for it.
func checkoutBranch(repository *git.Repository, wt *git.Worktree, branch string) (localRef, remoteRef *plumbing.Reference, err error) {
	localName := plumbing.NewBranchReferenceName(branch)
	remoteName := plumbing.NewRemoteReferenceName("origin", branch)

	remoteRef, err = repository.Reference(remoteName, true)
	if err != nil {
		return nil, nil, fmt.Errorf("remote branch %s: %w", branch, err)
	}

	localRef, lerr := repository.Reference(localName, true)
	if lerr != nil {
		if err = wt.Checkout(&git.CheckoutOptions{Branch: localName, Create: true, Force: true, Hash: remoteRef.Hash()}); err != nil {
			return nil, nil, fmt.Errorf("checkout new branch %s: %w", branch, err)
		}
		localRef, err = repository.Reference(localName, true)
		if err != nil {
			return nil, nil, fmt.Errorf("local branch %s: %w", branch, err)
		}
		return localRef, remoteRef, nil
	}
	if err = wt.Checkout(&git.CheckoutOptions{Branch: localName, Force: true}); err != nil {
		return nil, nil, fmt.Errorf("checkout branch %s: %w", branch, err)
	}
	return localRef, remoteRef, nil
}

// ancestorOf reports whether a is reachable from b, i.e. resetting from a to
// b is a fast-forward. Errors during the walk count as not-an-ancestor; the
// caller then treats the update as a divergence.
func ancestorOf(repository *git.Repository, a, b plumbing.Hash) bool {
	if a == b {
		return true
	}
	seen := map[plumbing.Hash]struct{}{}
	queue := []plumbing.Hash{b}
	for len(queue) > 0 {
		h := queue[0]
		queue = queue[1:]
		if h == a {
			return true
		}
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		commit, err := repository.CommitObject(h)
		if err != nil {
			return false
		}
		queue = append(queue, commit.ParentHashes...)
	}
	return false
}

func shortHash(h plumbing.Hash) string {
	return h.String()[:8]
}
