package git

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/naclports/naclports/internal/application/ports"
)

// ChangeSource reports the difference between the working tree and a base
// revision of a git checkout.
type ChangeSource struct {
	logger   *slog.Logger
	repoRoot string
	base     string
}

// NewChangeSource creates a ChangeSource for repoRoot. An empty base selects
// the branch's upstream, falling back to HEAD when there is none.
func NewChangeSource(repoRoot, base string, logger *slog.Logger) *ChangeSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChangeSource{repoRoot: repoRoot, base: base, logger: logger}
}

// AffectedFiles lists every file that differs from the base revision.
func (s *ChangeSource) AffectedFiles(ctx context.Context) ([]ports.AffectedFile, error) {
	base, err := s.resolveBase(ctx)
	if err != nil {
		return nil, err
	}

	out, err := s.git(ctx, "-c", "core.quotepath=off", "diff", "--no-color", "--no-ext-diff", "--no-renames", "-U0", base, "--")
	if err != nil {
		return nil, fmt.Errorf("failed to diff against %s: %w", base, err)
	}

	files, err := ParseDiff(bytes.NewReader(out))
	if err != nil {
		return nil, err
	}

	s.logger.Debug("collected affected files", "base", base, "files", len(files))
	return files, nil
}

// ReadFile returns the working-tree contents of path.
func (s *ChangeSource) ReadFile(_ context.Context, path string) ([]byte, error) {
	full := filepath.Join(s.repoRoot, filepath.FromSlash(path))
	rel, err := filepath.Rel(s.repoRoot, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, fmt.Errorf("path %q escapes repository root", path)
	}
	//nolint:gosec // G304: path is confined to the repository root above
	return os.ReadFile(full)
}

func (s *ChangeSource) resolveBase(ctx context.Context) (string, error) {
	if s.base != "" {
		return s.base, nil
	}

	if out, err := s.git(ctx, "rev-parse", "--verify", "--quiet", "@{upstream}"); err == nil {
		if rev := strings.TrimSpace(string(out)); rev != "" {
			return rev, nil
		}
	}

	if _, err := s.git(ctx, "rev-parse", "--verify", "--quiet", "HEAD"); err != nil {
		return "", fmt.Errorf("%s is not a git checkout with commits: %w", s.repoRoot, err)
	}
	return "HEAD", nil
}

func (s *ChangeSource) git(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = s.repoRoot

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, msg)
		}
		return nil, fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return out, nil
}
