// Package publish pushes the finished summary document to a git remote. It
// is a downstream consumer of the data directory: by the time Publish runs,
// the files it stages are complete and valid on disk.
package publish

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/wellsgz/vigil/internal/config"
)

// GitPublisher commits and pushes result files using the git binary.
type GitPublisher struct {
	dir           string
	files         []string
	messagePrefix string
	logger        *zap.Logger
}

// NewGitPublisher builds a publisher from the publish config. When no files
// are configured, the summary document inside dataDir is staged.
func NewGitPublisher(cfg config.PublishConfig, defaultFile string, logger *zap.Logger) *GitPublisher {
	dir := cfg.Dir
	if dir == "" {
		dir = "."
	}
	files := cfg.Files
	if len(files) == 0 {
		files = []string{defaultFile}
	}
	prefix := cfg.MessagePrefix
	if prefix == "" {
		prefix = "vigil results update"
	}
	return &GitPublisher{
		dir:           dir,
		files:         files,
		messagePrefix: prefix,
		logger:        logger,
	}
}

// Publish stages the configured files, commits with a timestamped message
// and pushes. A working tree with nothing new to commit is not an error.
// Outside a git repository, Publish logs and returns nil so monitoring
// continues unaffected.
func (p *GitPublisher) Publish(ctx context.Context) error {
	if _, err := os.Stat(filepath.Join(p.dir, ".git")); err != nil {
		p.logger.Warn("not a git repository, skipping publication", zap.String("dir", p.dir))
		return nil
	}

	args := append([]string{"add", "--"}, p.files...)
	if out, err := p.git(ctx, args...); err != nil {
		return fmt.Errorf("git add: %w: %s", err, out)
	}

	message := fmt.Sprintf("%s - %s", p.messagePrefix, time.Now().Format("2006-01-02 15:04:05"))
	if out, err := p.git(ctx, "commit", "-m", message); err != nil {
		if strings.Contains(out, "nothing to commit") {
			p.logger.Info("no changes to publish")
			return nil
		}
		return fmt.Errorf("git commit: %w: %s", err, out)
	}

	if out, err := p.git(ctx, "push"); err != nil {
		return fmt.Errorf("git push: %w: %s", err, out)
	}

	p.logger.Info("results published", zap.Strings("files", p.files))
	return nil
}

func (p *GitPublisher) git(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = p.dir
	out, err := cmd.CombinedOutput()
	return string(out), err
}
