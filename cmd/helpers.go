package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/broomtools/broom/pkg/audit"
	"github.com/broomtools/broom/pkg/models"
	"github.com/broomtools/broom/pkg/service"
)

// resolveDir expands ~ and verifies the target is a directory.
func resolveDir(arg string) (string, error) {
	path := arg
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("directory %q not found: %w", arg, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%q is not a directory", arg)
	}
	return path, nil
}

// askYesNo returns a confirmation gate reading y/N answers from in.
func askYesNo(in io.Reader, out io.Writer) service.ConfirmFunc {
	reader := bufio.NewReader(in)
	return func(prompt string) bool {
		fmt.Fprintf(out, "%s (y/N): ", prompt)
		answer, err := reader.ReadString('\n')
		if err != nil {
			return false
		}
		return strings.EqualFold(strings.TrimSpace(answer), "y")
	}
}

// openTrail opens the audit database, or returns nil with a warning
// when it cannot be opened. The trail is bookkeeping; its absence
// never blocks an organize run.
func openTrail(settings models.Settings, logger *logrus.Logger) *audit.Trail {
	trail, err := audit.Open(filepath.Join(settings.DataDir, "history.db"))
	if err != nil {
		logger.Warnf("audit trail unavailable: %v", err)
		return nil
	}
	return trail
}
