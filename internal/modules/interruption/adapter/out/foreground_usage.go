package out

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"focusfarm/internal/modules/interruption/domain"
	apperrors "focusfarm/internal/platform/errors"
)

// ForegroundUsageQuerier reports the process owning the active X11 window
// as the most recently used package.
type ForegroundUsageQuerier struct {
	path     string
	procRoot string
	run      CommandRunner
}

func NewForegroundUsageQuerier() *ForegroundUsageQuerier {
	path, err := exec.LookPath("xdotool")
	if err != nil {
		path = ""
	}
	return &ForegroundUsageQuerier{path: path, procRoot: "/proc", run: execRunner}
}

func NewForegroundUsageQuerierWithRunner(procRoot string, run CommandRunner) *ForegroundUsageQuerier {
	return &ForegroundUsageQuerier{path: "xdotool", procRoot: procRoot, run: run}
}

func (q *ForegroundUsageQuerier) QueryUsage(ctx context.Context, _, to time.Time) ([]domain.UsageStat, error) {
	if q.path == "" || strings.EqualFold(os.Getenv("XDG_SESSION_TYPE"), "wayland") {
		return nil, apperrors.ErrUnsupported
	}
	output, err := q.run(ctx, q.path, "getactivewindow", "getwindowpid")
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// no active window, e.g. an empty desktop
			return nil, nil
		}
		return nil, fmt.Errorf("xdotool: %w", err)
	}
	pid := strings.TrimSpace(string(output))
	if pid == "" {
		return nil, nil
	}
	comm, err := os.ReadFile(filepath.Join(q.procRoot, pid, "comm"))
	if errors.Is(err, os.ErrPermission) {
		return nil, apperrors.ErrPermissionDenied
	}
	if err != nil {
		return nil, fmt.Errorf("read process name: %w", err)
	}
	return []domain.UsageStat{{Package: strings.TrimSpace(string(comm)), LastUsed: to}}, nil
}
