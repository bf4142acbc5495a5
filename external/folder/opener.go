package folder

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
)

// OSOpener reveals a directory in the platform file manager.
type OSOpener struct {
	goos  string
	start func(ctx context.Context, name string, args ...string) error
}

func NewOSOpener() *OSOpener {
	return &OSOpener{goos: runtime.GOOS, start: startDetached}
}

func (o *OSOpener) Open(ctx context.Context, dir string) error {
	name, args, err := openCommand(o.goos, dir)
	if err != nil {
		return err
	}
	if err := o.start(ctx, name, args...); err != nil {
		return fmt.Errorf("failed to open %s: %w", dir, err)
	}
	return nil
}

func openCommand(goos, dir string) (string, []string, error) {
	switch goos {
	case "darwin":
		return "open", []string{dir}, nil
	case "windows":
		return "explorer", []string{dir}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{dir}, nil
	default:
		return "", nil, fmt.Errorf("opening folders is not supported on %s", goos)
	}
}

// startDetached does not tie the file manager to ctx; only the launch is.
func startDetached(ctx context.Context, name string, args ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			slog.Debug("folder opener exited", "command", name, "error", err)
		}
	}()
	return nil
}
