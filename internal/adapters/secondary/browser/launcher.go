package browser

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"

	"github.com/fredcamaral/inkpost/internal/domain/ports"
)

// ErrNoBrowser is returned when no opener command is installed
var ErrNoBrowser = errors.New("no supported browser found on this system")

// Launcher implements ports.BrowserLauncher with the platform's URL opener
type Launcher struct {
	openers  []Opener
	lookPath func(string) (string, error)
	start    func(ctx context.Context, name string, args ...string) error
}

// Opener is a command that opens a URL
type Opener struct {
	Name    string
	Command string
	Args    func(url string) []string
}

// NewLauncher creates a launcher for the current platform
func NewLauncher() *Launcher {
	return &Launcher{
		openers:  openersFor(runtime.GOOS),
		lookPath: exec.LookPath,
		start:    startDetached,
	}
}

// Open starts the first available opener on target. Only http and https
// URLs are accepted.
func (l *Launcher) Open(ctx context.Context, target string) error {
	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("refusing to open %q: not an http url", target)
	}

	opener, err := l.selectOpener()
	if err != nil {
		return err
	}

	if err := l.start(ctx, opener.Command, opener.Args(u.String())...); err != nil {
		return fmt.Errorf("launching %s: %w", opener.Name, err)
	}
	return nil
}

// selectOpener returns the first opener whose executable is in PATH
func (l *Launcher) selectOpener() (*Opener, error) {
	for i := range l.openers {
		if _, err := l.lookPath(l.openers[i].Command); err == nil {
			return &l.openers[i], nil
		}
	}
	return nil, ErrNoBrowser
}

// startDetached starts the command and reaps it in the background. The
// browser outlives ctx.
func startDetached(ctx context.Context, name string, args ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cmd := exec.Command(name, args...) // #nosec G204 - command comes from the opener table
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}

func urlOnly(url string) []string {
	return []string{url}
}

// openersFor lists the URL openers to try on goos, in order
func openersFor(goos string) []Opener {
	switch goos {
	case "darwin":
		return []Opener{
			{Name: "Default", Command: "open", Args: urlOnly},
		}
	case "linux", "freebsd", "openbsd", "netbsd":
		return []Opener{
			{Name: "xdg-open", Command: "xdg-open", Args: urlOnly},
			{Name: "Chrome", Command: "google-chrome", Args: urlOnly},
			{Name: "Firefox", Command: "firefox", Args: urlOnly},
		}
	case "windows":
		return []Opener{
			{
				Name:    "Default",
				Command: "rundll32",
				Args: func(url string) []string {
					return []string{"url.dll,FileProtocolHandler", url}
				},
			},
		}
	default:
		return nil
	}
}

// Ensure Launcher implements ports.BrowserLauncher
var _ ports.BrowserLauncher = (*Launcher)(nil)
