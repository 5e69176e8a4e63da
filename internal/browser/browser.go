// Package browser opens paper links and generated visualizations in the
// user's browser.
package browser

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Opener launches a browser for URLs and local files.
type Opener struct {
	browser string
	goos    string
}

// NewOpener creates an opener. An empty browser name means the platform default.
func NewOpener(browser string) *Opener {
	if browser == "" {
		browser = "system"
	}
	return &Opener{browser: browser, goos: runtime.GOOS}
}

// Open starts the browser on target without waiting for it to exit.
// Local paths must exist; http(s) URLs are passed through.
func (o *Opener) Open(target string) error {
	if target == "" {
		return fmt.Errorf("nothing to open")
	}
	if !isURL(target) {
		if _, err := os.Stat(target); err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("file does not exist: %s", target)
			}
			return fmt.Errorf("checking file: %w", err)
		}
	}

	cmd, err := o.Command(target)
	if err != nil {
		return err
	}
	return cmd.Start()
}

// Command returns the command that would open target.
func (o *Opener) Command(target string) (*exec.Cmd, error) {
	switch o.goos {
	case "darwin":
		if o.browser == "system" {
			return exec.Command("open", target), nil
		}
		return exec.Command("open", "-a", o.browser, target), nil
	case "linux":
		if o.browser == "system" {
			return exec.Command("xdg-open", target), nil
		}
		return exec.Command(o.browser, target), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", o.goos)
	}
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
