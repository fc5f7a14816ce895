//go:build !windows

package platform

import (
	"os/exec"

	"github.com/go-kit/kit/log"
)

func native(logger log.Logger) Services {
	if Detect() == Linux {
		if _, err := exec.LookPath("gio"); err == nil {
			return NewGNOME(logger)
		}
	}
	return Noop{}
}
