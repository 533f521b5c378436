// Package ttyguard stops terminal capability probing for non-interactive
// invocations. Import it for its side effect.
package ttyguard

import (
	"os"
	"strings"
)

// init runs before the TUI acquires the terminal.
//
// Colour and background detection can write OSC/DSR control sequences to
// stdout. Those are harmless in a terminal but corrupt JSON read from
// --robot-* output, so robot and test runs set CI=1, which disables the
// probing.
func init() {
	if os.Getenv("CI") != "" {
		return
	}
	if !shouldSuppressTTYQueries(os.Args, os.Getenv("HS_ROBOT") == "1", os.Getenv("HS_TEST_MODE") != "") {
		return
	}
	_ = os.Setenv("CI", "1")
}

func shouldSuppressTTYQueries(args []string, envRobot, envTest bool) bool {
	if envRobot || envTest {
		return true
	}
	for _, arg := range args {
		if strings.HasPrefix(arg, "--robot-") || strings.HasPrefix(arg, "-robot-") {
			return true
		}
		switch arg {
		case "--version", "-version", "--help", "-help", "-h":
			return true
		}
	}
	return false
}
