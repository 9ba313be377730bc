package shared

import (
	"errors"
	"os/exec"
	"testing"
)

func TestOpenBrowser(t *testing.T) {
	origRuntime, origStart := getRuntime, startCommand
	t.Cleanup(func() { getRuntime, startCommand = origRuntime, origStart })

	t.Run("unsupported platform", func(t *testing.T) {
		getRuntime = func() string { return "plan9" }
		if err := OpenBrowser("http://127.0.0.1:8888"); err == nil {
			t.Error("expected error for unsupported platform")
		}
	})

	t.Run("linux uses xdg-open", func(t *testing.T) {
		var got *exec.Cmd
		getRuntime = func() string { return "linux" }
		startCommand = func(cmd *exec.Cmd) error { got = cmd; return nil }

		if err := OpenBrowser("http://127.0.0.1:8888"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got == nil || got.Args[0] != "xdg-open" || got.Args[1] != "http://127.0.0.1:8888" {
			t.Errorf("unexpected command %v", got)
		}
	})

	t.Run("start failure is wrapped", func(t *testing.T) {
		getRuntime = func() string { return "darwin" }
		startCommand = func(cmd *exec.Cmd) error { return errors.New("boom") }

		if err := OpenBrowser("http://127.0.0.1:8888"); err == nil {
			t.Error("expected start error")
		}
	})
}
