// Package editor launches the user's preferred text editor.
package editor

import (
	"fmt"
	"os"
	"os/exec"
)

// Open opens path in the user's editor and blocks until it exits. The
// editor inherits the terminal.
func Open(path string) error {
	cmd := exec.Command(detect(), path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("running editor: %w", err)
	}

	return nil
}

// detect picks the editor command: $EDITOR, then $VISUAL, then nano
// when installed, then vi.
func detect() string {
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	if visual := os.Getenv("VISUAL"); visual != "" {
		return visual
	}
	if _, err := exec.LookPath("nano"); err == nil {
		return "nano"
	}
	return "vi"
}
