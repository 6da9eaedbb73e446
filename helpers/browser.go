package helpers

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"runtime"
)

// BrowserNavigator opens URLs with the platform's default handler.
type BrowserNavigator struct {
	// command overrides platform detection; used in tests.
	command func(ctx context.Context, url string) *exec.Cmd
}

func openCommand(ctx context.Context, url string) *exec.Cmd {
	switch runtime.GOOS {
	case "darwin":
		return exec.CommandContext(ctx, "open", url)
	case "windows":
		return exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return exec.CommandContext(ctx, "xdg-open", url)
	}
}

func (b *BrowserNavigator) Open(ctx context.Context, url string) error {
	build := b.command
	if build == nil {
		build = openCommand
	}
	cmd := build(ctx, url)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("opening %s: %w", url, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// PrintNavigator writes the URL instead of launching a browser.
type PrintNavigator struct {
	Out io.Writer
}

func (p PrintNavigator) Open(_ context.Context, url string) error {
	_, err := fmt.Fprintln(p.Out, url)
	return err
}
