package helpers

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
)

const (
	Reset = "\033[0m"
	Bold  = "\033[1m"

	Green  = "\033[32m"
	Yellow = "\033[33m"
)

var colorEnabled = detectColorSupport(os.Stdout)

// detectColorSupport reports whether ANSI codes written to w would render.
func detectColorSupport(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if runtime.GOOS == "windows" {
		return os.Getenv("WT_SESSION") != "" ||
			os.Getenv("TERM_PROGRAM") == "vscode" ||
			os.Getenv("ANSICON") != ""
	}
	fileInfo, err := f.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

func SupportsColor() bool {
	return colorEnabled
}

func SetColorEnabled(enabled bool) {
	colorEnabled = enabled
}

func Colorize(text, color string) string {
	if !colorEnabled {
		return text
	}
	return color + text + Reset
}

// TerminalNotifier prints alerts where a browser would pop up a dialog.
// Colour follows the stream it writes to, not stdout.
type TerminalNotifier struct {
	mu  sync.Mutex
	Out io.Writer
}

func (n *TerminalNotifier) Notify(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.Out
	if out == nil {
		out = os.Stderr
	}
	line := "[!] " + msg
	if colorEnabled && detectColorSupport(out) {
		line = Bold + Yellow + line + Reset
	}
	fmt.Fprintln(out, line)
}

func FormatBytes(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
