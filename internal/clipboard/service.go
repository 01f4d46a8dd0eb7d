// Package clipboard copies text to the system clipboard.
package clipboard

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
)

// ErrNoTool is returned when neither the clipboard library nor any known
// command line tool could be used
var ErrNoTool = errors.New("no clipboard tool found (install wl-clipboard, xclip or xsel)")

// Service writes to the clipboard through atotto/clipboard, falling back to a
// configured command or the platform's usual tools
type Service struct {
	command []string
	logger  *slog.Logger

	writeAll    func(string) error
	lookPath    func(string) (string, error)
	goos        string
	procVersion string
}

// NewService creates a clipboard service. command is an optional fallback
// such as "wl-copy" or "xclip -selection clipboard"; the text is written to
// its stdin.
func NewService(command string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		command:     parseCommand(command),
		logger:      logger,
		writeAll:    clipboard.WriteAll,
		lookPath:    exec.LookPath,
		goos:        runtime.GOOS,
		procVersion: "/proc/version",
	}
}

// Copy puts text on the clipboard
func (s *Service) Copy(text string) error {
	err := s.writeAll(text)
	if err == nil {
		s.logger.Debug("copied to clipboard", "length", len(text))
		return nil
	}
	s.logger.Debug("clipboard library failed, trying fallback", "error", err)

	args := s.command
	if len(args) == 0 {
		args = s.defaultCommand()
	}
	if len(args) == 0 {
		return ErrNoTool
	}

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdin = strings.NewReader(text)
	if out, err := cmd.CombinedOutput(); err != nil {
		s.logger.Warn("clipboard command failed", "command", args[0], "error", err, "output", strings.TrimSpace(string(out)))
		return fmt.Errorf("failed to copy with %s: %w", args[0], err)
	}

	s.logger.Debug("copied to clipboard", "command", args[0], "length", len(text))
	return nil
}

// defaultCommand picks a clipboard tool for the current platform
func (s *Service) defaultCommand() []string {
	switch s.goos {
	case "darwin":
		return []string{"pbcopy"}
	case "windows":
		return []string{"clip.exe"}
	case "linux":
		if s.isWSL() {
			return []string{"clip.exe"}
		}
		candidates := [][]string{
			{"wl-copy"},
			{"xclip", "-selection", "clipboard"},
			{"xsel", "--clipboard", "--input"},
		}
		for _, c := range candidates {
			if _, err := s.lookPath(c[0]); err == nil {
				return c
			}
		}
	}
	return nil
}

func (s *Service) isWSL() bool {
	data, err := os.ReadFile(s.procVersion)
	if err != nil {
		return false
	}
	version := strings.ToLower(string(data))
	return strings.Contains(version, "microsoft") || strings.Contains(version, "wsl")
}

// parseCommand splits a command line on spaces, keeping quoted arguments whole
func parseCommand(command string) []string {
	var parts []string
	var current strings.Builder
	var quote rune

	flush := func() {
		if current.Len() > 0 {
			parts = append(parts, current.String())
			current.Reset()
		}
	}

	for _, r := range command {
		switch {
		case quote != 0 && r == quote:
			quote = 0
		case quote == 0 && (r == '\'' || r == '"'):
			quote = r
		case quote == 0 && r == ' ':
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()

	return parts
}
