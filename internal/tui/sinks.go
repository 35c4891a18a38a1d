package tui

import (
	"io"
	"log/slog"

	"github.com/atotto/clipboard"

	"github.com/luisrivasnoriega/pawn-appetit-sub001/internal/domain"
)

type systemClipboard struct{}

func (systemClipboard) WriteText(text string) error { return clipboard.WriteAll(text) }

// SystemClipboard writes to the OS clipboard (xclip/xsel/wl-copy on Linux).
func SystemClipboard() domain.Clipboard { return systemClipboard{} }

// BellSounder rings the terminal bell for every move; checks ring twice.
type BellSounder struct {
	w      io.Writer
	logger *slog.Logger
}

func NewBellSounder(w io.Writer, logger *slog.Logger) *BellSounder {
	if logger == nil {
		logger = slog.Default()
	}
	return &BellSounder{w: w, logger: logger}
}

func (b *BellSounder) PlayMove(kind domain.SoundKind) {
	b.logger.Debug("move sound", slog.String("kind", kind.String()))
	if b.w == nil {
		return
	}
	bell := "\a"
	if kind == domain.SoundCheck {
		bell = "\a\a"
	}
	_, _ = io.WriteString(b.w, bell)
}
