package game

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/jwebster45206/trail1897/pkg/chat"
)

// WriteJournal renders the transcript to a PDF under dir and returns its
// path. Command output is left out; the journal reads as a story.
func WriteJournal(dir string, history []chat.ChatMessage, started, written time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create journal directory: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("trail-journal-%s.pdf", written.Format("2006-01-02")))

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Trail Journal", true)
	pdf.AddPage()

	pdf.SetFont("Times", "B", 18)
	pdf.CellFormat(0, 10, "A Walk North, 1897", "", 1, "C", false, 0, "")
	pdf.SetFont("Times", "I", 11)
	pdf.CellFormat(0, 8, "Begun at "+StartingLocation+", "+started.Format("January 2, 2006"), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	for _, m := range history {
		switch m.Role {
		case chat.ChatRoleUser:
			pdf.SetFont("Times", "I", 11)
			pdf.MultiCell(0, 6, tr("> "+m.Content), "", "L", false)
		case chat.ChatRoleAgent:
			pdf.SetFont("Times", "", 12)
			pdf.MultiCell(0, 6, tr(m.Content), "", "L", false)
		default:
			continue
		}
		pdf.Ln(2)
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("failed to write journal: %w", err)
	}
	return path, nil
}

func (s *Session) cmdJournal(_ context.Context, t *Turn, _ string) {
	if len(s.gs.ChatHistory) == 0 {
		t.system("Nothing has happened yet to write down.")
		return
	}
	path, err := WriteJournal(s.journalDir, s.gs.ChatHistory, s.gs.CreatedAt, s.clock())
	if err != nil {
		s.logger.Error("Error writing journal", "error", err)
		t.system("The journal could not be written.")
		return
	}
	s.logger.Info("Journal written", "path", path)
	t.systemf("Journal written to %s.", path)
}
