package game

import (
	"fmt"
	"strings"
)

// LineKind tells the front end how to style a line.
type LineKind int

const (
	LineSystem LineKind = iota
	LineNarration
	LineDialogue
)

// Line is one line of output.
type Line struct {
	Kind LineKind
	Text string
}

// Status is what the status bar shows after a turn.
type Status struct {
	Health     int
	Energy     int
	Money      int
	Inventory  string
	Location   string
	Goal       string
	SceneIndex int
	Mode       Mode
	Talking    string
}

// Turn is the result of handling one input.
type Turn struct {
	Lines []Line
	// Clear asks the front end to wipe the transcript before printing.
	Clear  bool
	Status Status
}

func (t *Turn) system(text string) {
	t.Lines = append(t.Lines, Line{Kind: LineSystem, Text: text})
}

func (t *Turn) systemf(format string, args ...any) {
	t.system(fmt.Sprintf(format, args...))
}

func (t *Turn) narrate(text string) {
	t.Lines = append(t.Lines, Line{Kind: LineNarration, Text: text})
}

func (t *Turn) say(text string) {
	t.Lines = append(t.Lines, Line{Kind: LineDialogue, Text: text})
}

// Text joins every line with newlines.
func (t *Turn) Text() string {
	texts := make([]string, len(t.Lines))
	for i, l := range t.Lines {
		texts[i] = l.Text
	}
	return strings.Join(texts, "\n")
}
