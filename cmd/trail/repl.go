package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/muesli/reflow/wordwrap"

	"github.com/jwebster45206/trail1897/pkg/game"
)

const replWidth = 79

var quitWords = map[string]bool{"quit": true, "exit": true, "/quit": true}

// runREPL plays line by line when stdin is not a terminal, so the game can
// be scripted or piped.
func runREPL(ctx context.Context, session *game.Session, opening *game.Turn, in io.Reader, out io.Writer) error {
	writeTurn(out, opening)
	scanner := bufio.NewScanner(in)
	for {
		if _, err := fmt.Fprint(out, "> "); err != nil {
			return err
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		input := strings.TrimSpace(scanner.Text())
		if quitWords[strings.ToLower(input)] {
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}
		writeTurn(out, session.Handle(ctx, input))
	}
}

func writeTurn(out io.Writer, t *game.Turn) {
	for _, line := range t.Lines {
		text := line.Text
		if line.Kind == game.LineSystem {
			text = "* " + text
		}
		fmt.Fprintln(out, wordwrap.String(text, replWidth))
	}
	if len(t.Lines) > 0 {
		fmt.Fprintln(out)
	}
}
