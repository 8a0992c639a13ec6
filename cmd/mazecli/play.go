package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/wricardo/mcp-training/mazerunner/game/engine"
)

type key int

const (
	keyNone key = iota
	keyUp
	keyDown
	keyLeft
	keyRight
	keyBack
	keyReset
	keySolve
	keyGenerate
	keyQuit
)

var keyDirections = map[key]engine.Direction{
	keyUp:    engine.Up,
	keyDown:  engine.Down,
	keyLeft:  engine.Left,
	keyRight: engine.Right,
}

// readKey decodes one keypress, including ANSI arrow sequences (ESC [ X and ESC O X)
func readKey(r *bufio.Reader) (key, error) {
	b, err := r.ReadByte()
	if err != nil {
		return keyNone, err
	}

	switch b {
	case 0x1b:
		b2, err := r.ReadByte()
		if err != nil {
			return keyNone, err
		}
		if b2 != '[' && b2 != 'O' {
			return keyNone, nil
		}
		b3, err := r.ReadByte()
		if err != nil {
			return keyNone, err
		}
		switch b3 {
		case 'A':
			return keyUp, nil
		case 'B':
			return keyDown, nil
		case 'C':
			return keyRight, nil
		case 'D':
			return keyLeft, nil
		}
		return keyNone, nil
	case 'k':
		return keyUp, nil
	case 'j':
		return keyDown, nil
	case 'h':
		return keyLeft, nil
	case 'l':
		return keyRight, nil
	case 'b':
		return keyBack, nil
	case 'r':
		return keyReset, nil
	case 's':
		return keySolve, nil
	case 'g':
		return keyGenerate, nil
	case 'q', 3: // 3 is Ctrl+C in raw mode
		return keyQuit, nil
	}
	return keyNone, nil
}

// game drives one engine from keypresses and redraws after each
type game struct {
	eng      *engine.MazeEngine
	out      io.Writer
	paint    func(rune, string) string
	interval time.Duration
	sleep    func(time.Duration)
	status   string
}

func newGame(eng *engine.MazeEngine, out io.Writer, paint func(rune, string) string) *game {
	return &game{
		eng:      eng,
		out:      out,
		paint:    paint,
		interval: engine.DefaultRevealMillis * time.Millisecond,
		sleep:    time.Sleep,
	}
}

// apply handles one key and reports whether the game should end
func (g *game) apply(k key) bool {
	g.status = ""

	switch k {
	case keyQuit:
		return true
	case keyUp, keyDown, keyLeft, keyRight:
		if !g.eng.Move(string(keyDirections[k])) {
			g.status = g.eng.GetState().Message
		}
	case keyBack:
		if !g.eng.Backtrack() {
			g.status = g.eng.GetState().Message
		}
	case keyReset:
		g.eng.Reset()
	case keyGenerate:
		if err := g.eng.Generate(g.eng.GetState().Size); err != nil {
			g.status = err.Error()
		}
	case keySolve:
		path := g.eng.Solve()
		g.reveal(path)
	}
	return false
}

// reveal draws the solution one more cell per frame
func (g *game) reveal(path engine.Path) {
	for i := 1; i < len(path); i++ {
		g.drawPath(path[:i])
		g.sleep(g.interval)
	}
}

func (g *game) draw() {
	g.drawPath(g.eng.GetState().Solution)
}

func (g *game) drawPath(path engine.Path) {
	state := g.eng.GetState()
	player := state.PlayerPos

	var b strings.Builder
	b.WriteString("\x1b[H\x1b[2J")
	fmt.Fprintf(&b, "Maze %dx%d  position (%d,%d)  moves %d\n",
		state.Size, state.Size, player.X, player.Y, state.CurrentMovesCount)
	b.WriteString(state.Grid.Render(engine.RenderOptions{
		Path:   path,
		Player: &player,
		Paint:  g.paint,
	}))

	switch {
	case state.Victory:
		fmt.Fprintf(&b, "Escaped in %d moves! g: new maze  q: quit\n", state.CurrentMovesCount)
	case !state.PlayerCanMove:
		fmt.Fprintf(&b, "%s r: reset  g: new maze  q: quit\n", state.Message)
	default:
		b.WriteString("arrows/hjkl: move  b: back  r: reset  s: solve  g: new maze  q: quit\n")
	}
	if g.status != "" {
		b.WriteString(g.status + "\n")
	}

	// raw mode does not translate newlines
	io.WriteString(g.out, strings.ReplaceAll(b.String(), "\n", "\r\n"))
}

// run reads keys until quit or end of input
func (g *game) run(in io.Reader) error {
	r := bufio.NewReader(in)
	g.draw()
	for {
		k, err := readKey(r)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if g.apply(k) {
			return nil
		}
		g.draw()
	}
}

// playInTerminal switches stdin to raw mode for the duration of the game
func playInTerminal(g *game) error {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return errors.New("play needs an interactive terminal")
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("cannot set terminal to raw mode: %w", err)
	}
	defer term.Restore(fd, oldState)

	return g.run(os.Stdin)
}
