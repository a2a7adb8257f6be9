// Copyright © 2026 Ember contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/app/app.go
// Summary: The ember application: a PTY-backed shell session rendered
//          through the tcell UI, with an interactive search overlay.
// Usage: cmd/ember calls Run with the loaded config and any extra args.
// Notes: One goroutine reads the PTY into the engine; the event loop owns
//        everything else.

package app

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"time"

	"github.com/creack/pty"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	xterm "golang.org/x/term"

	"github.com/emberterm/ember/config"
	"github.com/emberterm/ember/searchindex"
	"github.com/emberterm/ember/term"
	"github.com/emberterm/ember/tui"
)

// frameInterval paces rendering and the inertia animation.
const frameInterval = time.Second / 60

// App wires one shell child, one engine, and one screen together.
type App struct {
	cfg    config.Config
	ui     *tui.UI
	engine *term.Engine
	disp   *tui.Dispatcher
	idx    *searchindex.Index

	cmd  *exec.Cmd
	ptmx *os.File

	redraw    chan struct{}
	childDone chan struct{}

	searching bool
	query     []rune
	matches   int
	archived  int
}

// Run starts a shell session and blocks until the child exits or the
// screen is torn down.
func Run(cfg config.Config, args []string) error {
	if !xterm.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("stdin is not a terminal")
	}

	ui, err := tui.New()
	if err != nil {
		return err
	}
	defer ui.Fini()

	a := &App{
		cfg:       cfg,
		ui:        ui,
		redraw:    make(chan struct{}, 1),
		childDone: make(chan struct{}),
	}

	rows, cols := ui.Size()
	engine, err := term.NewEngine(rows, cols,
		term.WithOutput(a.writePTY),
		term.WithScrollbackCapacity(cfg.ScrollbackLines),
		term.WithScrollPhysics(cfg.Scroll.Gain, cfg.Scroll.Friction, cfg.Scroll.StopThreshold),
	)
	if err != nil {
		return err
	}
	a.engine = engine

	if cfg.SearchIndex {
		idx, err := searchindex.New()
		if err != nil {
			log.Printf("history index disabled: %v", err)
		} else {
			a.idx = idx
			defer idx.Close()
			engine.OnRowRetired = func(seq int64, text string) {
				idx.IndexLine(seq, time.Now(), text)
			}
		}
	}

	screen := ui.Screen()
	engine.OnTitleChanged = screen.SetTitle
	engine.OnClipboardWrite = func(s string) { screen.SetClipboard([]byte(s)) }

	a.disp = tui.NewDispatcher(engine)
	a.disp.Copy = func(text string) { screen.SetClipboard([]byte(text)) }
	a.disp.RequestPaste = func() { screen.GetClipboard() }

	if err := a.startShell(args, rows, cols); err != nil {
		return err
	}
	defer a.ptmx.Close()

	go a.readPTY()
	go func() {
		a.cmd.Wait()
		close(a.childDone)
	}()

	return a.loop()
}

// startShell launches the configured shell (or the given command) on a PTY
// sized to the screen.
func (a *App) startShell(args []string, rows, cols int) error {
	command := a.cfg.Shell
	var extra []string
	if len(args) > 0 {
		command = args[0]
		extra = args[1:]
	}
	if command == "" {
		command = os.Getenv("SHELL")
	}
	if command == "" {
		command = "/bin/sh"
	}

	cmd := exec.Command(command, extra...)
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")
	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
	if err != nil {
		return fmt.Errorf("start %s: %w", command, err)
	}
	a.cmd = cmd
	a.ptmx = ptmx
	return nil
}

// readPTY is the single writer of shell output into the engine, so escape
// sequences are never torn across goroutines.
func (a *App) readPTY() {
	buf := make([]byte, 32*1024)
	for {
		n, err := a.ptmx.Read(buf)
		if n > 0 {
			a.engine.Write(buf[:n])
			select {
			case a.redraw <- struct{}{}:
			default:
			}
		}
		if err != nil {
			return
		}
	}
}

// writePTY forwards encoded input and query responses to the child.
func (a *App) writePTY(b []byte) {
	if a.ptmx != nil {
		a.ptmx.Write(b)
	}
}

// loop is the main event and frame loop.
func (a *App) loop() error {
	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	go a.ui.Screen().ChannelEvents(events, quit)
	defer close(quit)

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	last := time.Now()
	dirty := true
	for {
		select {
		case <-a.childDone:
			return nil
		case <-a.redraw:
			dirty = true
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if a.handleEvent(ev) {
				dirty = true
			}
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			animating := a.engine.Tick(dt)
			if dirty || animating {
				a.render()
				dirty = false
			}
		}
	}
}

// handleEvent routes one tcell event, intercepting resize, clipboard
// delivery and the search overlay before the dispatcher sees keys.
func (a *App) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		w, h := ev.Size()
		if w > 0 && h > 0 {
			a.engine.Resize(h, w)
			pty.Setsize(a.ptmx, &pty.Winsize{
				Rows: uint16(h),
				Cols: uint16(w),
			})
		}
		a.ui.Screen().Sync()
		return true
	case *tcell.EventClipboard:
		a.engine.Paste(string(ev.Data()))
		return true
	case *tcell.EventKey:
		if a.searching {
			a.handleSearchKey(ev)
			return true
		}
		if ev.Key() == tcell.KeyCtrlF && ev.Modifiers()&tcell.ModShift != 0 {
			a.searching = true
			a.query = a.query[:0]
			a.matches = 0
			a.archived = 0
			return true
		}
	}
	a.disp.Handle(ev)
	return true
}

// handleSearchKey edits the query and navigates matches while the search
// overlay is open. All keys are swallowed so the child sees nothing.
func (a *App) handleSearchKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		a.searching = false
		a.query = nil
		a.engine.SetSearchQuery("")
	case tcell.KeyEnter, tcell.KeyDown:
		a.engine.SearchNext()
	case tcell.KeyUp:
		a.engine.SearchPrev()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(a.query) > 0 {
			a.query = a.query[:len(a.query)-1]
			a.updateQuery()
		}
	case tcell.KeyRune:
		a.query = append(a.query, ev.Rune())
		a.updateQuery()
	}
}

// updateQuery re-runs the live search and jumps to the first match. When
// the history index is enabled it also counts matches on lines already
// evicted from scrollback, which the viewport can no longer reach.
func (a *App) updateQuery() {
	q := string(a.query)
	a.matches = a.engine.SetSearchQuery(q)
	a.archived = 0
	if a.idx != nil && q != "" {
		a.idx.Flush()
		if results, err := a.idx.Search(q, 500); err == nil {
			total, retained := a.engine.RetiredRows()
			evicted := total - int64(retained)
			for _, r := range results {
				if r.LineIdx < evicted {
					a.archived++
				}
			}
		}
	}
	if a.matches > 0 {
		a.engine.SearchNext()
	}
}

// render draws the current snapshot and, when open, the search bar.
func (a *App) render() {
	a.ui.Draw(a.engine.Snapshot())
	if a.searching {
		a.drawSearchBar()
		a.ui.Screen().Show()
	}
}

// drawSearchBar overlays a one-line status bar on the bottom row.
func (a *App) drawSearchBar() {
	screen := a.ui.Screen()
	w, h := screen.Size()
	if h == 0 {
		return
	}
	style := tcell.StyleDefault.Reverse(true)

	status := fmt.Sprintf(" /%s", string(a.query))
	if len(a.query) > 0 {
		status += fmt.Sprintf("  %d matches", a.matches)
		if a.archived > 0 {
			status += fmt.Sprintf(" (+%d beyond history)", a.archived)
		}
	}
	status += "  [Enter next · Up prev · Esc close]"

	x := 0
	for _, r := range status {
		if x >= w {
			break
		}
		screen.SetContent(x, h-1, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
	for ; x < w; x++ {
		screen.SetContent(x, h-1, ' ', nil, style)
	}
	screen.HideCursor()
}
