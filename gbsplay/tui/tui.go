// Package tui renders a compact "now playing" status screen over the
// running Player: track metadata, subsong index, elapsed time, and a
// per-channel on/off readout taken from NR52's channel status bits
// (volume, note and mute state are not shown). It adapts the teacher's tcell
// terminal backend (jeebie/backend/terminal/terminal.go) and its
// ChannelStatus/AudioData model (jeebie/debug/audio.go) from a pixel
// framebuffer renderer into a status display, since GBS playback has no
// LCD to draw.
package tui

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ujjwalsh/gbsplay/gbsplay/addr"
	"github.com/ujjwalsh/gbsplay/gbsplay/audio"
	"github.com/ujjwalsh/gbsplay/gbsplay/player"
)

var (
	titleStyle  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	labelStyle  = tcell.StyleDefault.Foreground(tcell.ColorGray)
	activeStyle = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	mutedStyle  = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
)

// Screen owns the tcell terminal and renders a Player's status until the
// user quits (Q, Esc or Ctrl-C). It does not stop when the player stops
// on its own.
type Screen struct {
	screen tcell.Screen
	p      *player.Player
}

// New opens a tcell screen for the given player.
func New(p *player.Player) (*Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("tui: new screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("tui: init screen: %w", err)
	}
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	screen.Clear()

	return &Screen{screen: screen, p: p}, nil
}

// Run redraws the status screen on a fixed interval, polling for input
// and the keyboard channel mute controls, until the user presses
// Q/Esc/Ctrl-C; it does not return when the player stops.
func (s *Screen) Run() error {
	defer s.screen.Fini()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	events := make(chan tcell.Event, 8)
	go s.screen.ChannelEvents(events, nil)

	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if quit := s.handleKey(ev); quit {
					s.p.Quit()
					return nil
				}
			case *tcell.EventResize:
				s.screen.Sync()
			}
		case <-ticker.C:
			s.render()
		}
	}
}

func (s *Screen) handleKey(ev *tcell.EventKey) (quit bool) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return true
		case '1', '2', '3', '4':
			ch := int(ev.Rune() - '0')
			s.p.APU().ToggleChannel(ch, !s.channelMuted(ch))
		case 's':
			// no-op placeholder for a future solo-cycle binding
		}
	}
	return false
}

func (s *Screen) channelMuted(ch int) bool {
	nr52 := s.p.APU().ReadRegister(addr.NR52)
	return nr52&(1<<uint(ch-1)) == 0
}

func (s *Screen) render() {
	s.screen.Clear()

	file := s.p.File()
	title := file.Title
	if title == "" {
		title = "(untitled)"
	}
	s.drawText(1, 0, titleStyle, fmt.Sprintf("%s — %s", title, file.Author))
	s.drawText(1, 1, labelStyle, fmt.Sprintf("subsong %d/%d   %s",
		s.p.Subsong(), file.SubsongCount, elapsed(s.p.TotalCycles())))

	s.drawChannels(1, 3)

	s.drawText(1, 9, labelStyle, "1-4 toggle channel   Q quit")
	s.screen.Show()
}

func elapsed(cycles uint64) string {
	d := time.Duration(float64(cycles) / audio.CPUHz * float64(time.Second))
	d = d.Round(time.Second)
	return fmt.Sprintf("%02d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

func (s *Screen) drawChannels(x, y int) {
	names := []string{"CH1 pulse", "CH2 pulse", "CH3 wave", "CH4 noise"}
	nr52 := s.p.APU().ReadRegister(addr.NR52)

	for i, name := range names {
		enabled := nr52&(1<<uint(i)) != 0
		style := mutedStyle
		status := "off"
		if enabled {
			style = activeStyle
			status = "on"
		}
		s.drawText(x, y+i, style, fmt.Sprintf("%-10s %s", name, status))
	}
}

func (s *Screen) drawText(x, y int, style tcell.Style, text string) {
	for i, r := range text {
		s.screen.SetContent(x+i, y, r, nil, style)
	}
}
