package view

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"
)

// Level grades a notice.
type Level string

const (
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Notice is a message for the user: the terminal version of an alert.
type Notice struct {
	Level Level
	Text  string
}

// Frame is everything one redraw shows.
type Frame struct {
	Title  string
	Feed   string
	Bids   []string
	Asks   []string
	Trades []string
	Form   string
}

const (
	clearScreen   = "\033[H\033[2J"
	keptNotices   = 5
	tradesOnFrame = 20
)

// Screen draws frames to a terminal and keeps the latest notices.
type Screen struct {
	mu      sync.Mutex
	w       io.Writer
	ansi    bool
	notices []Notice
}

func NewScreen(w io.Writer, ansi bool) *Screen {
	return &Screen{w: w, ansi: ansi}
}

// Notify records n and prints it immediately so it is seen even if no
// redraw follows.
func (s *Screen) Notify(n Notice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, n)
	if len(s.notices) > keptNotices {
		s.notices = s.notices[len(s.notices)-keptNotices:]
	}
	fmt.Fprintf(s.w, "[%s] %s\n", n.Level, n.Text)
}

// Notices returns the retained notices, oldest first.
func (s *Screen) Notices() []Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Notice, len(s.notices))
	copy(out, s.notices)
	return out
}

// Draw renders f. Bids and asks sit side by side; trades are cut to the
// newest rows that fit.
func (s *Screen) Draw(f Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	if s.ansi {
		b.WriteString(clearScreen)
	}
	fmt.Fprintf(&b, "%s    feed: %s\n\n", f.Title, f.Feed)

	tw := tabwriter.NewWriter(&b, 0, 4, 4, ' ', 0)
	fmt.Fprintln(tw, "BIDS\tASKS")
	for i := 0; i < len(f.Bids) || i < len(f.Asks); i++ {
		fmt.Fprintf(tw, "%s\t%s\n", at(f.Bids, i), at(f.Asks, i))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to lay out book: %w", err)
	}

	b.WriteString("\nTRADES\n")
	trades := f.Trades
	if len(trades) > tradesOnFrame {
		trades = trades[:tradesOnFrame]
	}
	for _, row := range trades {
		b.WriteString(row)
		b.WriteByte('\n')
	}

	fmt.Fprintf(&b, "\nORDER  %s\n", f.Form)
	for _, n := range s.notices {
		fmt.Fprintf(&b, "[%s] %s\n", n.Level, n.Text)
	}
	b.WriteString("> ")

	_, err := io.WriteString(s.w, b.String())
	return err
}

func at(rows []string, i int) string {
	if i < len(rows) {
		return rows[i]
	}
	return ""
}
