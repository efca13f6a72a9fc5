package out

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fatih/color"

	"focusfarm/internal/modules/timer/domain"
)

// TerminalNotifier prints the running session to a terminal, standing in
// for a foreground notification. Calls after Stop are ignored.
type TerminalNotifier struct {
	mu     sync.Mutex
	w      io.Writer
	active bool
	title  *color.Color
	bar    *color.Color
	muted  *color.Color
}

func NewTerminalNotifier(w io.Writer) *TerminalNotifier {
	return &TerminalNotifier{
		w:     w,
		title: color.New(color.FgGreen, color.Bold),
		bar:   color.New(color.FgYellow),
		muted: color.New(color.FgHiBlack),
	}
}

func (n *TerminalNotifier) Start(startTime time.Time) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.active = true
	n.title.Fprintf(n.w, "Focusing since %s\n", startTime.Local().Format("15:04:05"))
}

func (n *TerminalNotifier) UpdateProgress(progress float64, remaining time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.active {
		return
	}
	fmt.Fprintf(n.w, "\r%s %s ", n.bar.Sprint(progressBar(progress, 20)), n.muted.Sprintf("%s to next animal", domain.FormatRemaining(remaining)))
}

func (n *TerminalNotifier) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.active {
		return
	}
	n.active = false
	fmt.Fprintln(n.w)
}

func progressBar(progress float64, width int) string {
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	filled := int(progress * float64(width))
	bar := make([]rune, width)
	for i := range bar {
		if i < filled {
			bar[i] = '#'
		} else {
			bar[i] = '-'
		}
	}
	return "[" + string(bar) + "]"
}
