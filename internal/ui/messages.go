package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivier-w/lineminimap/internal/motion"
)

// frameMsg is one tick of the frame loop, tagged with the lease it belongs to.
type frameMsg struct {
	seq uint64
	at  time.Time
}

// springTickMsg asks for one spring step of a single element value.
type springTickMsg struct {
	value *motion.Value
}

func frameCmd(seq uint64, interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return frameMsg{seq: seq, at: t}
	})
}

func springCmd(v *motion.Value, interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return springTickMsg{value: v}
	})
}

// springQueue collects values woken while handling one message. Each one
// then runs its own tick chain, independent of the frame loop.
type springQueue struct {
	pending []*motion.Value
}

func (q *springQueue) Wake(v *motion.Value) {
	q.pending = append(q.pending, v)
}

func (q *springQueue) drain(interval time.Duration) tea.Cmd {
	if len(q.pending) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, len(q.pending))
	for i, v := range q.pending {
		cmds[i] = springCmd(v, interval)
	}
	q.pending = q.pending[:0]
	return tea.Batch(cmds...)
}
