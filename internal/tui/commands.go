// Package tui renders native build progress from a progrock status stream.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/vito/progrock"
)

// TapeSource yields progrock status updates until the stream ends.
type TapeSource interface {
	Read() (*progrock.StatusUpdate, error)
}

// WaitForTape returns a Bubble Tea command that reads the next update from the tape.
// Any read error ends the stream.
func WaitForTape(tape TapeSource) tea.Cmd {
	return func() tea.Msg {
		update, err := tape.Read()
		if err != nil {
			return MsgTapeEnded{}
		}
		return MsgTapeUpdate{Update: update}
	}
}
