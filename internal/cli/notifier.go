package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/knowlab/knowlab-cli/internal/notify"
)

var (
	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	promptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	activeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))
)

// boardNotifier renders upload notifications immediately and records them
// on the board, where they expire after the display duration.
type boardNotifier struct {
	board *notify.Board
}

func (n *boardNotifier) Success(message string) {
	n.board.Push(notify.KindSuccess, message)
	fmt.Println(successStyle.Render("✔ " + message))
}

func (n *boardNotifier) Failure(message string) {
	n.board.Push(notify.KindError, message)
	fmt.Println(errorStyle.Render("✘ " + message))
}

func (n *boardNotifier) AuthRequired() {
	fmt.Fprintln(os.Stderr, promptStyle.Render(
		"You need to sign up or sign in to upload documents and use AI features."))
	fmt.Fprintln(os.Stderr, "Run `knowlab login` or `knowlab signup` first.")
}
