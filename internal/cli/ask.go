package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var askSessionID string

var askCmd = &cobra.Command{
	Use:   "ask <question...>",
	Short: "Ask a question about the active session's summary",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID := askSessionID
		if sessionID == "" {
			sessionID = current.directory.ActiveID()
		}

		question := strings.Join(args, " ")
		entry, err := current.chat.Ask(cmd.Context(), sessionID, question)
		if err != nil {
			return err
		}

		fmt.Println(promptStyle.Render("Q: ") + entry.Question)
		fmt.Println()
		fmt.Println(entry.Answer)
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the recorded Q&A exchanges of a session",
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID := askSessionID
		if sessionID == "" {
			sessionID = current.directory.ActiveID()
		}
		if sessionID == "" {
			return fmt.Errorf("no session selected (use --session)")
		}

		entries, err := current.chat.History(sessionID)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No questions asked yet.")
			return nil
		}
		for _, entry := range entries {
			fmt.Println(dateStyle.Render(entry.Timestamp.Local().Format(time.RFC822)))
			fmt.Println(promptStyle.Render("Q: ") + entry.Question)
			fmt.Println("A: " + entry.Answer)
			fmt.Println()
		}
		return nil
	},
}

func init() {
	askCmd.Flags().StringVar(&askSessionID, "session", "", "Session id (defaults to the active session)")
	historyCmd.Flags().StringVar(&askSessionID, "session", "", "Session id (defaults to the active session)")
	rootCmd.AddCommand(askCmd, historyCmd)
}
