package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var newChatTitle string

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List summarization sessions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		current.directory.Refresh(cmd.Context())
		sessions := current.directory.List()
		if len(sessions) == 0 {
			fmt.Println("No summarizations yet. Create your first chat to get started.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, s := range sessions {
			created := "—"
			if !s.CreatedAt.IsZero() {
				created = s.CreatedAt.Local().Format(time.RFC822)
			}
			title := s.Title
			if title == "" {
				title = fmt.Sprintf("Summarization %s", s.ID)
			}
			preview := strings.SplitN(s.SummaryText, "\n", 2)[0]
			if len(preview) > 60 {
				preview = preview[:60] + "…"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				idStyle.Render(s.ID),
				titleStyle.Render(title),
				dateStyle.Render(created),
				preview,
			)
		}
		return w.Flush()
	},
}

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a local placeholder session and make it active",
	RunE: func(cmd *cobra.Command, args []string) error {
		session := current.directory.CreateLocal(newChatTitle)
		fmt.Printf("Created %s (%s)\n", activeStyle.Render(session.Title), idStyle.Render(session.ID))
		return nil
	},
}

var useCmd = &cobra.Command{
	Use:   "use <session-id>",
	Short: "Make a session the active target for ask and audio",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		current.directory.Refresh(cmd.Context())
		current.directory.SetActive(args[0])
		if active := current.directory.Active(); active != nil {
			fmt.Printf("Now chatting in %s (%s)\n",
				activeStyle.Render(active.Title), idStyle.Render(active.ID))
			return nil
		}
		fmt.Printf("Active session set to %s\n", idStyle.Render(args[0]))
		return nil
	},
}

func init() {
	newCmd.Flags().StringVar(&newChatTitle, "title", "", "Session title")
	rootCmd.AddCommand(sessionsCmd, newCmd, useCmd)
}
