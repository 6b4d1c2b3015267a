package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream session and chat events as they happen",
	Long: `Subscribe to the change bus and print each event as it arrives.
Events fire when a summarization opens a session and when a Q&A exchange
is recorded. Interrupt with Ctrl-C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		sessions, err := current.bus.SubscribeSessions(ctx)
		if err != nil {
			return err
		}
		chat, err := current.bus.SubscribeChat(ctx)
		if err != nil {
			return err
		}

		fmt.Println("Watching for changes. Press Ctrl-C to stop.")
		for {
			select {
			case evt, ok := <-sessions:
				if !ok {
					return nil
				}
				fmt.Printf("%s session %s %s\n",
					dateStyle.Render(time.Now().Format(time.Kitchen)),
					idStyle.Render(evt.Session.ID),
					titleStyle.Render(evt.Session.Title))
			case evt, ok := <-chat:
				if !ok {
					return nil
				}
				fmt.Printf("%s chat appended in %s\n",
					dateStyle.Render(time.Now().Format(time.Kitchen)),
					idStyle.Render(evt.SessionID))
			case <-ctx.Done():
				return nil
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
