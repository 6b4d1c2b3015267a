package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	audioSessionID string
	audioLanguage  string
)

var audioCmd = &cobra.Command{
	Use:   "audio",
	Short: "Fetch a spoken narration of the active session's summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID := audioSessionID
		if sessionID == "" {
			sessionID = current.directory.ActiveID()
		}

		narrated, err := current.summarizer.Narrate(cmd.Context(), sessionID, audioLanguage)
		if err != nil {
			return err
		}

		fmt.Println(titleStyle.Render("Narration"))
		fmt.Println()
		if narrated.Narration != "" {
			fmt.Println(narrated.Narration)
			fmt.Println()
		}
		fmt.Println("Audio: " + idStyle.Render(narrated.AudioURL))
		return nil
	},
}

func init() {
	audioCmd.Flags().StringVar(&audioSessionID, "session", "", "Session id (defaults to the active session)")
	audioCmd.Flags().StringVar(&audioLanguage, "lang", "en", "Narration language code")
	rootCmd.AddCommand(audioCmd)
}
