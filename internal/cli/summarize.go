package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var keepStaged bool

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Summarize the staged uploads",
	Long: `Request a combined AI summary over all staged uploads. On success
the backend opens a summarization session, which appears in ` + "`knowlab sessions`" + `
and becomes the active target for ` + "`knowlab ask`" + `.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := current.uploads.All()
		if err != nil {
			return err
		}

		done := make(chan struct{})
		go spin(done)

		result, err := current.summarizer.Summarize(cmd.Context(), files)
		close(done)
		fmt.Print("\r \r")
		if err != nil {
			return err
		}

		fmt.Println(titleStyle.Render(result.Title))
		fmt.Println()
		fmt.Println(result.Content)

		if active := current.directory.Active(); active != nil && !active.IsPlaceholder() {
			fmt.Println()
			fmt.Printf("Session %s is active. Ask follow-up questions with `knowlab ask`.\n",
				idStyle.Render(active.ID))
		}

		if !keepStaged {
			if err := current.uploads.Clear(); err != nil {
				return err
			}
		}
		return nil
	},
}

// spin renders the loading indicator while the busy flag is raised.
func spin(done <-chan struct{}) {
	frames := []rune{'⠋', '⠙', '⠹', '⠸', '⠼', '⠴', '⠦', '⠧', '⠇', '⠏'}
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	i := 0
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if current.summarizer.Busy() {
				fmt.Printf("\r%c Summarizing…", frames[i%len(frames)])
				i++
			}
		}
	}
}

func init() {
	summarizeCmd.Flags().BoolVar(&keepStaged, "keep", false, "Keep files staged after summarizing")
	rootCmd.AddCommand(summarizeCmd)
}
