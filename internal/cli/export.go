package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/knowlab/knowlab-cli/internal/export"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export [session-id]",
	Short: "Export a session's summary and chat history",
	Long: `Export a summarization session, including its recorded Q&A
exchanges, as markdown, JSON or YAML. Without a session id the active
session is exported. Output goes to stdout unless --out is given; an
--out extension selects the format when --format is not set.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID := current.directory.ActiveID()
		if len(args) == 1 {
			sessionID = args[0]
		}
		if sessionID == "" {
			return fmt.Errorf("no session selected (pass a session id)")
		}

		current.directory.Refresh(cmd.Context())

		var session *export.SessionExport
		for _, s := range current.directory.List() {
			if s.ID == sessionID {
				session = &export.SessionExport{Session: s}
				break
			}
		}
		if session == nil {
			return fmt.Errorf("unknown session %q", sessionID)
		}

		entries, err := current.chatLog.Entries(sessionID)
		if err != nil {
			return err
		}
		session.Chat = entries

		format := exportFormat
		if format == "" && exportOut != "" {
			format = strings.TrimPrefix(filepath.Ext(exportOut), ".")
		}
		if format == "" {
			format = "md"
		}

		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}

		out := os.Stdout
		if exportOut != "" {
			f, err := os.Create(exportOut)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}

		if err := exporter.Export(session, out); err != nil {
			return err
		}
		if exportOut != "" {
			fmt.Println(successStyle.Render("Exported to " + exportOut))
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "Output format: md, json or yaml")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Write to a file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}
