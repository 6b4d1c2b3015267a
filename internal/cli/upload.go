package cli

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/knowlab/knowlab-cli/internal/service"
)

var removeUploadID string

var uploadCmd = &cobra.Command{
	Use:   "upload <files...>",
	Short: "Upload documents and stage them for summarization",
	Long: `Upload one or more documents to the backend. Files are sent
sequentially, one at a time, and staged locally for the next summarize
call. Supports PDF, DOC, TXT, CSV and more.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if removeUploadID != "" {
			if err := current.uploads.Remove(removeUploadID); err != nil {
				return err
			}
			fmt.Println("Removed from staged uploads.")
			return nil
		}

		if len(args) == 0 {
			return listStaged()
		}

		refs := make([]service.FileRef, 0, len(args))
		for _, path := range args {
			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("cannot read %s: %w", path, err)
			}
			path := path
			refs = append(refs, service.FileRef{
				Name: filepath.Base(path),
				Size: info.Size(),
				Type: mime.TypeByExtension(filepath.Ext(path)),
				Open: func() (io.ReadCloser, error) { return os.Open(path) },
			})
		}

		accepted, err := current.uploader.Process(cmd.Context(), refs)
		if err != nil {
			return err
		}
		if len(accepted) > 0 {
			fmt.Printf("%d file(s) staged for summarization.\n", len(accepted))
		}
		return nil
	},
}

func listStaged() error {
	files, err := current.uploads.All()
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("No files staged. Run `knowlab upload <files...>` first.")
		return nil
	}
	for _, f := range files {
		fmt.Printf("%s  %s (%.1f KB)\n", idStyle.Render(f.ID), f.Name, float64(f.Size)/1024)
	}
	return nil
}

func init() {
	uploadCmd.Flags().StringVar(&removeUploadID, "remove", "", "Remove a staged file by id")
	rootCmd.AddCommand(uploadCmd)
}
