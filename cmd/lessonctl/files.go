package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"ageback-backend-go/internal/app"
	"ageback-backend-go/internal/core"
	"ageback-backend-go/internal/storage"
)

func newFilesCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "Inspect the lesson file store",
	}
	cmd.AddCommand(newFilesCheckCommand(e))
	cmd.AddCommand(newFilesListCommand(e))
	return cmd
}

func openFileStore(cmd *cobra.Command, e *env) (storage.FileStore, func(), error) {
	files, err := app.BuildFileStore(cmd.Context(), e.cfg, nil, e.logger)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {}
	if c, ok := files.(io.Closer); ok {
		closeFn = func() { _ = c.Close() }
	}
	return files, closeFn, nil
}

func newFilesCheckCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify file store connectivity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			files, closeFn, err := openFileStore(cmd, e)
			if err != nil {
				return err
			}
			defer closeFn()

			if err := files.Check(cmd.Context()); err != nil {
				return fmt.Errorf("%s file store: %w", e.cfg.FileStore, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s file store: ok\n", e.cfg.FileStore)
			return nil
		},
	}
}

func newFilesListCommand(e *env) *cobra.Command {
	var folder string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the files of a folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			files, closeFn, err := openFileStore(cmd, e)
			if err != nil {
				return err
			}
			defer closeFn()

			listed, err := files.List(cmd.Context(), folder)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tTYPE\tSIZE\tCREATED")
			for _, f := range listed {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", f.ID, f.Name, f.MimeType, f.Size, f.CreatedTime.Format("2006-01-02 15:04"))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&folder, "folder", core.VideoFolder, "Folder below the store root")
	return cmd
}
