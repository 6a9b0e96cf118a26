package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"notebox/internal/notes"
)

var (
	listFilter string
	listJSON   bool
	noteTitle  string
	noteBody   string
	noteCat    string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes, optionally filtered",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd.Context(), func(svc *notes.Service) error {
			list := svc.List(notes.ParseFilter(listFilter))
			if listJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(list)
			}
			return printNotes(cmd.OutOrStdout(), list)
		})
	},
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a note",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd.Context(), func(svc *notes.Service) error {
			n, err := svc.Create(cmd.Context(), notes.NoteInput{Title: noteTitle, Body: noteBody, Category: noteCat})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created note %s\n", n.ID)
			return nil
		})
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Replace a note's title, body and category (clears archived)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd.Context(), func(svc *notes.Service) error {
			n, err := svc.Update(cmd.Context(), args[0], notes.NoteInput{Title: noteTitle, Body: noteBody, Category: noteCat})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated note %s\n", n.ID)
			return nil
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd.Context(), func(svc *notes.Service) error {
			return svc.Delete(cmd.Context(), args[0])
		})
	},
}

var archiveCmd = &cobra.Command{
	Use:   "archive <id>",
	Short: "Archive a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd.Context(), func(svc *notes.Service) error {
			return svc.SetArchived(cmd.Context(), args[0], true)
		})
	},
}

var unarchiveCmd = &cobra.Command{
	Use:   "unarchive <id>",
	Short: "Unarchive a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd.Context(), func(svc *notes.Service) error {
			return svc.SetArchived(cmd.Context(), args[0], false)
		})
	},
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Replace all notes with the remote collection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd.Context(), func(svc *notes.Service) error {
			n, err := svc.Sync(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Fetched %d notes\n", n)
			return nil
		})
	},
}

func printNotes(w io.Writer, list []notes.Note) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCATEGORY\tARCHIVED\tTITLE")
	for _, n := range list {
		fmt.Fprintf(tw, "%s\t%s\t%t\t%s\n", n.ID, n.Category, n.Archived, n.Title)
	}
	return tw.Flush()
}

func init() {
	listCmd.Flags().StringVarP(&listFilter, "filter", "f", "all", "all, archived, or a category")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")

	for _, c := range []*cobra.Command{addCmd, editCmd} {
		c.Flags().StringVarP(&noteTitle, "title", "t", "", "Note title")
		c.Flags().StringVarP(&noteBody, "body", "b", "", "Note content")
		c.Flags().StringVarP(&noteCat, "category", "k", string(notes.DefaultCategory), "project, business or personal")
	}

	rootCmd.AddCommand(listCmd, addCmd, editCmd, deleteCmd, archiveCmd, unarchiveCmd, fetchCmd)
}
