// Package cli implements the agenda command-line interface.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"example.com/agenda/internal/domain"
	"example.com/agenda/internal/export"
)

// Deps are the components commands operate on.
type Deps struct {
	Service  *domain.Service
	Exporter *export.Exporter
	// Today is the reference day for validating new activities.
	Today func() domain.Date
}

// NewRootCmd builds the agenda command tree.
func NewRootCmd(deps Deps) *cobra.Command {
	if deps.Today == nil {
		deps.Today = func() domain.Date { return domain.DateOf(time.Now()) }
	}
	root := &cobra.Command{
		Use:           "agenda",
		Short:         "Track dated activities and export them as documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newAddCmd(deps),
		newUpdateCmd(deps),
		newListCmd(deps),
		newCompleteCmd(deps, true),
		newCompleteCmd(deps, false),
		newDeleteCmd(deps),
		newExportCmd(deps),
	)
	return root
}

func newAddCmd(deps Deps) *cobra.Command {
	var title, description, date, category string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a pending activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := domain.ParseDate(date)
			if err != nil {
				return fmt.Errorf("%w: --date must be YYYY-MM-DD", domain.ErrInvalidActivity)
			}
			activity := domain.Activity{Title: title, Description: description, Date: day, Category: category}
			if err := activity.Validate(deps.Today()); err != nil {
				return err
			}
			stored, err := deps.Service.SaveNew(cmd.Context(), activity)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), stored.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "activity title (required)")
	cmd.Flags().StringVar(&description, "description", "", "free-form description")
	cmd.Flags().StringVar(&date, "date", "", "activity date, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&category, "category", "", "category label")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

// newUpdateCmd edits an existing activity. Only the flags given are
// changed; completion state is kept.
func newUpdateCmd(deps Deps) *cobra.Command {
	var title, description, date, category string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit an activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			existing, err := deps.Service.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			updated := *existing
			flags := cmd.Flags()
			if flags.Changed("title") {
				updated.Title = title
			}
			if flags.Changed("description") {
				updated.Description = description
			}
			if flags.Changed("category") {
				updated.Category = category
			}
			// An unchanged date may already be in the past.
			earliest := deps.Today()
			if flags.Changed("date") {
				if updated.Date, err = domain.ParseDate(date); err != nil {
					return fmt.Errorf("%w: --date must be YYYY-MM-DD", domain.ErrInvalidActivity)
				}
			} else if !existing.Date.IsZero() && existing.Date.Before(earliest) {
				earliest = existing.Date
			}
			if err := updated.Validate(earliest); err != nil {
				return err
			}
			stored, err := deps.Service.Update(cmd.Context(), *existing, updated)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), stored.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVar(&date, "date", "", "new date, YYYY-MM-DD")
	cmd.Flags().StringVar(&category, "category", "", "new category label")
	return cmd
}

func newListCmd(deps Deps) *cobra.Command {
	var pending, completed, asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List activities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				activities []domain.Activity
				err        error
			)
			switch {
			case pending:
				activities, err = deps.Service.LoadPending(cmd.Context())
			case completed:
				activities, err = deps.Service.LoadCompleted(cmd.Context())
			default:
				activities, err = deps.Service.LoadAll(cmd.Context())
			}
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(activities)
			}
			return printTable(cmd.OutOrStdout(), activities)
		},
	}
	cmd.Flags().BoolVar(&pending, "pending", false, "only activities not yet completed")
	cmd.Flags().BoolVar(&completed, "completed", false, "only completed activities, most recent first")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the stored JSON records")
	cmd.MarkFlagsMutuallyExclusive("pending", "completed")
	return cmd
}

func newCompleteCmd(deps Deps, done bool) *cobra.Command {
	use, short := "complete <id>", "Mark an activity as completed"
	if !done {
		use, short = "restore <id>", "Move a completed activity back to pending"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			probe := domain.Activity{ID: args[0]}
			var (
				found bool
				err   error
			)
			if done {
				found, err = deps.Service.MarkCompleted(cmd.Context(), probe)
			} else {
				found, err = deps.Service.MarkPending(cmd.Context(), probe)
			}
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("%w: %s", domain.ErrActivityNotFound, args[0])
			}
			return nil
		},
	}
}

func newDeleteCmd(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			found, err := deps.Service.Delete(cmd.Context(), domain.Activity{ID: args[0]})
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("%w: %s", domain.ErrActivityNotFound, args[0])
			}
			return nil
		},
	}
}

func newExportCmd(deps Deps) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Export an activity as a PDF or DOCX document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			activity, err := deps.Service.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			path, err := deps.Exporter.Export(cmd.Context(), *activity, format)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "pdf", "document format: pdf or docx")
	return cmd
}

func printTable(w io.Writer, activities []domain.Activity) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tSTATUS\tCATEGORY\tTITLE")
	for _, a := range activities {
		status := "pending"
		if a.Completed {
			status = "done"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", a.ID, a.Date, status, a.Category, a.Title)
	}
	return tw.Flush()
}
