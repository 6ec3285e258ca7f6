package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"paprika/pkg/calendar"
	"paprika/pkg/season/service"
	"paprika/pkg/season/sheet"
)

func newSeasonCommand(svc func() service.SeasonService) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "season",
		Short: "Inspect and edit a farmer's seasons",
	}
	cmd.AddCommand(
		newSeasonShowCommand(svc),
		newSeasonEditCommand(svc),
		newSeasonImportCommand(svc),
	)
	return cmd
}

func newSeasonShowCommand(svc func() service.SeasonService) *cobra.Command {
	var key seasonKey
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show one season, or every season of the farmer when --year is omitted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if key.year != 0 {
				v, err := svc().Get(cmd.Context(), key.farmer, key.year)
				if err != nil {
					return err
				}
				printView(out, v)
				return nil
			}
			views, err := svc().List(cmd.Context(), key.farmer)
			if err != nil {
				return err
			}
			if len(views) == 0 {
				fmt.Fprintf(out, "farmer %d has no seasons\n", key.farmer)
			}
			for i, v := range views {
				if i > 0 {
					fmt.Fprintln(out)
				}
				printView(out, v)
			}
			return nil
		},
	}
	key.bind(cmd, false)
	return cmd
}

func newSeasonEditCommand(svc func() service.SeasonService) *cobra.Command {
	var key seasonKey
	values := map[calendar.Field]*string{}
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Change any stage dates of an existing season at once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var edits calendar.Edits
			for _, f := range calendar.Fields() {
				d, err := flagDate(*values[f])
				if err != nil {
					return fmt.Errorf("--%s: %w", flagName(f), err)
				}
				if d != nil {
					edits.Set(f, *d)
				}
			}
			if edits.IsEmpty() {
				return fmt.Errorf("nothing to edit")
			}
			v, err := svc().BulkEdit(cmd.Context(), key.farmer, key.year, edits)
			if err != nil {
				return err
			}
			printView(cmd.OutOrStdout(), v)
			return nil
		},
	}
	key.bind(cmd, true)
	for _, f := range calendar.Fields() {
		values[f] = cmd.Flags().String(flagName(f), "", f.Label()+" (YYYY-MM-DD)")
	}
	return cmd
}

func newSeasonImportCommand(svc func() service.SeasonService) *cobra.Command {
	var key seasonKey
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Apply stage dates from an .xlsx or .csv sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			edits, err := sheet.ReadFile(args[0])
			if err != nil {
				return err
			}
			v, err := svc().BulkEdit(cmd.Context(), key.farmer, key.year, edits)
			if err != nil {
				return err
			}
			printView(cmd.OutOrStdout(), v)
			return nil
		},
	}
	key.bind(cmd, true)
	return cmd
}

// flagName turns prickingStart into pricking-start.
func flagName(f calendar.Field) string {
	out := make([]rune, 0, len(f)+1)
	for _, r := range string(f) {
		if r >= 'A' && r <= 'Z' {
			out = append(out, '-', r+('a'-'A'))
			continue
		}
		out = append(out, r)
	}
	return string(out)
}

func printView(w io.Writer, v service.View) {
	s := v.Season
	fmt.Fprintf(w, "season %d, farmer %d\n", s.SeasonYear, s.FarmerID)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, st := range calendar.Stages() {
		startF, endF := st.Fields()
		line := "-"
		if d := s.Get(startF); d != nil {
			line = d.String()
			if endF != "" {
				if e := s.Get(endF); e != nil {
					line += " to " + e.String()
				}
			}
		}
		fmt.Fprintf(tw, "  %s\t%s\n", st.Label(), line)
	}
	_ = tw.Flush()
	if v.Complete {
		fmt.Fprintln(w, "complete")
	} else {
		fmt.Fprintf(w, "next: %s\n", v.NextStage.Label())
	}
}
