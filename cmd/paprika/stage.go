package main

import (
	"errors"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/spf13/cobra"

	"paprika/pkg/calendar"
	"paprika/pkg/season/repository"
	"paprika/pkg/season/service"
)

// seasonKey is the --farmer/--year pair every season command takes.
type seasonKey struct {
	farmer uint
	year   int
}

func (k *seasonKey) bind(cmd *cobra.Command, yearRequired bool) {
	cmd.Flags().UintVar(&k.farmer, "farmer", 0, "farmer id")
	cmd.Flags().IntVar(&k.year, "year", 0, "season year")
	_ = cmd.MarkFlagRequired("farmer")
	if yearRequired {
		_ = cmd.MarkFlagRequired("year")
	}
}

func newStageCommand(svc func() service.SeasonService) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stage",
		Short: "Show or enter the next cultivation stage",
	}
	cmd.AddCommand(newStageNextCommand(svc), newStageAddCommand(svc))
	return cmd
}

func newStageNextCommand(svc func() service.SeasonService) *cobra.Command {
	var key seasonKey
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Print the stage the season expects next",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := svc().Get(cmd.Context(), key.farmer, key.year)
			if errors.Is(err, repository.ErrNotFound) {
				v = service.NewView(calendar.NewRecord(key.farmer, key.year))
			} else if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v.NextStage)
			return nil
		},
	}
	key.bind(cmd, true)
	return cmd
}

func newStageAddCommand(svc func() service.SeasonService) *cobra.Command {
	var (
		key        seasonKey
		start, end string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Enter dates for the next stage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var in calendar.StageInput
			var err error
			if in.StartDate, err = flagDate(start); err != nil {
				return err
			}
			if in.EndDate, err = flagDate(end); err != nil {
				return err
			}
			v, err := svc().AddNextStage(cmd.Context(), key.farmer, key.year, in)
			if errors.Is(err, calendar.ErrSeasonComplete) {
				fmt.Fprintf(cmd.OutOrStdout(), "season %d is complete, nothing to add\n", key.year)
				return nil
			}
			if err != nil {
				return err
			}
			printView(cmd.OutOrStdout(), v)
			return nil
		},
	}
	key.bind(cmd, true)
	cmd.Flags().StringVar(&start, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "end date, pricking and planting only")
	return cmd
}

func flagDate(s string) (*civil.Date, error) {
	if s == "" {
		return nil, nil
	}
	d, err := calendar.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
