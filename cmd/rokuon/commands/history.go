package commands

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	repositoryimpl "github.com/foxseedlab/rokuon/external/repository"
	"github.com/foxseedlab/rokuon/internal/repository"
	"github.com/spf13/cobra"
)

var errJournalDisabled = errors.New("DATABASE_URL is not set; the recording journal is disabled")

func NewHistoryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "history <recording-id>",
		Short: "Show journaled transitions of a recording",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistory,
	}
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	initLogger(cfg)
	if cfg.DatabaseURL == "" {
		return errJournalDisabled
	}

	repo, err := repositoryimpl.Open(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer repo.Close()

	events, err := repo.ListRecordingEvents(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to list recording events: %w", err)
	}
	return printHistory(cmd.OutOrStdout(), args[0], events)
}

func printHistory(w io.Writer, recordingID string, events []repository.RecordingEvent) error {
	if len(events) == 0 {
		_, err := fmt.Fprintf(w, "No journal entries for %s\n", recordingID)
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "OCCURRED AT\tKIND\tTITLE\tDETAIL")
	for _, e := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.OccurredAt.Local().Format(time.DateTime), e.Kind, e.Title, e.Detail)
	}
	return tw.Flush()
}
