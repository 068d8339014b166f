package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"clansim/internal/clan"
	"clansim/internal/validate"
)

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Lint the config, roster and catalogs without simulating",
		RunE:  runValidate,
	}
	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	vocab, err := loadVocabulary(cfg)
	if err != nil {
		return err
	}
	if cfg.Clan.Roster != "" {
		if _, _, err := clan.LoadRoster(cfg.Clan.Roster, cfg.Clan, vocab); err != nil {
			return err
		}
	}

	report, err := validate.Run(catalogSource(cfg), vocab)
	if err != nil {
		return err
	}

	errorIssues := report.Errors()
	warnIssues := report.Warnings()

	if len(errorIssues) == 0 && len(warnIssues) == 0 {
		fmt.Fprintln(os.Stdout, "No issues found.")
		return nil
	}

	if len(errorIssues) > 0 {
		fmt.Fprintf(os.Stdout, "Errors (%d):\n", len(errorIssues))
		printIssues(os.Stdout, errorIssues)
	}
	if len(warnIssues) > 0 {
		if len(errorIssues) > 0 {
			fmt.Fprintln(os.Stdout, "")
		}
		fmt.Fprintf(os.Stdout, "Warnings (%d):\n", len(warnIssues))
		printIssues(os.Stdout, warnIssues)
	}

	if len(errorIssues) > 0 {
		return fmt.Errorf("validation found errors")
	}
	return nil
}

func printIssues(out *os.File, issues []validate.Issue) {
	for _, issue := range issues {
		location := issue.File
		if issue.Entry != "" {
			location = fmt.Sprintf("%s (%s)", issue.Entry, issue.File)
		}
		fmt.Fprintf(out, "  - %s: %s (%s)\n", location, issue.Message, issue.Code)
	}
}
