package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/bibtidy/internal/bib"
	"github.com/matsen/bibtidy/internal/config"
	"github.com/matsen/bibtidy/internal/dupes"
)

var (
	dupesJSON    bool
	dupesBiber   string
	dupesNoBiber bool
)

func init() {
	rootCmd.AddCommand(dupesCmd)
	dupesCmd.Flags().BoolVar(&dupesJSON, "json", false, "Output duplicate groups as JSON")
	dupesCmd.Flags().StringVar(&dupesBiber, "biber", "", "biber executable to use")
	dupesCmd.Flags().BoolVar(&dupesNoBiber, "no-biber", false, "Skip the biber pretty-printing pass")
}

var dupesCmd = &cobra.Command{
	Use:   "dupes [file...]",
	Short: "Report records that look like duplicates",
	Long: `Scan bibliography files for records whose title and author collapse to
the same comparison key, ignoring case, accents, punctuation, and
whitespace differences.

Each duplicate group is printed as one line of space-separated
citation keys. Nothing is printed when no duplicates are found.`,
	RunE: runDupes,
}

func runDupes(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}

	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	indent := resolveWidth(0, cfg.Indent, config.DefaultIndent)

	var records []bib.Record
	binary := resolveBiber(dupesBiber, cfg)
	for _, path := range args {
		records = append(records, readRecords(path, binary, indent, dupesNoBiber)...)
	}

	groups := dupes.Find(records)
	if dupesJSON {
		return outputJSON(groups)
	}
	for _, group := range groups {
		fmt.Println(strings.Join(group.Keys, " "))
	}
	return nil
}
