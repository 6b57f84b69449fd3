package main

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/matsen/bibtidy/internal/bib"
	"github.com/matsen/bibtidy/internal/biber"
	"github.com/matsen/bibtidy/internal/config"
	"github.com/matsen/bibtidy/internal/normalize"
)

var (
	tidyWrap       int
	tidyIndent     int
	tidyBiber      string
	tidyInputOrder bool
	tidyNoBiber    bool
)

func init() {
	rootCmd.AddCommand(tidyCmd)
	tidyCmd.Flags().IntVar(&tidyWrap, "wrap", 0, "Wrap width for field lines (default 90)")
	tidyCmd.Flags().IntVar(&tidyIndent, "indent", 0, "Indentation width for field lines (default 2)")
	tidyCmd.Flags().StringVar(&tidyBiber, "biber", "", "biber executable to use")
	tidyCmd.Flags().BoolVar(&tidyInputOrder, "input-order", false, "Keep input order instead of sorting by citation key")
	tidyCmd.Flags().BoolVar(&tidyNoBiber, "no-biber", false, "Skip the biber pretty-printing pass")
}

var tidyCmd = &cobra.Command{
	Use:   "tidy [file...]",
	Short: "Normalize bibliography files to stdout",
	Long: `Normalize one or more BibTeX files and write the cleaned records to
standard output.

Each file is pretty-printed through biber and parsed, then every
record is rewritten: arXiv preprints become @misc entries, titles and
venue names are cleaned and title-cased with protective braces, and
noise fields are dropped. Records come out sorted by citation key with
aligned fields; when a key appears more than once the record seen last
wins.`,
	RunE: runTidy,
}

func runTidy(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}

	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	wrap := resolveWidth(tidyWrap, cfg.Wrap, config.DefaultWrap)
	indent := resolveWidth(tidyIndent, cfg.Indent, config.DefaultIndent)

	store := bib.NewStore()
	norm := normalize.New(cfg.Acronyms)
	binary := resolveBiber(tidyBiber, cfg)
	for _, path := range args {
		for _, rec := range readRecords(path, binary, indent, tidyNoBiber) {
			if err := norm.Entry(&rec); err != nil {
				exitWithError(ExitDataError, "%s: %v", path, err)
			}
			store.Insert(rec)
		}
	}

	opts := bib.WriteOptions{Wrap: wrap, Indent: indent}
	if err := bib.Write(os.Stdout, store.Records(tidyInputOrder), opts); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	return nil
}

// readRecords parses one bibliography file, pretty-printing it through
// biber first unless skipBiber is set. Failures exit the process.
func readRecords(path, binary string, indent int, skipBiber bool) []bib.Record {
	if skipBiber {
		records, err := bib.ParseFile(path)
		if err != nil {
			exitWithError(ExitDataError, "%v", err)
		}
		return records
	}

	text, err := biber.Run(path, biber.Options{Binary: binary, Indent: indent})
	if err != nil {
		exitWithError(ExitToolError, "%v", err)
	}
	records, err := bib.Parse(strings.NewReader(text))
	if err != nil {
		exitWithError(ExitDataError, "%s: %v", path, err)
	}
	return records
}

// resolveWidth picks the first positive value: flag, config, default.
func resolveWidth(flag, cfg, def int) int {
	if flag > 0 {
		return flag
	}
	if cfg > 0 {
		return cfg
	}
	return def
}

// resolveBiber picks the biber executable: flag, BIBTIDY_BIBER
// environment variable, then config. Empty means plain "biber".
func resolveBiber(flag string, cfg *config.Config) string {
	_ = godotenv.Load()
	if flag != "" {
		return flag
	}
	if env := os.Getenv("BIBTIDY_BIBER"); env != "" {
		return env
	}
	return cfg.Biber
}
