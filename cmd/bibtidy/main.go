// Package main provides the bibtidy CLI entry point.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bibtidy",
	Short: "BibTeX bibliography normalizer",
	Long: `bibtidy cleans BibTeX bibliographies into one uniform shape.

It pretty-prints records through biber, rewrites arXiv preprints as
@misc entries, title-cases titles and venue names with protective
braces around proper nouns, deletes bookkeeping noise fields, and
emits the records sorted and aligned. A companion command reports
records that look like duplicates of each other.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Version = Version
}
