package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matsen/bibtidy/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set configuration values.

Usage:
  bibtidy config               # Show all config
  bibtidy config wrap          # Get specific value
  bibtidy config wrap 100      # Set value

Keys:
  wrap    Wrap width for field lines (default 90)
  indent  Indentation width for field lines (default 2)
  biber   biber executable to use

Extra acronyms live in the same file under an "acronyms" mapping,
edited by hand:

  acronyms:
    vae: VAE
    dag: DAG`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitError, "loading config: %v", err)
	}

	// No args: show all config
	if len(args) == 0 {
		fmt.Printf("wrap:   %d\n", cfg.Wrap)
		fmt.Printf("indent: %d\n", cfg.Indent)
		fmt.Printf("biber:  %s\n", cfg.Biber)
		return nil
	}

	key := args[0]

	// One arg: get specific value
	if len(args) == 1 {
		switch key {
		case "wrap":
			fmt.Println(cfg.Wrap)
		case "indent":
			fmt.Println(cfg.Indent)
		case "biber":
			fmt.Println(cfg.Biber)
		default:
			exitWithError(ExitError, "unknown configuration key: %s", key)
		}
		return nil
	}

	// Two args: set value
	value := args[1]
	switch key {
	case "wrap", "indent":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			exitWithError(ExitError, "%s must be a positive integer, got %q", key, value)
		}
		if key == "wrap" {
			cfg.Wrap = n
		} else {
			cfg.Indent = n
		}
	case "biber":
		cfg.Biber = value
	default:
		exitWithError(ExitError, "unknown configuration key: %s", key)
	}

	if err := cfg.Save(); err != nil {
		exitWithError(ExitError, "saving config: %v", err)
	}

	fmt.Printf("Updated %s to %s\n", key, value)
	return nil
}
