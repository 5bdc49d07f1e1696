package main

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var (
	// Global flags.
	verbose  bool
	quiet    bool
	jsonOut  bool
	noColor  bool
	cfgPath  string
	fileConf Config
)

var rootCmd = &cobra.Command{
	Use:   "dtctl",
	Short: "Inspect, decode and edit Flattened Device Tree blobs",
	Long: `dtctl decodes, inspects, and re-encodes Flattened Device Tree (DTB)
files. It supports converting blobs to DTS source, walking the node tree,
resolving PCI interrupt routing, and batch conversion.`,
	Version:           "0.1.0",
	PersistentPreRunE: loadConfigFile,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to a dtctl config file (YAML)")
}

func loadConfigFile(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	fileConf = cfg
	if !cmd.Flags().Changed("json") && cfg.JSON {
		jsonOut = true
	}
	if !cmd.Flags().Changed("no-color") && cfg.NoColor {
		noColor = true
	}
	return nil
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
