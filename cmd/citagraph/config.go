package main

import (
	"fmt"
	"strings"

	"github.com/matsen/citagraph/internal/config"
	"github.com/matsen/citagraph/internal/view"
	"github.com/matsen/citagraph/internal/viz"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set repository configuration values",
	Long: `Get or set configuration values in .citagraph/config.json.

Usage:
  citagraph config                          # Show all config
  citagraph config default-mode             # Get specific value
  citagraph config default-mode decade      # Set value

Keys:
  browser          Browser for open and viz --open (system, firefox, ...)
  default-layout   viz layout when --layout is not given
  default-mode     Coloring for viz and groups: author, pi, or decade
  crossref-mailto  Contact address sent to Crossref

Global defaults (graph_path, crossref_mailto, crossref_base_url, browser)
live in ~/.config/citagraph/config.yml.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

// configField binds a user-facing key to a Config field.
type configField struct {
	key      string
	jsonKey  string
	ptr      func(*config.Config) *string
	validate func(string) error
}

var configFields = []configField{
	{"browser", "browser", func(c *config.Config) *string { return &c.Browser }, nil},
	{"default-layout", "default_layout", func(c *config.Config) *string { return &c.DefaultLayout }, validateLayoutName},
	{"default-mode", "default_mode", func(c *config.Config) *string { return &c.DefaultMode }, validateModeName},
	{"crossref-mailto", "crossref_mailto", func(c *config.Config) *string { return &c.CrossrefMailto }, nil},
}

func lookupConfigField(key string) (configField, bool) {
	key = strings.ReplaceAll(strings.ToLower(key), "_", "-")
	for _, f := range configFields {
		if f.key == key {
			return f, true
		}
	}
	return configField{}, false
}

// UpdateResponse is the response for config set commands.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

func runConfig(cmd *cobra.Command, args []string) error {
	target := mustResolveGraph()
	if target.root == "" {
		exitWithError(ExitConfigError, "config needs a citagraph repository; global settings live in %s", config.GlobalConfigPath())
	}
	cfg := mustLoadConfig(target)

	// No args: show all config
	if len(args) == 0 {
		if humanOutput {
			for _, f := range configFields {
				fmt.Printf("%-16s %s\n", f.key+":", *f.ptr(cfg))
			}
		} else {
			outputJSON(cfg)
		}
		return nil
	}

	field, ok := lookupConfigField(args[0])
	if !ok {
		exitWithError(ExitError, "unknown configuration key: %s", args[0])
	}

	// One arg: get specific value
	if len(args) == 1 {
		value := *field.ptr(cfg)
		if humanOutput {
			fmt.Println(value)
		} else {
			outputJSON(map[string]string{field.jsonKey: value})
		}
		return nil
	}

	// Two args: set value
	value := args[1]
	if field.validate != nil {
		if err := field.validate(value); err != nil {
			exitWithError(ExitError, "%v", err)
		}
	}
	*field.ptr(cfg) = value

	if err := cfg.Save(target.root); err != nil {
		exitWithError(ExitError, "saving config: %v", err)
	}

	if humanOutput {
		fmt.Printf("Set %s = %s\n", field.key, value)
	} else {
		outputJSON(UpdateResponse{Status: "updated", Key: field.key, Value: value})
	}
	return nil
}

func validateLayoutName(layout string) error {
	for _, l := range viz.ValidLayouts {
		if l == layout {
			return nil
		}
	}
	return fmt.Errorf("invalid layout %q: must be one of %s", layout, strings.Join(viz.ValidLayouts, ", "))
}

func validateModeName(mode string) error {
	_, err := view.ParseMode(mode)
	return err
}
