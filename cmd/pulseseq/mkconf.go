package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	yml "gopkg.in/yaml.v2"
)

var mkconfCmd = &cobra.Command{
	Use:   "mkconf",
	Short: "Write a default configuration file to start from.",
	RunE: func(_ *cobra.Command, _ []string) error {
		if _, err := os.Stat(configFileName); err == nil {
			return fmt.Errorf("%s already exists, refusing to overwrite", configFileName)
		}

		f, err := os.Create(configFileName)
		if err != nil {
			return err
		}
		defer f.Close()

		return yml.NewEncoder(f).Encode(defaultConfig())
	},
}

var confCmd = &cobra.Command{
	Use:   "conf",
	Short: "Print the effective configuration after all overrides.",
	RunE: func(_ *cobra.Command, _ []string) error {
		c, err := loadConfig()
		if err != nil {
			return err
		}
		return yml.NewEncoder(os.Stdout).Encode(c)
	},
}

func init() {
	rootCmd.AddCommand(mkconfCmd)
	rootCmd.AddCommand(confCmd)
}
