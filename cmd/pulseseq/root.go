// Command pulseseq runs sequence programs from a YAML configuration file.
package main

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/spf13/cobra"
)

// Version is the version number, typically injected via ldflags at build.
var Version = "dev"

var configFileName string

var rootCmd = &cobra.Command{
	Use:   "pulseseq",
	Short: "pulseseq executes clock-synchronous pulse sequence programs.",
	Long: `pulseseq executes clock-synchronous pulse sequence programs against ` +
		`trapped-ion sequencer hardware, or fully virtually for dry runs. ` +
		`Programs, scan sweeps, and the hardware link are described in a ` +
		`YAML configuration file; see "pulseseq mkconf" for a starting point.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		// A .env next to the binary may carry PULSESEQ_* overrides for
		// lab machines where editing the YAML is inconvenient.
		_ = godotenv.Load()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFileName, "config", "c",
		"pulseseq.yml", "configuration file to load")
}

// loadConfig merges, in order of increasing precedence: built-in defaults,
// the YAML configuration file, and PULSESEQ_* environment variables.
func loadConfig() (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return Config{}, err
	}

	if err := k.Load(file.Provider(configFileName), yaml.Parser()); err != nil {
		// a missing file just means defaults, anything else is fatal
		if !strings.Contains(err.Error(), "no such") {
			return Config{}, err
		}
	}

	err := k.Load(env.Provider("PULSESEQ_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "PULSESEQ_")
		return strings.ReplaceAll(strings.ToLower(s), "_", ".")
	}), nil)
	if err != nil {
		return Config{}, err
	}

	var c Config
	if err := k.Unmarshal("", &c); err != nil {
		return Config{}, err
	}
	return c, nil
}
