package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/TommyMandex/timestomper/internal/config"
	"github.com/TommyMandex/timestomper/internal/llm/ollama"
	"github.com/TommyMandex/timestomper/internal/preprocess"
	"github.com/TommyMandex/timestomper/internal/presets"
	"github.com/TommyMandex/timestomper/internal/suggest"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// appFs is the filesystem every command reads and writes through.
var appFs = afero.NewOsFs()

var rootCmd = &cobra.Command{
	Use:   "timestomper",
	Short: "Find and rewrite timestamps inside text",
	Long: `Timestomper finds timestamps inside lines of text and rewrites them into
another representation, leaving the rest of every line untouched.

Search and output layouts are named presets or strftime-style directive
patterns such as "%d/%m/%Y  %H:%M".

Examples:
  timestomper convert -s free-win-dir-uk -r epoch dir.txt
  timestomper convert -s "%b %e %H:%M:%S" -y 2019 --ignore /var/log/syslog
  timestomper convert -s iso8601 -r us --cut 0-19 --follow app.log
  timestomper formats --format table
  timestomper suggest listing.txt`,
}

// Execute is called by main.main(). It runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.timestomper.yaml)")
	rootCmd.PersistentFlags().StringP("format", "f", "text", "output format for listings (text, json, table)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")

	_ = viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error finding home directory:", err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(".timestomper")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("TIMESTOMPER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

func setDefaults() {
	viper.SetDefault("format", "text")
	viper.SetDefault("verbose", false)
	viper.SetDefault("convert.replace", presets.DefaultOutput)
	viper.SetDefault("convert.highlight", "never")
	viper.SetDefault("llm.temperature", 0)
	viper.SetDefault("llm.sample_lines", suggest.DefaultSamples)
	viper.SetDefault("llm.ollama.host", "http://localhost:11434")
	viper.SetDefault("llm.ollama.model", ollama.DefaultModel)
	viper.SetDefault("redaction.enabled", true)
	viper.SetDefault("redaction.patterns", preprocess.DefaultPatterns())
}

// loadConfig unmarshals the merged flags, environment and config file.
func loadConfig() (*config.Config, error) {
	cfg := &config.Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// newLogger writes human-readable diagnostics to the command's stderr. Only
// warnings and errors are shown unless --verbose is set.
func newLogger(cmd *cobra.Command) zerolog.Logger {
	level := zerolog.WarnLevel
	if viper.GetBool("verbose") {
		level = zerolog.DebugLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{
		Out:        cmd.ErrOrStderr(),
		TimeFormat: time.TimeOnly,
	}).Level(level).With().Timestamp().Logger()
}

// loadCatalog returns the built-in presets merged with the catalog files in
// paths, later files winning.
func loadCatalog(paths []string) (*presets.Catalog, error) {
	catalog := presets.Builtin()
	for _, path := range paths {
		extra, err := presets.LoadFile(appFs, path)
		if err != nil {
			return nil, config.Invalid("catalog", err)
		}
		catalog.Merge(extra)
	}
	return catalog, nil
}
