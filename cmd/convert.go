package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/TommyMandex/timestomper/internal/config"
	"github.com/TommyMandex/timestomper/internal/input"
	"github.com/TommyMandex/timestomper/internal/output"
	"github.com/TommyMandex/timestomper/internal/pipeline"
	"github.com/TommyMandex/timestomper/internal/scan"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var convertCmd = &cobra.Command{
	Use:   "convert [flags] [file ...]",
	Short: "Rewrite the timestamps found in files or stdin",
	Long: `Find every timestamp matching the search layout in each line and replace
it with the same instant rendered in the output layout. Everything else in
the line is copied unchanged.

Without file arguments, or with "-", lines are read from stdin. Several
files are processed in order.

A line without a usable timestamp stops the conversion unless --include
(copy it unchanged) or --ignore (drop it) is given. A timestamp that
matches but is not a valid date, or lacks a year, stops it unless
--ignore is given. --ignore also fills in the current year for layouts
that have none.

Examples:
  timestomper convert -s free-win-dir-uk -r epoch dir.txt
  timestomper convert -s "%d/%m/%Y  %H:%M" -r "%Y%m%d" --index -1 dir.txt
  timestomper convert -s syslog -y 2019 -o converted.log /var/log/syslog
  ls -l | timestomper convert -s free-osx-ls -y 2024 --include --highlight
  timestomper convert -s iso8601 --follow --follow-rotate /var/log/app.log`,
	RunE: runConvert,
}

func init() {
	addConvertFlags(convertCmd)
	rootCmd.AddCommand(convertCmd)
}

func addConvertFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("search", "s", "", "search profile name or directive pattern (required)")
	cmd.Flags().StringP("replace", "r", "iso", "output preset name or directive pattern")
	cmd.Flags().StringP("outfile", "o", "", "write output to file instead of stdout")
	cmd.Flags().StringP("cut", "c", "", "only search characters S-E of each line (S-E, S-, -E or E)")
	cmd.Flags().Int("index", 0, "convert only the Nth timestamp of each line, negative counts from the end")
	cmd.Flags().IntP("year", "y", 0, "year for timestamps that have none")
	cmd.Flags().Bool("include", false, "copy lines without a usable timestamp unchanged")
	cmd.Flags().Bool("ignore", false, "drop lines without a usable timestamp")
	cmd.Flags().String("highlight", "never", "highlight replacements (auto, always, never)")
	cmd.Flags().Lookup("highlight").NoOptDefVal = "always"
	cmd.Flags().Bool("follow", false, "keep reading the file as it grows")
	cmd.Flags().Bool("follow-rotate", false, "keep following when the file is rotated (implies --follow)")
	cmd.Flags().StringSlice("catalog", nil, "extra YAML preset catalog (repeatable)")
}

// convertSettings is the resolved configuration of one convert run.
type convertSettings struct {
	output       string
	outfile      string
	files        []string
	year         int
	policy       pipeline.Policy
	color        output.ColorMode
	follow       bool
	followRotate bool
	scanner      *scan.Scanner
}

func runConvert(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd)

	s, err := resolveConvert(cmd, args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var src pipeline.Source
	if s.follow {
		f, err := input.Follow(appFs, input.FollowOptions{
			Path:   s.files[0],
			Rotate: s.followRotate,
			Logger: logger,
		})
		if err != nil {
			return config.Invalid("input", err)
		}
		defer f.Close()
		src = f
	} else {
		chain := input.NewChain(appFs, s.files, cmd.InOrStdin(), logger)
		defer chain.Close()
		src = chain
	}

	toStdout := s.outfile == "" || s.outfile == config.Stdin
	var marked io.Writer = io.Discard
	if toStdout {
		marked = cmd.OutOrStdout()
	}

	p, err := pipeline.New(pipeline.Options{
		Scanner:   s.scanner,
		Output:    s.output,
		Year:      s.year,
		Policy:    s.policy,
		Highlight: output.HighlightMarker(s.color, marked),
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	var sink *output.LineSink
	switch {
	case !toStdout:
		if sink, err = output.CreateSink(appFs, s.outfile); err != nil {
			return err
		}
	case s.follow || s.files[0] == config.Stdin:
		sink = output.NewStreamSink(cmd.OutOrStdout())
	default:
		sink = output.NewSink(cmd.OutOrStdout())
	}

	_, err = p.Run(ctx, src, sink)
	return err
}

// resolveConvert validates every setting before any output is written.
// Problems are reported as *config.ConfigError.
func resolveConvert(cmd *cobra.Command, args []string) (*convertSettings, error) {
	catalogs, _ := cmd.Flags().GetStringSlice("catalog")
	catalogs = append(viper.GetStringSlice("catalogs"), catalogs...)
	catalog, err := loadCatalog(catalogs)
	if err != nil {
		return nil, err
	}

	search := stringSetting(cmd, "search", "convert.search")
	if search == "" {
		return nil, config.Invalid("search", errors.New("a profile name or directive pattern is required"))
	}
	profile, err := catalog.Profile(search)
	if err != nil {
		return nil, config.Invalid("search", err)
	}

	s := &convertSettings{}
	if s.output, err = catalog.Output(stringSetting(cmd, "replace", "convert.replace")); err != nil {
		return nil, config.Invalid("replace", err)
	}

	window, err := config.ParseWindow(stringSetting(cmd, "cut", "convert.cut"))
	if err != nil {
		return nil, config.Invalid("cut", err)
	}

	scanOpts := scan.Options{Window: window}
	if cmd.Flags().Changed("index") {
		idx, _ := cmd.Flags().GetInt("index")
		scanOpts.Index = &idx
	}
	s.scanner = scan.New(profile, scanOpts)

	// 0 means unset, so an explicit year must be 1-9999
	yearSet := cmd.Flags().Changed("year") || viper.IsSet("convert.year")
	if s.year = intSetting(cmd, "year", "convert.year"); yearSet && (s.year < 1 || s.year > 9999) {
		return nil, config.Invalid("year", fmt.Errorf("%d is out of range 1-9999", s.year))
	}

	s.policy = pipeline.Policy{
		Include: boolSetting(cmd, "include", "convert.include"),
		Ignore:  boolSetting(cmd, "ignore", "convert.ignore"),
	}

	if s.color, err = output.ParseColorMode(stringSetting(cmd, "highlight", "convert.highlight")); err != nil {
		return nil, config.Invalid("highlight", err)
	}

	s.followRotate, _ = cmd.Flags().GetBool("follow-rotate")
	s.follow, _ = cmd.Flags().GetBool("follow")
	s.follow = s.follow || s.followRotate

	if len(args) == 0 {
		args = []string{config.Stdin}
	}
	if s.files, err = config.ExpandGlobs(appFs, args); err != nil {
		return nil, config.Invalid("input", err)
	}
	if err := input.CheckReadable(appFs, s.files); err != nil {
		return nil, config.Invalid("input", err)
	}
	if s.follow && (len(s.files) != 1 || s.files[0] == config.Stdin) {
		return nil, config.Invalid("follow", errors.New("following needs exactly one file"))
	}

	s.outfile = stringSetting(cmd, "outfile", "convert.outfile")
	return s, nil
}

// stringSetting prefers an explicitly set flag, then the config file, then
// the flag default.
func stringSetting(cmd *cobra.Command, flag, key string) string {
	if !cmd.Flags().Changed(flag) && viper.IsSet(key) {
		return viper.GetString(key)
	}
	v, _ := cmd.Flags().GetString(flag)
	return v
}

func intSetting(cmd *cobra.Command, flag, key string) int {
	if !cmd.Flags().Changed(flag) && viper.IsSet(key) {
		return viper.GetInt(key)
	}
	v, _ := cmd.Flags().GetInt(flag)
	return v
}

func boolSetting(cmd *cobra.Command, flag, key string) bool {
	if !cmd.Flags().Changed(flag) && viper.IsSet(key) {
		return viper.GetBool(key)
	}
	v, _ := cmd.Flags().GetBool(flag)
	return v
}
