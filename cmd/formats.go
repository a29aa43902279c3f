package cmd

import (
	"github.com/TommyMandex/timestomper/internal/output"
	"github.com/TommyMandex/timestomper/internal/strftime"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List search profiles, output presets and directives",
	Long: `List the named search profiles and output presets, including those from
catalog files, together with the directives usable in patterns. Directive
examples are rendered for ` + strftime.ReferenceTime.Format("Mon 2 Jan 2006 15:04:05") + `.

Examples:
  timestomper formats
  timestomper formats --format table
  timestomper formats --catalog site.yaml --no-directives`,
	Args: cobra.NoArgs,
	RunE: runFormats,
}

func init() {
	addFormatsFlags(formatsCmd)
	rootCmd.AddCommand(formatsCmd)
}

func addFormatsFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("catalog", nil, "extra YAML preset catalog (repeatable)")
	cmd.Flags().Bool("no-directives", false, "omit the directive reference")
}

func runFormats(cmd *cobra.Command, args []string) error {
	catalogs, _ := cmd.Flags().GetStringSlice("catalog")
	noDirectives, _ := cmd.Flags().GetBool("no-directives")

	catalog, err := loadCatalog(append(viper.GetStringSlice("catalogs"), catalogs...))
	if err != nil {
		return err
	}

	listing := output.Listing{
		Profiles: catalog.Profiles(),
		Outputs:  catalog.Outputs(),
	}
	if !noDirectives {
		listing.Directives = strftime.Reference()
	}

	writer := output.New(cmd.OutOrStdout(), output.ParseFormat(viper.GetString("format")))
	return writer.WriteListing(listing)
}
