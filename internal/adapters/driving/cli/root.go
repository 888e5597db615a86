// Package cli implements the scenefetch command-line interface using
// cobra. Commands talk to the core exclusively through driving ports;
// the composition root injects implementations via SetServices before
// Execute runs.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/orbitalworks/scenefetch/internal/core/ports/driving"
	"github.com/orbitalworks/scenefetch/internal/logger"
)

// version is overridden at build time via SetVersion.
var version = "dev"

// Services the commands drive, installed by SetServices.
var (
	newRetriever      func(fetchWorkers int) driving.Retriever
	siteManager       driving.SiteManager
	credentialManager driving.CredentialManager
)

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "scenefetch",
	Short: "Retrieve satellite imagery for an area and a date range",
	Long: `scenefetch drives a satellite imagery provider's order lifecycle:
search the catalogue for scenes covering a polygon and date range,
order them, wait for fulfillment, and download the delivered files.

Retrievals are idempotent. Re-running the same request downloads only
what the destination does not already hold, so interrupted runs can
simply be repeated.

Examples:
  # Retrieve July-August imagery for a registered site
  scenefetch retrieve --site jekyllisland --from 2024-07-01 --to 2024-08-30 --dest ./imagery

  # Ad-hoc polygon from a GeoJSON file, with a live dashboard
  scenefetch retrieve --aoi field.geojson --from 2024-07-01 --to 2024-07-15 --dest ./imagery --watch

  # Register a site for later retrievals
  scenefetch sites add jekyllisland --aoi jekyll.geojson`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

// Services aggregates the driving-port implementations the CLI needs.
// NewRetriever is a factory rather than an instance so the retrieve
// command can honour its --concurrency flag; fetchWorkers <= 0 selects
// the default.
type Services struct {
	NewRetriever func(fetchWorkers int) driving.Retriever
	Sites        driving.SiteManager
	Credentials  driving.CredentialManager
}

// SetServices installs the core services. Must be called before
// Execute.
func SetServices(s Services) {
	newRetriever = s.NewRetriever
	siteManager = s.Sites
	credentialManager = s.Credentials
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "verbose logging to stderr")
}
