package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orbitalworks/scenefetch/internal/core/domain"
	"github.com/orbitalworks/scenefetch/internal/geometry"
)

var (
	siteAddAOIPath string
	siteAddNotes   string
)

var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "Manage the named-site registry",
	Long: `Register, inspect and remove named areas of interest.

A site pairs a name with a polygon so retrievals can refer to the
area by name instead of carrying a GeoJSON file around. Polygons are
validated and normalized when the site is added.

Examples:
  scenefetch sites add jekyllisland --aoi jekyll.geojson --notes "coastal survey"
  scenefetch sites list
  scenefetch sites show jekyllisland
  scenefetch sites remove jekyllisland`,
}

var sitesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered sites",
	RunE:  runSitesList,
}

var sitesShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a site's polygon and details",
	Args:  cobra.ExactArgs(1),
	RunE:  runSitesShow,
}

var sitesAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Register a new site from a GeoJSON polygon",
	Long: `Register a new site. The polygon comes from a GeoJSON file
(FeatureCollection, Feature or bare geometry; the first polygon wins).

Site names are lowercase identifiers: letters, digits, hyphen and
underscore. They appear in provider order names and delivered
filenames.`,
	Args: cobra.ExactArgs(1),
	RunE: runSitesAdd,
}

var sitesRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a site from the registry",
	Args:  cobra.ExactArgs(1),
	RunE:  runSitesRemove,
}

func init() {
	sitesAddCmd.Flags().StringVar(&siteAddAOIPath, "aoi", "", "GeoJSON file with the site polygon (required)")
	sitesAddCmd.Flags().StringVar(&siteAddNotes, "notes", "", "free-form notes about the site")

	sitesCmd.AddCommand(sitesListCmd)
	sitesCmd.AddCommand(sitesShowCmd)
	sitesCmd.AddCommand(sitesAddCmd)
	sitesCmd.AddCommand(sitesRemoveCmd)
	rootCmd.AddCommand(sitesCmd)
}

func runSitesList(cmd *cobra.Command, _ []string) error {
	if siteManager == nil {
		return errors.New("site service not configured")
	}

	sites, err := siteManager.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("list sites: %w", err)
	}

	if len(sites) == 0 {
		cmd.Println("No sites registered. Add one with 'scenefetch sites add'.")
		return nil
	}

	cmd.Printf("%-24s %-10s %-12s %s\n", "NAME", "VERTICES", "UPDATED", "NOTES")
	for _, site := range sites {
		cmd.Printf("%-24s %-10d %-12s %s\n",
			site.Name,
			site.AOI.Vertices(),
			site.UpdatedAt.Format(domain.DateLayout),
			site.Notes)
	}
	return nil
}

func runSitesShow(cmd *cobra.Command, args []string) error {
	if siteManager == nil {
		return errors.New("site service not configured")
	}

	site, err := siteManager.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	cmd.Printf("Name:     %s\n", site.Name)
	if site.Notes != "" {
		cmd.Printf("Notes:    %s\n", site.Notes)
	}
	cmd.Printf("Created:  %s\n", site.CreatedAt.Format(domain.DateLayout))
	cmd.Printf("Updated:  %s\n", site.UpdatedAt.Format(domain.DateLayout))
	cmd.Printf("Polygon:  %d vertices\n", site.AOI.Vertices())
	for _, p := range site.AOI {
		cmd.Printf("  %11.6f, %10.6f\n", p.Lon, p.Lat)
	}
	return nil
}

func runSitesAdd(cmd *cobra.Command, args []string) error {
	if siteManager == nil {
		return errors.New("site service not configured")
	}
	if siteAddAOIPath == "" {
		return fmt.Errorf("%w: --aoi is required", domain.ErrInvalidRequest)
	}

	ring, err := geometry.ReadGeoJSONFile(siteAddAOIPath)
	if err != nil {
		return err
	}

	site, err := siteManager.Add(cmd.Context(), domain.Site{
		Name:  args[0],
		AOI:   ring,
		Notes: siteAddNotes,
	})
	if err != nil {
		return err
	}

	cmd.Printf("Site %s registered (%d vertices).\n", site.Name, site.AOI.Vertices())
	return nil
}

func runSitesRemove(cmd *cobra.Command, args []string) error {
	if siteManager == nil {
		return errors.New("site service not configured")
	}

	if err := siteManager.Remove(cmd.Context(), args[0]); err != nil {
		return err
	}

	cmd.Printf("Site %s removed.\n", args[0])
	return nil
}
