// Command scenefetch retrieves satellite imagery for a polygon and a
// date range through a provider's asynchronous order workflow. main is
// the composition root: it builds the driven adapters, wires them into
// the core services and hands the driving ports to the CLI.
package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/orbitalworks/scenefetch/internal/adapters/driven/auth"
	configfile "github.com/orbitalworks/scenefetch/internal/adapters/driven/config/file"
	sitesfile "github.com/orbitalworks/scenefetch/internal/adapters/driven/sites/file"
	"github.com/orbitalworks/scenefetch/internal/adapters/driven/storage/blobstore"
	"github.com/orbitalworks/scenefetch/internal/adapters/driving/cli"
	"github.com/orbitalworks/scenefetch/internal/connectors/planet"
	"github.com/orbitalworks/scenefetch/internal/core/ports/driving"
	"github.com/orbitalworks/scenefetch/internal/core/services"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	config, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("open config store: %w", err)
	}
	siteStore, err := sitesfile.NewSiteStore("")
	if err != nil {
		return fmt.Errorf("open site registry: %w", err)
	}

	tokens := auth.FromConfig(config)
	connector := planet.New(planet.Config{
		DataURL:   config.GetString("provider.data_url"),
		OrdersURL: config.GetString("provider.orders_url"),
	}, tokens)
	defer connector.Close()

	clock := clockwork.NewRealClock()
	opener := blobstore.NewOpener()

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		NewRetriever: func(fetchWorkers int) driving.Retriever {
			return services.NewRetrievalCoordinator(
				connector, opener, tokens, clock, uuid.NewString,
				services.CoordinatorConfig{FetchWorkers: fetchWorkers},
			)
		},
		Sites:       services.NewSiteService(siteStore, clock),
		Credentials: services.NewCredentialService(auth.NewConfigWriter(config), tokens, connector),
	})

	return cli.Execute()
}
