// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

/*
Package supervisor runs the server's long-lived services under suture v4.

The tree separates services into layers so one can restart without taking
the others down:

	RootSupervisor ("skillswap")
	├── DataSupervisor ("data-layer")
	│   ├── ledger-audit (periodic ledger verification)
	│   └── duckdb-checkpoint
	├── MessagingSupervisor ("messaging-layer")
	│   ├── websocket-hub
	│   └── event-forwarder
	└── APISupervisor ("api-layer")
	    └── http-server

Supervisor events (start, failure, backoff) are logged through sutureslog
into the zerolog logger.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddMessagingService(hub)
	tree.AddMessagingService(forwarder)
	tree.AddAPIService(services.NewHTTPServerService(srv, 10*time.Second))

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    logging.Error().Err(err).Msg("supervisor stopped")
	}

Services live in the services subpackage.
*/
package supervisor
