// Package app provides application initialization and lifecycle management
// for the SalesPulse dashboard service. It wires configuration, logging,
// telemetry, the upload store, services and HTTP handlers together.
//
// # Initialization Flow
//
//	1. Load configuration from defaults, YAML file and environment
//	2. Initialize logging and OpenTelemetry
//	3. Create the in-memory upload store and its gauge
//	4. Initialize services with metrics and tracer
//	5. Set up middleware and routes
//	6. Configure the HTTP server
//
// # Usage
//
//	application, err := app.NewApplication()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := application.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Graceful Shutdown
//
// Run handles SIGINT and SIGTERM. Stop drains active requests within the
// configured shutdown timeout, stops the upload janitor and flushes
// telemetry. Uploads live in memory only and are dropped on exit.
//
// # Error Handling
//
// All initialization errors are returned to the caller. The package never
// calls os.Exit.
package app
