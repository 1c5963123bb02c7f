// Package app wires the feedback dashboard together and manages its
// lifecycle.
//
// # Initialization Flow
//
//	1. Load configuration from FEEDBACK_* environment variables and config.yaml
//	2. Initialize logging and OpenTelemetry
//	3. Build the source fetcher, dataset cache and services
//	4. Set up middleware, handlers and the HTTP server
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
// SIGINT and SIGTERM stop the server, the cache sweeper and the telemetry
// providers, then close the log file. Initialization errors are returned to
// the caller; the package never calls os.Exit.
package app
