/*
Package ports defines the driven ports (interfaces) of the generation service.

These interfaces decouple the service from storage backends so results can
live in memory for the CLI or in Redis behind the HTTP server.

# Key Interfaces

  - ResultStore: persists and loads generation results.
  - DistributedLocker: serialises concurrent generation of the same request.
*/
package ports
