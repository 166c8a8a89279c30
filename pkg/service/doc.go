/*
Package service runs presets on behalf of the CLI, HTTP and MCP surfaces.

A Generator validates a Request, derives a deterministic id from it and
serves the stored Result when one exists. Otherwise it runs the preset,
stores the outcome and returns it. Identical concurrent requests are
serialised through an optional DistributedLocker so the grammar runs once.
*/
package service
