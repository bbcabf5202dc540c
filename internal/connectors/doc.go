// Package connectors holds the adapters that bring pipeline inputs in from
// outside the process.
//
//   - crosswalk: fetches and parses the remote identifier crosswalk (HTTP)
//   - filesystem: lists, reads and watches the local result corpus
package connectors
