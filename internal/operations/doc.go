// Package operations contains the stages of the replication pipeline.
// Each stage is isolated into its own subpackage for better organization
// and testability:
//   - compare: skip-if-identical content comparison
//   - initiate: source URL resolution and copy initiation
//   - monitor: bounded polling of in-flight copies
package operations
