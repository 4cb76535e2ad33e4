// Package internal contains private implementation details for the
// blobcopy module. These packages are not intended for external use and
// may change without notice.
//
// The internal packages are organized as follows:
//   - blobapi: Narrow interfaces over the Azure SDK surfaces the engine uses
//   - operations: Core replication pipeline stages
//   - validation: Input validation logic
//   - cli: Command-line interface
//   - testutil: Shared test doubles
package internal
