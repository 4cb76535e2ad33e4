// Package validation provides centralized input validation logic.
// This includes container name validation, blob name validation, and
// security checks.
//
// All user inputs are validated before being sent to the storage service
// to fail fast on identifiers Azure would reject anyway.
package validation
