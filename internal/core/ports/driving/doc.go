// Package driving defines the interfaces the CLI uses to run syncs and read
// their history. Implementations live in internal/core/services.
package driving
