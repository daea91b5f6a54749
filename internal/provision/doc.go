// Package provision makes collections and partitions exist in the state the
// bridge expects. Both entry points are idempotent and safe to call on
// every deployment.
package provision
