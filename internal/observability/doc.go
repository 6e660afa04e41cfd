// Package observability records task events for taskpad. Events are kept as
// structured JSON Lines (JSONL) and metrics are derived on demand from the
// log.
package observability
