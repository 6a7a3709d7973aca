// Package redis wraps the go-redis client for the distributed cache tier.
//
// The wrapper tracks reachability in an atomic flag. New connections set it, commands
// failing with a transport error clear it, and a background health check restores it.
// While the flag is clear every command is skipped. No method reports unreachability
// as an error: reads come back empty and writes are dropped, so callers degrade to
// their local tier without special handling.
package redis
