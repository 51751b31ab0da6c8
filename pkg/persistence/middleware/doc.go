// Package middleware wraps a ports.PositionStore with cross-cutting behavior,
// such as sealing stored positions.
package middleware
