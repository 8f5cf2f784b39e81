// Package mcp exposes the tool dispatcher as an MCP (Model Context
// Protocol) server, so AI assistants can search and manage collections.
package mcp

import (
	"errors"

	"github.com/custodia-labs/quarry/internal/core/domain"
)

// ErrMissingDispatcher is returned when no dispatcher is provided.
var ErrMissingDispatcher = errors.New("mcp: dispatcher is required")

// Stable error kinds surfaced to MCP clients. Clients branch on these, so
// they are part of the protocol surface.
const (
	KindUnknownTool      = "unknown_tool"
	KindInvalidArguments = "invalid_arguments"
	KindBackendFailure   = "backend_failure"
	KindInternal         = "internal_error"
)

// errorKind classifies a dispatch error into its protocol kind.
func errorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnknownTool):
		return KindUnknownTool
	case errors.Is(err, domain.ErrInvalidArguments):
		return KindInvalidArguments
	case errors.Is(err, domain.ErrBackendFailure):
		return KindBackendFailure
	default:
		return KindInternal
	}
}
