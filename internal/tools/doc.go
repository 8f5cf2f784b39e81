// Package tools contains the agent-facing tool implementations exposed by
// the MCP server. Each tool declares a name, a description and a JSON
// Schema for its arguments, and executes against whichever backend the
// dispatcher resolved at startup.
package tools
