// Package calendar_tools provides MCP (Model Context Protocol) tools for the
// local calendar integration.
//
// This package exposes calendar context through a standardized MCP interface,
// allowing AI assistants to read upcoming events, inspect integration health,
// and adjust acquisition settings at runtime.
//
// All tools are best effort: when no calendar interface is reachable the
// event tool reports an empty result rather than an error, and the status
// tool states why.
package calendar_tools
