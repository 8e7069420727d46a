// Package tools provides the MCP tool handlers for the life-logging
// surface.
//
// Each handler follows the same pattern:
// - a struct with dependencies injected via constructor
// - Definition() returns the mcp.Tool schema
// - Handle() processes the request and returns a result
//
// User mistakes (missing arguments) come back as tool-result errors, not
// Go errors; Go errors are reserved for transport failures.
package tools

import (
	"strconv"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

// timeNow is a package-level variable for testability.
// Tests can replace this to control time in assertions.
var timeNow = time.Now

// ownerID extracts the owner_id argument, coercing numeric ids to their
// decimal string form. Chat platforms hand over integer user ids, web
// sessions hand over strings; the store keys on the string either way.
func ownerID(req mcp.CallToolRequest) string {
	switch v := req.GetArguments()["owner_id"].(type) {
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// intArg extracts an integer argument, returning defaultVal if the key
// is missing or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// truncate shortens s to max runes for list displays.
func truncate(s string, max int) string {
	if max <= 0 || len([]rune(s)) <= max {
		return s
	}
	return string([]rune(s)[:max]) + "..."
}
