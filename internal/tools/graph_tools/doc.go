// Package graph_tools provides the raw Graph API escape hatch tool.
package graph_tools
