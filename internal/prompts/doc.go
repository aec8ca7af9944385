// Package prompts registers composable workflow templates as MCP prompts.
package prompts
