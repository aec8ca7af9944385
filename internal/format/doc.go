// Package format renders mail, calendar, contact, and drive objects for
// terminal output in table, JSON, or compact form.
package format
