// Package mail provides Outlook mail operations via Microsoft Graph.
//
// The client wraps the Graph transport with mail-specific paths and model
// decoding: listing and searching messages, reading full content, folder
// enumeration, sending, replying, moving, and deleting.
//
// Listing returns the provider's continuation link alongside the items so
// callers can page explicitly, or use ListAllMessages to drain a bounded
// number of pages.
package mail
