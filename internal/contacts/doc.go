// Package contacts manages personal contacts through the Graph API.
package contacts
