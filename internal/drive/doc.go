// Package drive browses and searches OneDrive files through the Graph API.
package drive
