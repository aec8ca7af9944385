// Package calendar reads and writes Microsoft 365 calendar events through
// the Graph API. Listing goes through the calendar view so recurring events
// are returned as expanded occurrences inside the requested window.
//
// # Example Usage
//
//	cal := calendar.NewClient(g)
//	events, _, err := cal.ListEvents(ctx, calendar.ListOptions{
//		Start: time.Now(),
//		End:   time.Now().Add(24 * time.Hour),
//	})
package calendar
