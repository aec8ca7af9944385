package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/RyanLisse/flok/internal/calendar"
)

func newCalendarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "calendar",
		Aliases: []string{"cal"},
		Short:   "View and manage calendar events",
	}
	cmd.AddCommand(newCalendarListCmd())
	cmd.AddCommand(newCalendarShowCmd())
	cmd.AddCommand(newCalendarCreateCmd())
	cmd.AddCommand(newCalendarRespondCmd())
	cmd.AddCommand(newCalendarDeleteCmd())
	cmd.AddCommand(newCalendarAvailabilityCmd())
	return cmd
}

func newCalendarListCmd() *cobra.Command {
	var (
		from  string
		to    string
		count int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List events in a window (default: the next 7 days)",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			client, err := app.calendarClient()
			if err != nil {
				return err
			}
			opts := calendar.ListOptions{Count: count}
			if from != "" {
				if opts.Start, err = time.Parse(time.RFC3339, from); err != nil {
					return fmt.Errorf("parsing --from: %w", err)
				}
			}
			if to != "" {
				if opts.End, err = time.Parse(time.RFC3339, to); err != nil {
					return fmt.Errorf("parsing --to: %w", err)
				}
			}
			events, _, err := client.ListEvents(cmd.Context(), opts)
			if err != nil {
				return err
			}
			fmt.Println(app.formatter.Events(events))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Window start (RFC 3339)")
	cmd.Flags().StringVar(&to, "to", "", "Window end (RFC 3339)")
	cmd.Flags().IntVarP(&count, "count", "n", 0, "Maximum number of events (default: 25)")
	return cmd
}

func newCalendarShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <event-id>",
		Short: "Show the details of an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			client, err := app.calendarClient()
			if err != nil {
				return err
			}
			ev, err := client.GetEvent(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Println(app.formatter.Event(ev))
			return nil
		},
	}
}

func newCalendarCreateCmd() *cobra.Command {
	var (
		subject   string
		start     string
		end       string
		timeZone  string
		location  string
		attendees string
		body      string
		allDay    bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an event",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.requireWritable("calendar create"); err != nil {
				return err
			}
			client, err := app.calendarClient()
			if err != nil {
				return err
			}
			draft := calendar.Draft{
				Subject:   subject,
				Start:     calendar.DateTimeZone{DateTime: start, TimeZone: timeZone},
				End:       calendar.DateTimeZone{DateTime: end, TimeZone: timeZone},
				IsAllDay:  allDay,
				Location:  location,
				Attendees: splitList(attendees),
				Body:      body,
			}
			ev, err := client.CreateEvent(cmd.Context(), draft)
			if err != nil {
				return err
			}
			fmt.Println(app.formatter.Event(ev))
			return nil
		},
	}

	cmd.Flags().StringVarP(&subject, "subject", "s", "", "Event subject")
	cmd.Flags().StringVar(&start, "start", "", "Start time, e.g. 2026-09-01T14:00:00")
	cmd.Flags().StringVar(&end, "end", "", "End time, e.g. 2026-09-01T15:00:00")
	cmd.Flags().StringVar(&timeZone, "timezone", "UTC", "IANA or Windows time zone for start and end")
	cmd.Flags().StringVar(&location, "location", "", "Location name")
	cmd.Flags().StringVar(&attendees, "attendees", "", "Attendee address(es), comma-separated")
	cmd.Flags().StringVarP(&body, "body", "b", "", "Event body")
	cmd.Flags().BoolVar(&allDay, "all-day", false, "All-day event")
	_ = cmd.MarkFlagRequired("subject")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func newCalendarRespondCmd() *cobra.Command {
	var comment string

	cmd := &cobra.Command{
		Use:   "respond <event-id> <accept|decline|tentativelyAccept>",
		Short: "Respond to an event invitation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.requireWritable("calendar respond"); err != nil {
				return err
			}
			client, err := app.calendarClient()
			if err != nil {
				return err
			}
			if err := client.Respond(cmd.Context(), args[0], args[1], comment); err != nil {
				return err
			}
			fmt.Printf("Response %q sent\n", args[1])
			return nil
		},
	}

	cmd.Flags().StringVarP(&comment, "message", "m", "", "Comment to include with the response")
	return cmd
}

func newCalendarDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <event-id>",
		Short: "Delete an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.requireWritable("calendar delete"); err != nil {
				return err
			}
			client, err := app.calendarClient()
			if err != nil {
				return err
			}
			if err := client.DeleteEvent(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("Event deleted")
			return nil
		},
	}
}

func newCalendarAvailabilityCmd() *cobra.Command {
	var (
		from     string
		to       string
		interval int
	)

	cmd := &cobra.Command{
		Use:   "availability <address>[,<address>...]",
		Short: "Check free/busy information for one or more people",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			client, err := app.calendarClient()
			if err != nil {
				return err
			}
			start, err := time.Parse(time.RFC3339, from)
			if err != nil {
				return fmt.Errorf("parsing --from: %w", err)
			}
			end, err := time.Parse(time.RFC3339, to)
			if err != nil {
				return fmt.Errorf("parsing --to: %w", err)
			}
			schedules, err := client.CheckAvailability(cmd.Context(), splitList(args[0]), start, end, interval)
			if err != nil {
				return err
			}
			fmt.Println(app.formatter.Schedules(schedules))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Window start (RFC 3339)")
	cmd.Flags().StringVar(&to, "to", "", "Window end (RFC 3339)")
	cmd.Flags().IntVar(&interval, "interval", 30, "Slot size in minutes")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
