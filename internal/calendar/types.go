package calendar

// Event is a Graph calendar event.
type Event struct {
	ID              string          `json:"id"`
	Subject         string          `json:"subject,omitempty"`
	BodyPreview     string          `json:"bodyPreview,omitempty"`
	Body            *ItemBody       `json:"body,omitempty"`
	Start           *DateTimeZone   `json:"start,omitempty"`
	End             *DateTimeZone   `json:"end,omitempty"`
	Location        *Location       `json:"location,omitempty"`
	Attendees       []Attendee      `json:"attendees,omitempty"`
	Organizer       *Organizer      `json:"organizer,omitempty"`
	IsAllDay        *bool           `json:"isAllDay,omitempty"`
	IsCancelled     *bool           `json:"isCancelled,omitempty"`
	IsOnlineMeeting *bool           `json:"isOnlineMeeting,omitempty"`
	ResponseStatus  *ResponseStatus `json:"responseStatus,omitempty"`
	ShowAs          string          `json:"showAs,omitempty"`
	Importance      string          `json:"importance,omitempty"`
	Categories      []string        `json:"categories,omitempty"`
	WebLink         string          `json:"webLink,omitempty"`
}

// ItemBody mirrors the Graph body shape shared by events and messages.
type ItemBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

// DateTimeZone is Graph's dateTime/timeZone pair. The dateTime component is
// a local wall-clock string, not RFC 3339.
type DateTimeZone struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

// Location is where an event takes place.
type Location struct {
	DisplayName string `json:"displayName,omitempty"`
}

// Organizer wraps the organizer's email address.
type Organizer struct {
	EmailAddress EmailAddress `json:"emailAddress"`
}

// EmailAddress is a name/address pair.
type EmailAddress struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address"`
}

// Attendee is an event participant.
type Attendee struct {
	EmailAddress EmailAddress    `json:"emailAddress"`
	Type         string          `json:"type,omitempty"` // required, optional, resource
	Status       *ResponseStatus `json:"status,omitempty"`
}

// ResponseStatus is an attendee's response to an invitation.
type ResponseStatus struct {
	Response string `json:"response,omitempty"`
	Time     string `json:"time,omitempty"`
}

// Draft describes an event to create.
type Draft struct {
	Subject   string
	Start     DateTimeZone
	End       DateTimeZone
	IsAllDay  bool
	Location  string
	Attendees []string
	Body      string
}

// ScheduleRequest is the body of /me/calendar/getSchedule.
type ScheduleRequest struct {
	Schedules                []string     `json:"schedules"`
	StartTime                DateTimeZone `json:"startTime"`
	EndTime                  DateTimeZone `json:"endTime"`
	AvailabilityViewInterval int          `json:"availabilityViewInterval,omitempty"`
}

// ScheduleInformation is one attendee's free/busy view.
type ScheduleInformation struct {
	ScheduleID       string         `json:"scheduleId,omitempty"`
	AvailabilityView string         `json:"availabilityView,omitempty"`
	ScheduleItems    []ScheduleItem `json:"scheduleItems,omitempty"`
}

// ScheduleItem is one busy block in a schedule.
type ScheduleItem struct {
	Status   string        `json:"status,omitempty"`
	Start    *DateTimeZone `json:"start,omitempty"`
	End      *DateTimeZone `json:"end,omitempty"`
	Subject  string        `json:"subject,omitempty"`
	Location string        `json:"location,omitempty"`
}
