// Package classify turns a user utterance into one of four structured
// shapes (response, event, task, note) by prompting a model and
// normalizing whatever text it sends back.
package classify

// Kind names one of the four mutually exclusive result shapes.
type Kind string

const (
	KindResponse Kind = "response"
	KindEvent    Kind = "event"
	KindTask     Kind = "task"
	KindNote     Kind = "note"
)

// Reminder notification channels.
const (
	ReminderNotification = "notification"
	ReminderCall         = "call"
	ReminderEmail        = "email"
)

// Reminder is a minutes-before offset paired with notification channels.
type Reminder struct {
	TimeBefore int      `json:"time_before"`
	Types      []string `json:"types"`
}

// Turn is one role-tagged, timestamped message of conversation context.
// Timestamps are ISO-8601 UTC strings.
type Turn struct {
	Role      string `json:"role"`
	Timestamp string `json:"timestamp"`
	Message   string `json:"message"`
}

// Result is the closed set of classification outcomes. Consumers switch on
// the concrete type; there is no fifth shape.
type Result interface {
	Kind() Kind
	// DisplayText is what gets stored as the assistant's conversational
	// turn: content when the shape has one, else title, else description.
	DisplayText() string
}

// Response carries plain conversational output.
type Response struct {
	ResponseType Kind   `json:"response_type"`
	Content      string `json:"content"`
}

func (Response) Kind() Kind            { return KindResponse }
func (r Response) DisplayText() string { return r.Content }

// Event is a scheduled activity with a single datetime and reminders.
type Event struct {
	ResponseType    Kind       `json:"response_type"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	LocationAddress string     `json:"location_address"`
	EventDatetime   string     `json:"event_datetime"`
	Reminders       []Reminder `json:"reminders"`
}

func (Event) Kind() Kind { return KindEvent }

func (e Event) DisplayText() string {
	if e.Title != "" {
		return e.Title
	}
	return e.Description
}

// Task is an action item with a start/deadline window, tags and reminders.
type Task struct {
	ResponseType Kind       `json:"response_type"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	StartTime    string     `json:"start_time"`
	EndTime      string     `json:"end_time"`
	Tags         []string   `json:"tags"`
	Reminders    []Reminder `json:"reminders"`
}

func (Task) Kind() Kind { return KindTask }

func (t Task) DisplayText() string {
	if t.Title != "" {
		return t.Title
	}
	return t.Description
}

// Note is a piece of information to remember.
type Note struct {
	ResponseType Kind   `json:"response_type"`
	Title        string `json:"title"`
	Content      string `json:"content"`
}

func (Note) Kind() Kind { return KindNote }

func (n Note) DisplayText() string {
	if n.Content != "" {
		return n.Content
	}
	return n.Title
}
