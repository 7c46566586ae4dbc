package submission

// Severity grades a notification for the UI shell.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notification is the fire-and-forget message the pipeline emits to the UI
// shell's toast/notification surface.
type Notification struct {
	Title       string
	Description string
	Severity    Severity
}

// Notifier consumes notifications. The pipeline never depends on a return
// value or on delivery ordering.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(Notification)

// Notify calls the wrapped function.
func (f NotifierFunc) Notify(n Notification) {
	f(n)
}

type nopNotifier struct{}

func (nopNotifier) Notify(Notification) {}
