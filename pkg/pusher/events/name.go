package events

// Name specifies different types of events that Streaming API sends to subscribers.
// Used for accounting purpose.
type Name string

const (
	PingEvent  Name = "ping"
	StateEvent Name = "state"
)

func (n Name) String() string {
	return string(n)
}
