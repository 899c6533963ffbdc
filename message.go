package entangld

// MessageKind tags a Message with the wire operation it carries.
type MessageKind int

const (
	MessageGet MessageKind = iota
	MessageValue
	MessageSet
	MessagePush
	MessageSubscribe
	MessageEvent
	MessageUnsubscribe
)

func (k MessageKind) String() string {
	switch k {
	case MessageGet:
		return "get"
	case MessageValue:
		return "value"
	case MessageSet:
		return "set"
	case MessagePush:
		return "push"
	case MessageSubscribe:
		return "subscribe"
	case MessageEvent:
		return "event"
	case MessageUnsubscribe:
		return "unsubscribe"
	default:
		return "unknown"
	}
}

// Params carries set/push's options, e.g. {"limit": N} to cap a pushed
// sequence's length.
type Params = map[string]any

// RemoteHandle is whatever opaque value the caller passed to Attach;
// Store never inspects it beyond using it as a map key.
type RemoteHandle = any

// Message is the tagged record carried across the transport boundary.
// Serialization is a transport's concern, not Store's; this struct is
// the value-typed shape a transport marshals and unmarshals.
type Message struct {
	Kind MessageKind

	// Path is always expressed relative to the downstream store. For
	// `event` messages, the upstream receiver prepends its own namespace
	// before dispatching, to reconstruct its own view of the path.
	Path string

	// Value carries the payload for `set`, `push`, `value`, and `event`.
	Value any

	// Id correlates `get`/`value` pairs and tags every link of a
	// subscription chain for `subscribe`/`event`/`unsubscribe`.
	Id CorrelationId

	// Param carries get's RPC argument or depth limit — a single
	// arbitrary value, unlike Params below.
	Param any

	// Params carries set/push's options (e.g. "limit").
	Params Params

	// Throttle accompanies `subscribe`: deliver every Nth eligible event.
	Throttle int
}
