package events

import "encoding/json"

// Event names used on the SSE stream.
const (
	WarningShown     = "warning.shown"
	WarningDismissed = "warning.dismissed"
)

// Dismissal reasons carried in warning.dismissed payloads.
const (
	ReasonUser      = "user"
	ReasonACOnline  = "ac-restored"
	ReasonRecovered = "charge-recovered"
	ReasonShutdown  = "shutdown"
)

// Event is a generic daemon event as delivered over SSE.
type Event struct {
	Name string          // SSE event name
	Data json.RawMessage // Raw JSON payload
}

// WarningShownEvent is the payload for warning.shown.
type WarningShownEvent struct {
	Percent   int   `json:"percent"`
	Threshold int   `json:"threshold"`
	Ts        int64 `json:"ts"`
}

// WarningDismissedEvent is the payload for warning.dismissed.
type WarningDismissedEvent struct {
	Reason  string `json:"reason"`
	Percent int    `json:"percent,omitempty"`
	Ts      int64  `json:"ts"`
}

// DecodeAs unmarshals the event payload into T. An empty payload yields the
// zero value of T with a nil error.
func DecodeAs[T any](e Event) (T, error) {
	var zero T
	if len(e.Data) == 0 {
		return zero, nil
	}
	var v T
	if err := json.Unmarshal(e.Data, &v); err != nil {
		return zero, err
	}
	return v, nil
}
