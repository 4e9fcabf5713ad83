package equitywire

import (
	"encoding/json"

	"github.com/pkg/errors"
)

type EventType string

// Synthetic lifecycle events forwarded to the observer, plus the tag under
// which parsed inbound records are delivered.
const (
	// EventOpen signals that the channel became usable.
	EventOpen EventType = "ws_open"
	// EventClose signals that the channel was lost or closed.
	EventClose EventType = "ws_close"
	// EventError signals a transport-level error. The paired close event, not
	// the error itself, drives reconnection.
	EventError EventType = "ws_error"
	// EventRaw wraps an inbound payload that failed structured parsing.
	// Inbound data is never dropped silently, only reclassified.
	EventRaw EventType = "ws_raw"
	// EventRecord carries a parsed inbound record, forwarded verbatim.
	EventRecord EventType = "record"
)

// Progress tags the ingestion backend pushes over the channel. The client
// treats records as opaque; these are offered so callers can switch on
// Record.Tag without scattering string literals.
const (
	TagFileStart  = "file_start"
	TagFileDone   = "file_done"
	TagURLStart   = "url_start"
	TagURLError   = "url_error"
	TagURLDone    = "url_done"
	TagIngestDone = "ingest_done"
)

// Record is an inbound structured payload. No schema is imposed beyond
// "parseable as a JSON object"; the backend identifies its records with an
// "event" field.
type Record map[string]any

// Tag returns the record's "event" field, or the empty string when absent.
func (r Record) Tag() string {
	tag, _ := r["event"].(string)
	return tag
}

// ParseRecord decodes an inbound payload into a Record.
func ParseRecord(data []byte) (Record, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrap(err, "malformed inbound payload")
	}
	return rec, nil
}

// Event is the single notification shape delivered to the observer. Exactly
// one of Record, Raw or Err is populated, depending on Type.
type Event struct {
	Type   EventType
	Record Record // parsed inbound record, EventRecord only
	Raw    []byte // original unparsed payload, EventRaw only
	Err    string // transport error description, EventError only
}

// Observer receives every inbound record and synthetic lifecycle event of a
// client, in the order they occur. It is invoked from the client's own
// goroutine; a slow observer delays the client.
type Observer func(Event)
