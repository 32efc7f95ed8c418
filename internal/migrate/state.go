// Package migrate orchestrates one migration run: ensure schema, walk the
// source, map and dedup each bundle, write rows in dependency order, and
// aggregate the run report.
package migrate

// State tracks where a run is in its lifecycle. A rerun starts over from
// StateIdle; there is no checkpoint to resume from, deduplication alone
// makes reruns safe.
type State int

const (
	StateIdle State = iota
	StateSchemaEnsuring
	StateWalking
	StateMapping
	StateDedup
	StateWriting
	StateReporting
	StateSucceeded
	StateFatallyAborted
)

var stateNames = map[State]string{
	StateIdle:           "idle",
	StateSchemaEnsuring: "schema-ensuring",
	StateWalking:        "walking",
	StateMapping:        "mapping",
	StateDedup:          "dedup",
	StateWriting:        "writing",
	StateReporting:      "reporting",
	StateSucceeded:      "succeeded",
	StateFatallyAborted: "fatally-aborted",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}
