package battle

import "strings"

// Event is one tokenized battle log line. Fields[0] of the raw line is an
// empty leading segment, so Tag comes from the second segment and Fields
// holds the positional arguments after it.
type Event struct {
	Tag    string
	Fields []string
}

// ParseLine tokenizes one raw log line. Lines that split into fewer than two
// segments carry no event tag (blank or structural lines) and are discarded.
func ParseLine(line string) (Event, bool) {
	parts := strings.Split(strings.TrimSpace(line), "|")
	if len(parts) < 2 {
		return Event{}, false
	}
	return Event{Tag: parts[1], Fields: parts[2:]}, true
}
