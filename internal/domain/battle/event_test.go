package battle

import (
	"reflect"
	"testing"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected Event
		ok       bool
	}{
		{
			name:     "move event",
			line:     "|move|p1a: Zapdos|Thunderbolt",
			expected: Event{Tag: "move", Fields: []string{"p1a: Zapdos", "Thunderbolt"}},
			ok:       true,
		},
		{
			name:     "player event",
			line:     "|player|p1|Alice|266|1500",
			expected: Event{Tag: "player", Fields: []string{"p1", "Alice", "266", "1500"}},
			ok:       true,
		},
		{
			name: "blank line discarded",
			line: "",
			ok:   false,
		},
		{
			name: "structural line discarded",
			line: "some chat message without delimiters",
			ok:   false,
		},
		{
			name:     "tag only",
			line:     "|upkeep",
			expected: Event{Tag: "upkeep", Fields: []string{}},
			ok:       true,
		},
		{
			name:     "leading whitespace trimmed",
			line:     "  |turn|5\n",
			expected: Event{Tag: "turn", Fields: []string{"5"}},
			ok:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, ok := ParseLine(tt.line)
			if ok != tt.ok {
				t.Fatalf("ParseLine(%q) ok = %v, expected %v", tt.line, ok, tt.ok)
			}
			if !ok {
				return
			}
			if event.Tag != tt.expected.Tag {
				t.Errorf("Expected tag %q, got %q", tt.expected.Tag, event.Tag)
			}
			if !reflect.DeepEqual(event.Fields, tt.expected.Fields) {
				t.Errorf("Expected fields %v, got %v", tt.expected.Fields, event.Fields)
			}
		})
	}
}
