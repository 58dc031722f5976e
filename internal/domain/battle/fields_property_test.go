package battle

import (
	"fmt"
	"testing"

	"showdown_stats/internal/app"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestCompoundFieldParserProperties verifies the micro-parser grammars hold
// for arbitrary well-formed inputs.
func TestCompoundFieldParserProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("position round-trips side and nickname", prop.ForAll(
		func(side string, slot string, nickname string) bool {
			input := fmt.Sprintf("%s%s: %s", side, slot, nickname)
			gotSide, gotNick, err := ParsePosition(input)
			if err != nil {
				return false
			}
			return gotSide == app.Side(side) && gotNick == nickname
		},
		gen.OneConstOf("p1", "p2"),
		gen.OneConstOf("a", "b"),
		gen.Identifier(),
	))

	properties.Property("position with of-prefix resolves the same way", prop.ForAll(
		func(side string, nickname string) bool {
			plain, plainNick, err1 := ParsePosition(fmt.Sprintf("%sa: %s", side, nickname))
			prefixed, prefixedNick, err2 := ParsePosition(fmt.Sprintf("[of] %sa: %s", side, nickname))
			if err1 != nil || err2 != nil {
				return false
			}
			return plain == prefixed && plainNick == prefixedNick
		},
		gen.OneConstOf("p1", "p2"),
		gen.Identifier(),
	))

	properties.Property("fraction health parses to numerator", prop.ForAll(
		func(hp int, max int) bool {
			got, fainted, err := ParseHP(fmt.Sprintf("%d/%d", hp, max))
			return err == nil && got == hp && !fainted
		},
		gen.IntRange(0, 999),
		gen.IntRange(1, 999),
	))

	properties.Property("fnt marker always reports fainted", prop.ForAll(
		func(hp int) bool {
			got, fainted, err := ParseHP(fmt.Sprintf("%d fnt", hp))
			return err == nil && got == hp && fainted
		},
		gen.IntRange(0, 999),
	))

	properties.Property("status suffix does not change parsed health", prop.ForAll(
		func(hp int, max int, status string) bool {
			plain, _, err1 := ParseHP(fmt.Sprintf("%d/%d", hp, max))
			suffixed, _, err2 := ParseHP(fmt.Sprintf("%d/%d %s", hp, max, status))
			return err1 == nil && err2 == nil && plain == suffixed
		},
		gen.IntRange(0, 999),
		gen.IntRange(1, 999),
		gen.OneConstOf("par", "brn", "psn", "tox", "slp", "frz"),
	))

	properties.Property("species survives detail qualifiers", prop.ForAll(
		func(species string, level int) bool {
			return SpeciesOf(fmt.Sprintf("%s, L%d", species, level)) == species
		},
		gen.Identifier(),
		gen.IntRange(1, 100),
	))

	properties.TestingRun(t)
}
