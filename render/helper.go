package render

import (
	"fmt"
	"strings"
)

// writeLookupHelper appends getSpmDelaySysex, which returns the entry nearest to a requested delay.
// Targets outside the table's range resolve to its smallest or largest delay.
func writeLookupHelper(b *strings.Builder, container string) {
	fmt.Fprintf(b, `function getSpmDelaySysex(targetMs) {
    if (%[1]s.length === 0) {
        return undefined;
    }

    let closest = %[1]s[0];
    let minDiff = Math.abs(closest.ms - targetMs);

    for (let i = 1; i < %[1]s.length; i++) {
        const entry = %[1]s[i];
        const diff = Math.abs(entry.ms - targetMs);

        if (diff < minDiff) {
            minDiff = diff;
            closest = entry;
        }
    }

    return closest;
}
`, container)
}
