package notify

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"subwatch/pkg/domain"
)

// timeLayout is the human-readable timestamp format used in notifications.
const timeLayout = "2006-01-02 15:04:05 MST"

// FormatBatch renders the human-readable notification text for a batch:
// domain, count, the numbered hostname list in lexicographic order, and the
// detection timestamp. maxLen bounds the total message length in runes; when
// the full list does not fit, it is truncated and a "+N more" line is
// appended in its place.
func FormatBatch(batch domain.Batch, maxLen int) string {
	hostnames := batch.Sorted()

	header := fmt.Sprintf("🚨 New subdomains detected for %s\n\nFound %d new subdomain(s):\n\n",
		batch.Domain, len(hostnames))
	footer := fmt.Sprintf("\n⏰ Detected at: %s", batch.DetectedAt.UTC().Format(timeLayout))

	budget := maxLen - utf8.RuneCountInString(header) - utf8.RuneCountInString(footer)

	var list strings.Builder

	listed := 0
	used := 0
	for i, hostname := range hostnames {
		line := fmt.Sprintf("%d. `%s`\n", i+1, hostname)
		lineLen := utf8.RuneCountInString(line)

		// Reserve room for the truncation marker unless this is the last entry.
		reserve := 0
		if i < len(hostnames)-1 {
			reserve = utf8.RuneCountInString(fmt.Sprintf("+%d more\n", len(hostnames)-i-1))
		}

		if used+lineLen+reserve > budget {
			break
		}

		list.WriteString(line)
		used += lineLen
		listed++
	}

	if listed < len(hostnames) {
		list.WriteString(fmt.Sprintf("+%d more\n", len(hostnames)-listed))
	}

	return header + list.String() + footer
}
