// Package speech turns a two-host podcast script into MP3 audio with
// ElevenLabs voices.
package speech

import "strings"

// Hosts of the podcast script.
const (
	HostA = "Host A"
	HostB = "Host B"
)

// Turn is a contiguous run of lines spoken by one host.
type Turn struct {
	Host string
	Text string
}

// ParseScript splits a script into turns. A line starting with "Host A:" or
// "Host B:" opens a turn unless the same host is already speaking; other
// non-empty lines continue the current turn; text before the first label is
// dropped.
func ParseScript(script string) []Turn {
	var (
		turns   []Turn
		current string
		parts   []string
	)

	flush := func() {
		if current != "" && len(parts) > 0 {
			if text := strings.TrimSpace(strings.Join(parts, " ")); text != "" {
				turns = append(turns, Turn{Host: current, Text: text})
			}
		}
		parts = nil
	}

	for _, line := range strings.Split(script, "\n") {
		line = strings.TrimSpace(line)
		host, rest, labelled := splitLabel(line)
		switch {
		case labelled:
			if host != current {
				flush()
				current = host
			}
			if rest != "" {
				parts = append(parts, rest)
			}
		case line != "" && current != "":
			parts = append(parts, line)
		}
	}
	flush()

	return turns
}

func splitLabel(line string) (host, rest string, ok bool) {
	for _, h := range []string{HostA, HostB} {
		if after, found := strings.CutPrefix(line, h+":"); found {
			return h, strings.TrimSpace(after), true
		}
	}
	return "", "", false
}
