// Package report turns an assembled snapshot into a human-readable
// markdown briefing. The core pipeline never produces natural
// language itself; this boundary owns all of it.
package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wonny/marketsnap/internal/contracts"
)

// BuildPrompt serializes a snapshot into the user prompt. The payload
// is the snapshot's own JSON form, so the model sees exactly what the
// API and the store see.
func BuildPrompt(snapshot *contracts.Snapshot) (string, error) {
	payload, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot for prompt: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Write the briefing for %s over %s.\n\n",
		snapshot.Window.Ticker, snapshot.Window.String())

	if len(snapshot.MissingSources) > 0 {
		fmt.Fprintf(&b, "Unavailable sources this run: %s.\n\n",
			strings.Join(snapshot.MissingSources, ", "))
	}

	b.WriteString("Snapshot JSON:\n```json\n")
	b.Write(payload)
	b.WriteString("\n```\n")

	return b.String(), nil
}
