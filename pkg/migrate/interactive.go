package migrate

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/okriens/mirrormate/pkg/models"
	"github.com/okriens/mirrormate/pkg/validate"
)

// doneSentinel ends interactive pair collection when entered at the
// source prompt
const doneSentinel = "done"

// CollectPairs gathers pairs from a line-oriented prompt/response channel
// until the operator enters the done sentinel at the source prompt.
// Rejected candidates are reported and re-prompted, never collected.
func CollectPairs(in io.Reader, out io.Writer, validator *validate.Validator) []models.MigrationPair {
	reader := bufio.NewReader(in)
	var pairs []models.MigrationPair

	for {
		source, ok := promptLine(reader, out, fmt.Sprintf("Source path (or '%s' to finish): ", doneSentinel))
		if !ok || strings.EqualFold(source, doneSentinel) {
			break
		}

		dest, ok := promptLine(reader, out, "Destination path: ")
		if !ok {
			break
		}

		pair, err := validator.Validate(source, dest)
		if err != nil {
			fmt.Fprintf(out, "Rejected: %v\n", err)
			continue
		}

		pairs = append(pairs, *pair)
		fmt.Fprintf(out, "Queued: %s -> %s\n", pair.Source, pair.Dest)
	}

	return pairs
}

// promptLine reads one trimmed line; ok is false on EOF with no input
func promptLine(reader *bufio.Reader, out io.Writer, prompt string) (string, bool) {
	fmt.Fprint(out, prompt)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimSpace(line), true
}
