package presubmit

import "fmt"

// DefaultMaxOutputSize is the default limit for captured check output (64KB).
const DefaultMaxOutputSize = 64 * 1024

const truncationMarker = "... [TRUNCATED] ...\n"

// OutputMeta records that captured output was cut down.
type OutputMeta struct {
	Truncated    bool   `json:"truncated" yaml:"truncated"`
	OriginalSize int    `json:"original_size_bytes" yaml:"original_size_bytes"`
	TruncatedAt  int    `json:"truncated_at_bytes" yaml:"truncated_at_bytes"`
	Reason       string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// TruncateOutput keeps the tail of output so that it fits in limit bytes.
// The tail is kept because failing scripts report the cause last.
// A limit of zero or less disables truncation.
func TruncateOutput(output string, limit int) (string, *OutputMeta) {
	if limit <= 0 || len(output) <= limit {
		return output, nil
	}

	keep := limit - len(truncationMarker)
	if keep < 0 {
		keep = 0
	}

	return truncationMarker + output[len(output)-keep:], &OutputMeta{
		Truncated:    true,
		OriginalSize: len(output),
		TruncatedAt:  limit,
		Reason:       fmt.Sprintf("output exceeded %d bytes limit (kept tail)", limit),
	}
}
