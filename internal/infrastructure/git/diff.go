// Package git derives the affected files of a pending change from git.
package git

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/naclports/naclports/internal/application/ports"
)

const maxDiffLine = 1024 * 1024

// ParseDiff reads a unified diff produced with -U0 and returns the files it
// touches together with the lines each one adds, numbered in the new file.
func ParseDiff(r io.Reader) ([]ports.AffectedFile, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxDiffLine)

	var (
		files   []ports.AffectedFile
		current *ports.AffectedFile
		lineNo  int
		inHunk  bool
	)

	flush := func() {
		if current != nil {
			files = append(files, *current)
			current = nil
		}
	}

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "diff --git "):
			flush()
			inHunk = false
			current = &ports.AffectedFile{
				Path:   pathFromHeader(line),
				Action: ports.FileModified,
			}

		case current == nil:
			continue

		case !inHunk && strings.HasPrefix(line, "new file mode"):
			current.Action = ports.FileAdded

		case !inHunk && strings.HasPrefix(line, "deleted file mode"):
			current.Action = ports.FileDeleted

		case !inHunk && strings.HasPrefix(line, "+++ "):
			if p := strings.TrimPrefix(line, "+++ "); p != "/dev/null" {
				current.Path = strings.TrimPrefix(p, "b/")
			}

		case !inHunk && strings.HasPrefix(line, "--- "):
			continue

		case strings.HasPrefix(line, "@@ "):
			start, err := parseHunkStart(line)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", current.Path, err)
			}
			lineNo = start
			inHunk = true

		case inHunk && strings.HasPrefix(line, "+"):
			current.AddedLines = append(current.AddedLines, ports.AddedLine{
				Number: lineNo,
				Text:   line[1:],
			})
			lineNo++

		case inHunk && strings.HasPrefix(line, " "):
			lineNo++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read diff: %w", err)
	}

	flush()
	return files, nil
}

// pathFromHeader extracts the new path from "diff --git a/<old> b/<new>".
func pathFromHeader(line string) string {
	rest := strings.TrimPrefix(line, "diff --git ")
	if i := strings.LastIndex(rest, " b/"); i >= 0 {
		return rest[i+len(" b/"):]
	}
	return strings.TrimPrefix(rest, "a/")
}

// parseHunkStart returns the first new-file line number of a hunk header
// such as "@@ -10,2 +12,3 @@ func main()".
func parseHunkStart(line string) (int, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 || !strings.HasPrefix(fields[2], "+") {
		return 0, fmt.Errorf("malformed hunk header %q", line)
	}

	spec := strings.TrimPrefix(fields[2], "+")
	if i := strings.IndexByte(spec, ','); i >= 0 {
		spec = spec[:i]
	}

	start, err := strconv.Atoi(spec)
	if err != nil {
		return 0, fmt.Errorf("malformed hunk header %q: %w", line, err)
	}
	return start, nil
}
