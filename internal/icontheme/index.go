package icontheme

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const themeSection = "Icon Theme"

type dirType int

const (
	dirThreshold dirType = iota
	dirFixed
	dirScalable
)

// directory is one icon subdirectory declared by index.theme.
type directory struct {
	path      string
	size      int
	scale     int
	kind      dirType
	minSize   int
	maxSize   int
	threshold int
}

type indexFile struct {
	name        string
	inherits    []string
	directories []directory
}

// desktopFile maps section names to their keys. Locale-suffixed keys are kept
// verbatim and the last occurrence of a key wins.
type desktopFile map[string]map[string]string

func parseDesktopFile(r io.Reader) (desktopFile, error) {
	out := desktopFile{}
	var section map[string]string
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			if !strings.HasSuffix(line, "]") {
				return nil, fmt.Errorf("line %d: unterminated section header", lineNo)
			}
			name := strings.TrimSpace(line[1 : len(line)-1])
			section = out[name]
			if section == nil {
				section = map[string]string{}
				out[name] = section
			}
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("line %d: expected key=value", lineNo)
		}
		if section == nil {
			return nil, fmt.Errorf("line %d: key outside of a section", lineNo)
		}
		section[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func readIndexFile(path string) (*indexFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	parsed, err := parseDesktopFile(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	header, ok := parsed[themeSection]
	if !ok {
		return nil, fmt.Errorf("parse %s: missing [%s] section", path, themeSection)
	}

	idx := &indexFile{
		name:     header["Name"],
		inherits: splitList(header["Inherits"]),
	}
	seen := map[string]struct{}{}
	for _, dir := range append(splitList(header["Directories"]), splitList(header["ScaledDirectories"])...) {
		if _, dup := seen[dir]; dup {
			continue
		}
		seen[dir] = struct{}{}
		section, ok := parsed[dir]
		if !ok {
			continue
		}
		d, ok := parseDirectory(dir, section)
		if !ok {
			continue
		}
		idx.directories = append(idx.directories, d)
	}
	return idx, nil
}

// parseDirectory applies the icon theme defaults: Type Threshold, Scale 1,
// MinSize/MaxSize equal to Size and Threshold 2. Directories without a valid
// Size are skipped.
func parseDirectory(path string, section map[string]string) (directory, bool) {
	size, err := strconv.Atoi(section["Size"])
	if err != nil || size <= 0 {
		return directory{}, false
	}
	d := directory{
		path:      path,
		size:      size,
		scale:     intOr(section["Scale"], 1),
		minSize:   intOr(section["MinSize"], size),
		maxSize:   intOr(section["MaxSize"], size),
		threshold: intOr(section["Threshold"], 2),
	}
	switch strings.ToLower(section["Type"]) {
	case "fixed":
		d.kind = dirFixed
	case "scalable":
		d.kind = dirScalable
	default:
		d.kind = dirThreshold
	}
	return d, true
}

func (d directory) matchesSize(size, scale int) bool {
	if d.scale != scale {
		return false
	}
	switch d.kind {
	case dirFixed:
		return d.size == size
	case dirScalable:
		return d.minSize <= size && size <= d.maxSize
	default:
		return d.size-d.threshold <= size && size <= d.size+d.threshold
	}
}

func (d directory) sizeDistance(size, scale int) int {
	want := size * scale
	switch d.kind {
	case dirFixed:
		return abs(d.size*d.scale - want)
	case dirScalable:
		return rangeDistance(d.minSize*d.scale, d.maxSize*d.scale, want)
	default:
		return rangeDistance((d.size-d.threshold)*d.scale, (d.size+d.threshold)*d.scale, want)
	}
}

func rangeDistance(lo, hi, v int) int {
	switch {
	case v < lo:
		return lo - v
	case v > hi:
		return v - hi
	default:
		return 0
	}
}

func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func intOr(value string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
