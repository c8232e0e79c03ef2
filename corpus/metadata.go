package corpus

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	pathColumn  = "path"
	labelColumn = "age"
)

// ErrMetadata marks a metadata file that cannot be used
var ErrMetadata = errors.New("invalid metadata")

// DefaultExcludedLabels are age brackets with too few speakers to train on
var DefaultExcludedLabels = []string{"sixties", "seventies"}

// Clip is one labelled recording listed in the metadata file
type Clip struct {
	Path  string
	Label string
}

// Load reads a tab separated metadata file with at least the path and age
// columns. Rows with an empty or excluded label are dropped.
func Load(filename string, excluded []string) ([]Clip, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata: %w", err)
	}
	defer f.Close()

	clips, err := Read(f, excluded)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return clips, nil
}

// Read parses metadata rows from r. Fields are split on tabs only: sentences
// in the metadata may contain unbalanced quotes, so no CSV quoting applies.
func Read(r io.Reader, excluded []string) ([]Clip, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("%w: reading header: %v", ErrMetadata, err)
		}
		return nil, fmt.Errorf("%w: empty file", ErrMetadata)
	}

	pathIdx, labelIdx := -1, -1
	for i, name := range strings.Split(scanner.Text(), "\t") {
		switch strings.TrimSpace(name) {
		case pathColumn:
			pathIdx = i
		case labelColumn:
			labelIdx = i
		}
	}
	if pathIdx < 0 || labelIdx < 0 {
		return nil, fmt.Errorf("%w: header must contain %q and %q columns", ErrMetadata, pathColumn, labelColumn)
	}

	skip := make(map[string]struct{}, len(excluded))
	for _, l := range excluded {
		skip[l] = struct{}{}
	}

	var clips []Clip
	for scanner.Scan() {
		record := strings.Split(scanner.Text(), "\t")
		if len(record) <= max(pathIdx, labelIdx) {
			continue
		}

		path := strings.TrimSpace(record[pathIdx])
		label := strings.TrimSpace(record[labelIdx])
		if path == "" || label == "" {
			continue
		}
		if _, ok := skip[label]; ok {
			continue
		}
		clips = append(clips, Clip{Path: path, Label: label})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMetadata, err)
	}

	return clips, nil
}
