package dump

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ExclusionSet is the loaded list of table names whose row data is omitted
// from slim dumps. Their schema is always retained. The set is read-only
// during a pipeline run.
type ExclusionSet struct {
	tables []string
	index  map[string]struct{}
}

// NewExclusionSet builds a set from the given table names.
func NewExclusionSet(tables ...string) *ExclusionSet {
	s := &ExclusionSet{index: make(map[string]struct{}, len(tables))}
	for _, t := range tables {
		s.tables = append(s.tables, t)
		s.index[t] = struct{}{}
	}
	return s
}

// LoadExclusions reads the line-oriented exclusion artifact: blank lines and
// lines beginning with '#' are discarded, the rest are trimmed and used
// verbatim as table names. A missing file is not an error and yields an
// empty set, in which case slim dumps behave like full dumps. An empty path
// likewise yields an empty set.
func LoadExclusions(path string) (*ExclusionSet, error) {
	if path == "" {
		return NewExclusionSet(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewExclusionSet(), nil
		}
		return nil, fmt.Errorf("failed to read exclusions file: %w", err)
	}
	defer f.Close()

	var tables []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tables = append(tables, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read exclusions file: %w", err)
	}

	return NewExclusionSet(tables...), nil
}

// Contains reports whether the named table is excluded from data export.
func (s *ExclusionSet) Contains(table string) bool {
	_, ok := s.index[table]
	return ok
}

// Tables returns the table names in load order.
func (s *ExclusionSet) Tables() []string {
	return s.tables
}

// Len returns the number of excluded tables.
func (s *ExclusionSet) Len() int {
	return len(s.tables)
}
