package migration

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStepsAreIdempotent(t *testing.T) {
	steps := Steps()
	assert.NotEmpty(t, steps)

	seen := make(map[string]bool)
	for _, s := range steps {
		assert.False(t, seen[s.Name], "duplicate step %s", s.Name)
		seen[s.Name] = true
		assert.Contains(t, strings.ToUpper(s.SQL), "IF NOT EXISTS", s.Name)
	}
}

func TestTablesPrecedeIndexes(t *testing.T) {
	lastTable, firstIndex := -1, len(Steps())
	for i, s := range Steps() {
		if strings.Contains(s.SQL, "CREATE TABLE") {
			lastTable = i
		}
		if strings.Contains(s.SQL, "CREATE INDEX") && i < firstIndex {
			firstIndex = i
		}
	}
	assert.Less(t, lastTable, firstIndex)
}

func TestRunnerVersion(t *testing.T) {
	assert.Equal(t, "2.0.0", NewRunner(nil).Version())
}
