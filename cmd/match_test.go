package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"relation-matcher/core/config"
	"relation-matcher/core/database"
	"relation-matcher/core/engine"
	"relation-matcher/core/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Log:   logger.Config{Level: "error", Format: "json"},
		Match: engine.MatchConfig{Parallel: true},
	}
}

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRunMatch_FileSource(t *testing.T) {
	dir := t.TempDir()
	flags := matchFlags{
		elements:    writeTemp(t, dir, "comments.yaml", "- {id: 1, article_id: 10}\n- {id: 2, article_id: 30}\n"),
		elementKey:  "article_id",
		data:        writeTemp(t, dir, "articles.json", `[{"id": 10, "title": "A"}]`),
		dataKey:     "id",
		as:          "article",
		cardinality: "one-to-one",
		source:      sourceFile,
		format:      "json",
	}

	var out bytes.Buffer
	require.NoError(t, runMatch(context.Background(), testConfig(), flags, &out))

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "A", rows[0]["article"].(map[string]any)["title"])

	flags.includeUnmatched = true
	out.Reset()
	require.NoError(t, runMatch(context.Background(), testConfig(), flags, &out))
	require.NoError(t, json.Unmarshal(out.Bytes(), &rows))
	assert.Len(t, rows, 2)
	assert.Nil(t, rows[1]["article"])
}

func TestRunMatch_DBSource(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "records.db")

	db, err := database.Connect(database.Config{Driver: "sqlite", Name: dbPath})
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE TABLE replies (id INTEGER PRIMARY KEY, comment_id INTEGER, body TEXT)").Error)
	require.NoError(t, db.Exec("INSERT INTO replies (id, comment_id, body) VALUES (1, 1, 'x'), (2, 1, 'y'), (3, 2, 'z')").Error)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	cfg := testConfig()
	cfg.Database = database.Config{Driver: "sqlite", Name: dbPath}

	flags := matchFlags{
		elements:    writeTemp(t, dir, "comments.yaml", "- id: 1\n- id: 2\n- id: 3\n"),
		elementKey:  "id",
		dataKey:     "comment_id",
		as:          "replies",
		cardinality: "one-to-many",
		source:      sourceDB,
		table:       "replies",
		format:      "yaml",
	}

	var out bytes.Buffer
	require.NoError(t, runMatch(context.Background(), cfg, flags, &out))
	assert.Contains(t, out.String(), "body: x")
	assert.Contains(t, out.String(), "body: z")

	flags.dataKey = "missing"
	err = runMatch(context.Background(), cfg, flags, &out)
	assert.ErrorContains(t, err, "has no column missing")
}

func TestRunMatch_InvalidInput(t *testing.T) {
	dir := t.TempDir()
	elements := writeTemp(t, dir, "e.yaml", "- id: 1\n")

	tests := []struct {
		name  string
		flags matchFlags
		want  string
	}{
		{
			name:  "Unknown cardinality",
			flags: matchFlags{elements: elements, elementKey: "id", dataKey: "id", cardinality: "sideways", source: sourceFile},
			want:  "unknown cardinality",
		},
		{
			name:  "Bad where",
			flags: matchFlags{elements: elements, elementKey: "id", dataKey: "id", cardinality: "one-to-one", where: []string{"status"}},
			want:  "invalid --where",
		},
		{
			name:  "Missing data file",
			flags: matchFlags{elements: elements, elementKey: "id", dataKey: "id", cardinality: "one-to-one", source: sourceFile},
			want:  "--data is required",
		},
		{
			name:  "Missing table",
			flags: matchFlags{elements: elements, elementKey: "id", dataKey: "id", cardinality: "one-to-one", source: sourceDB},
			want:  "--table is required",
		},
		{
			name:  "Unknown source",
			flags: matchFlags{elements: elements, elementKey: "id", dataKey: "id", cardinality: "one-to-one", source: "ftp"},
			want:  "unknown source",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runMatch(context.Background(), testConfig(), tt.flags, &bytes.Buffer{})
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestParseWhere(t *testing.T) {
	got, err := parseWhere([]string{"status=published", "lang=en=us"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"status": "published", "lang": "en=us"}, got)

	got, err = parseWhere(nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}
