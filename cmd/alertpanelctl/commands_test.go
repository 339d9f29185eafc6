package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/platformbuilds/mirador-alert-panel/internal/models"
)

// 2024-05-01T12:00:00Z
const nowMs = "1714564800000"

const framesJSON = `[
  {"fields": [
    {"name": "metric_name", "values": ["DiskFull"]},
    {"name": "severity", "values": [3]},
    {"name": "alert_timestamp", "values": [1714564740000]},
    {"name": "Time", "values": [1714564740000]},
    {"name": "tags", "values": ["env:prod|team:sre"]}
  ]},
  {"fields": [
    {"name": "metric_name", "values": ["CPUHigh"]},
    {"name": "severity", "values": [1]},
    {"name": "alert_timestamp", "values": [1714564680000]},
    {"name": "Time", "values": [1714564680000]}
  ]}
]`

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func decodeRows(t *testing.T, out string) []models.AlertRow {
	t.Helper()
	var rows []models.AlertRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows), out)
	return rows
}

func TestRender_FromStdin(t *testing.T) {
	out, err := execute(t, framesJSON, "render", "--now", nowMs)
	require.NoError(t, err)

	rows := decodeRows(t, out)
	require.Len(t, rows, 2)
	assert.Equal(t, "DiskFull", rows[0].Name, "newest alert first")
	assert.Equal(t, "for 1 minute", rows[0].TimeText)
	assert.Equal(t, "CPUHigh", rows[1].Name)
	assert.Equal(t, "for 2 minutes", rows[1].TimeText)
}

func TestRender_FlagsOverrideOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frames.json")
	request := `{"frames": ` + framesJSON + `, "options": {"sort": "alert_time", "hide_tags": true}}`
	require.NoError(t, os.WriteFile(path, []byte(request), 0o600))

	out, err := execute(t, "", "render", "-f", path, "--now", nowMs, "--sort", "priority", "--exclude", "team")
	require.NoError(t, err)

	rows := decodeRows(t, out)
	require.Len(t, rows, 2)
	assert.Equal(t, "CPUHigh", rows[0].Name, "priority sort puts severity 1 first")
	assert.Empty(t, rows[1].Tags, "hide_tags from the request still applies")
}

func TestRender_YAMLOutput(t *testing.T) {
	out, err := execute(t, framesJSON, "render", "--now", nowMs, "-o", "yaml", "--exclude", "team")
	require.NoError(t, err)

	var rows []map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "DiskFull", rows[0]["name"])
	tags := rows[0]["tags"].([]interface{})
	require.Len(t, tags, 1)
	assert.Equal(t, "env:prod", tags[0].(map[string]interface{})["text"])
}

func TestRender_EmptyInputIsAllClear(t *testing.T) {
	out, err := execute(t, "", "render")
	require.NoError(t, err)

	rows := decodeRows(t, out)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].AllClear)
}

func TestRender_Errors(t *testing.T) {
	_, err := execute(t, framesJSON, "render", "--sort", "sideways")
	assert.ErrorContains(t, err, "unknown sort mode")

	_, err = execute(t, framesJSON, "render", "-o", "xml")
	assert.ErrorContains(t, err, "unsupported output format")

	_, err = execute(t, "[{", "render")
	assert.ErrorContains(t, err, "decode frames")

	_, err = execute(t, "", "render", "-f", filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "read frames")
}

func TestColor(t *testing.T) {
	out, err := execute(t, "", "color", "env:prod", "ENV:PROD")
	require.NoError(t, err)
	assert.Equal(t, "env:prod\tfill=#B240A2\tborder=#E069CF\nENV:PROD\tfill=#B240A2\tborder=#E069CF\n", out)

	out, err = execute(t, "", "color", "-o", "json", "team:sre")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"tag":"team:sre","fill":"#AE561A","border":"#FF9B53"}]`, out)
}

func TestHumanize(t *testing.T) {
	out, err := execute(t, "", "humanize", "93784000")
	require.NoError(t, err)
	assert.Equal(t, "1 day\n", out)

	_, err = execute(t, "", "humanize", "soon")
	assert.ErrorContains(t, err, "invalid duration")
}

func TestBench(t *testing.T) {
	out, err := execute(t, framesJSON, "bench", "--renders", "20", "--duration", "0", "--workers", "2")
	require.NoError(t, err)

	var res struct {
		TotalRenders int64 `json:"total_renders"`
		RowsRendered int64 `json:"rows_rendered"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res), out)
	assert.Equal(t, int64(20), res.TotalRenders)
	assert.Equal(t, int64(40), res.RowsRendered)
}
