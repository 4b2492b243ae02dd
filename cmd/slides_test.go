package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/agent-research/internal/model"
)

const savedRecord = `{"company_profile":{"official_name":"Acme Corp","established_year":2010},"industry_voice":"声"}`

func TestReadRecord_FileAndStdin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "record.json")
	require.NoError(t, os.WriteFile(path, []byte(savedRecord), 0o600))

	fromFile, err := readRecord(nil, path)
	require.NoError(t, err)
	fromStdin, err := readRecord(strings.NewReader(savedRecord), "-")
	require.NoError(t, err)

	assert.Equal(t, fromFile, fromStdin)
	assert.Equal(t, "声", fromFile[model.KeyIndustryVoice])
}

func TestReadRecord_Errors(t *testing.T) {
	_, err := readRecord(nil, filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = readRecord(strings.NewReader("null"), "-")
	assert.Error(t, err)

	_, err = readRecord(strings.NewReader("[1,2]"), "-")
	assert.Error(t, err)
}

func TestWriteDeckTo(t *testing.T) {
	rec, err := readRecord(strings.NewReader(savedRecord), "-")
	require.NoError(t, err)
	q := model.Query{Target: "Acme Corp", Focus: "automation"}

	var stdout bytes.Buffer
	require.NoError(t, writeDeckTo(&stdout, rec, q, "-"))
	assert.Contains(t, stdout.String(), "Acme Corpの現在地")
	assert.Contains(t, stdout.String(), "設立年: 2010")

	path := filepath.Join(t.TempDir(), "deck.html")
	stdout.Reset()
	require.NoError(t, writeDeckTo(&stdout, rec, q, path))
	assert.Zero(t, stdout.Len())
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "automationの取り組み状況と活用事例")
}
