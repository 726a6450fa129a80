package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abgdnv/catalog/internal/product/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type runResult struct {
	code   int
	stdout string
	stderr string
}

// runIn runs the command with configuration files pointing into dir.
func runIn(t *testing.T, dir, stdin string, args ...string) runResult {
	t.Helper()
	var out, errOut bytes.Buffer
	base := []string{
		"-config", filepath.Join(dir, "config.yaml"),
		"-env", filepath.Join(dir, ".env"),
		"-log-level", "error",
	}
	code := run(context.Background(), append(base, args...), strings.NewReader(stdin), &out, &errOut)
	return runResult{code: code, stdout: out.String(), stderr: errOut.String()}
}

func Test_Run_Commands(t *testing.T) {
	// given
	dir := t.TempDir()
	productFile := filepath.Join(dir, "data", "products.json")

	// when
	res := runIn(t, dir, "", "-file", productFile, "add",
		`{"title":"P1","description":"D1","price":200,"code":"abc123","stock":25,"thumbnails":"img1"}`)

	// then
	require.Equal(t, handler.ExitOK, res.code, res.stderr)
	var created map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &created))
	assert.Equal(t, 1.0, created["id"])

	res = runIn(t, dir, "", "-file", productFile, "add",
		`{"title":"P1","description":"D1","price":200,"code":"abc123","stock":25,"thumbnails":"img1"}`)
	assert.Equal(t, handler.ExitDuplicateCode, res.code)

	res = runIn(t, dir, "", "-file", productFile, "get", "1")
	assert.Equal(t, handler.ExitOK, res.code)
	assert.JSONEq(t, `{"id":1,"title":"P1","description":"D1","code":"abc123","price":200,"stock":25,"thumbnails":"img1"}`, res.stdout)

	res = runIn(t, dir, "", "-file", productFile, "delete", "1")
	assert.Equal(t, handler.ExitOK, res.code)

	res = runIn(t, dir, "", "-file", productFile, "get", "1")
	assert.Equal(t, handler.ExitNotFound, res.code)
}

func Test_Run_ConfigFromYAML(t *testing.T) {
	// given
	dir := t.TempDir()
	productFile := filepath.Join(dir, "products.json")
	metricsFile := filepath.Join(dir, "catalog.prom")
	yaml := "store:\n  path: " + productFile + "\nmetrics:\n  textfile: " + metricsFile + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	// when
	res := runIn(t, dir, "", "list")

	// then
	require.Equal(t, handler.ExitOK, res.code, res.stderr)
	assert.JSONEq(t, `[]`, res.stdout)
	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `catalog_operations_total{operation="list",outcome="ok"} 1`)
}

func Test_Run_Failures(t *testing.T) {
	testCases := []struct {
		name         string
		setup        func(t *testing.T, dir string) []string
		expectedCode int
	}{
		{
			name:         "unknown flag",
			setup:        func(t *testing.T, dir string) []string { return []string{"-verbose", "list"} },
			expectedCode: handler.ExitUsage,
		},
		{
			name: "invalid configuration",
			setup: func(t *testing.T, dir string) []string {
				return []string{"-file", filepath.Join(dir, "p.json"), "-log-level", "loud", "list"}
			},
			expectedCode: handler.ExitUsage,
		},
		{
			name:         "missing command",
			setup:        func(t *testing.T, dir string) []string { return []string{"-file", filepath.Join(dir, "p.json")} },
			expectedCode: handler.ExitUsage,
		},
		{
			name: "malformed product file",
			setup: func(t *testing.T, dir string) []string {
				path := filepath.Join(dir, "p.json")
				require.NoError(t, os.WriteFile(path, []byte(`{"not":"an array"`), 0o644))
				return []string{"-file", path, "list"}
			},
			expectedCode: handler.ExitStorage,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			dir := t.TempDir()
			args := tc.setup(t, dir)
			// when
			res := runIn(t, dir, "", args...)
			// then
			assert.Equal(t, tc.expectedCode, res.code)
			assert.Empty(t, res.stdout)
		})
	}
}
