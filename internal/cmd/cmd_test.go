package cmd

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tblx/tblx-ui/internal/config"
	"github.com/tblx/tblx-ui/internal/testutil"
)

const testManifest = `{
  "name": "tblx-ui",
  "version": "0.1.0",
  "baseStyles": ["registry/styles/base.css"],
  "components": {
    "Table": {
      "description": "Data table with sortable columns",
      "files": ["registry/ui/Table.tsx"],
      "dependencies": ["Pager"],
      "styles": ["registry/styles/table.css"]
    },
    "Pager": {
      "description": "Pagination controls",
      "files": ["registry/ui/Pager.tsx"]
    },
    "Broken": {
      "description": "Depends on a component the registry lacks",
      "files": ["registry/ui/Broken.tsx"],
      "dependencies": ["Ghost"]
    }
  }
}
`

var testSources = map[string]string{
	"registry/styles/base.css":  ":root { --tblx-gap: 4px; }\n",
	"registry/styles/table.css": ".tblx-table { width: 100%; }\n",
	"registry/ui/Table.tsx":     "export function Table() {\n  return null;\n}\n",
	"registry/ui/Pager.tsx":     "export function Pager() {\n  return null;\n}\n",
	"registry/ui/Broken.tsx":    "export function Broken() {}\n",
}

// isolateEnv clears TBLX_* variables and HOME so the developer's own config
// cannot leak into a test.
func isolateEnv(t *testing.T) {
	t.Helper()
	testutil.ClearEnv(t, config.EnvConfig, config.EnvRegistry, config.EnvPrefix, config.EnvDir)
}

func writeRegistry(t *testing.T, manifest string, sources map[string]string) string {
	t.Helper()
	return testutil.WriteRegistry(t, manifest, sources)
}

// executeCmd runs the root command in-process and returns captured stdout
// and stderr (which also receives log output).
func executeCmd(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer

	root := NewRootCmd()
	root.SetArgs(append([]string{"--timestamps=false"}, args...))
	root.SetOut(&stdout)
	root.SetErr(&stderr)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
