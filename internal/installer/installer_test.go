package installer

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/tblx/tblx-ui/internal/errors"
	"github.com/tblx/tblx-ui/internal/output"
	"github.com/tblx/tblx-ui/internal/registry"
)

// fixture is a small registry: A depends on B and C, B depends on C.
func fixture(t *testing.T) (*registry.Catalog, billy.Filesystem) {
	t.Helper()

	src := memfs.New()
	files := map[string]string{
		"registry/ui/a.ts":          "export const a = 1\n",
		"registry/ui/b.ts":          "export const b = 2\n",
		"registry/ui/c.ts":          "export const c = 3\n",
		"registry/styles/b.css":     ".b { color: red; }\n",
		"registry/styles/base.css":  ":root { --gap: 4px; }\n",
		"registry/styles/theme.css": ":root { --fg: #111; }\n",
	}
	for name, content := range files {
		require.NoError(t, util.WriteFile(src, name, []byte(content), 0o644))
	}

	cat := &registry.Catalog{
		Components: map[string]*registry.Component{
			"A": {Name: "A", Files: []string{"registry/ui/a.ts"}, Dependencies: []string{"B", "C"}},
			"B": {Name: "B", Files: []string{"registry/ui/b.ts"}, Dependencies: []string{"C"}, Styles: []string{"registry/styles/b.css"}},
			"C": {Name: "C", Files: []string{"registry/ui/c.ts"}},
		},
		BaseStyles: []string{"registry/styles/base.css", "registry/styles/theme.css"},
		Prefix:     registry.DefaultPrefix,
	}
	return cat, src
}

func ordered(cat *registry.Catalog, names ...string) []*registry.Component {
	comps := make([]*registry.Component, len(names))
	for i, n := range names {
		comps[i] = cat.Components[n]
	}
	return comps
}

func testLogger(buf *bytes.Buffer) *log.Logger {
	return log.NewWithOptions(buf, log.Options{Level: log.DebugLevel})
}

func dests(files []File) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Dest
	}
	return out
}

func readTarget(t *testing.T, fs billy.Filesystem, name string) string {
	t.Helper()
	data, err := util.ReadFile(fs, name)
	require.NoError(t, err)
	return string(data)
}

func TestRebase(t *testing.T) {
	tests := []struct {
		prefix string
		source string
		want   string
	}{
		{"registry", "registry/ui/Table.tsx", "ui/Table.tsx"},
		{"registry", "registry/styles/base.css", "styles/base.css"},
		{"registry", "./registry/ui/Pager.tsx", "ui/Pager.tsx"},
		{"registry", "other/ui/Pager.tsx", "other/ui/Pager.tsx"},
		{"registry", "registryx/ui/Pager.tsx", "registryx/ui/Pager.tsx"},
		{"src/registry", "src/registry/ui/Cards.tsx", "ui/Cards.tsx"},
		{"", "registry/ui/Cards.tsx", "registry/ui/Cards.tsx"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			assert.Equal(t, tt.want, Rebase(tt.prefix, tt.source))
		})
	}
}

func TestFiles_Order(t *testing.T) {
	cat, _ := fixture(t)

	files := Files(cat, ordered(cat, "C", "B", "A"), true)

	assert.Equal(t, []string{
		"styles/base.css",
		"styles/theme.css",
		"ui/c.ts",
		"ui/b.ts",
		"styles/b.css",
		"ui/a.ts",
	}, dests(files))
	assert.Equal(t, BaseStylesName, files[0].Component)
	assert.Equal(t, "B", files[4].Component)
}

func TestFiles_WithoutBase(t *testing.T) {
	cat, _ := fixture(t)

	files := Files(cat, ordered(cat, "C"), false)
	assert.Equal(t, []string{"ui/c.ts"}, dests(files))
}

func TestInstall_CopiesDependenciesFirst(t *testing.T) {
	cat, src := fixture(t)
	target := memfs.New()
	var logs bytes.Buffer

	inst := New(src, target, WithLogger(testLogger(&logs)))
	result, err := inst.Install(cat, ordered(cat, "B", "A"), false)
	require.NoError(t, err)

	assert.Equal(t, []string{"ui/b.ts", "styles/b.css", "ui/a.ts"}, dests(result.Files))
	assert.Equal(t, "export const a = 1\n", readTarget(t, target, "ui/a.ts"))
	assert.Equal(t, ".b { color: red; }\n", readTarget(t, target, "styles/b.css"))

	out := logs.String()
	assert.Less(t, strings.Index(out, "registry/ui/b.ts"), strings.Index(out, "registry/ui/a.ts"), "b.ts is copied before a.ts")
	assert.Equal(t, 2, strings.Count(out, "adding"), "one start line per component")
	assert.Equal(t, 3, strings.Count(out, "→"), "one progress line per file")
}

func TestInstall_BaseStylesFirst(t *testing.T) {
	cat, src := fixture(t)
	target := memfs.New()

	inst := New(src, target, WithLogger(testLogger(&bytes.Buffer{})))
	result, err := inst.Install(cat, ordered(cat, "C"), true)
	require.NoError(t, err)

	assert.Equal(t, []string{"styles/base.css", "styles/theme.css", "ui/c.ts"}, dests(result.Files))
	assert.Equal(t, ":root { --gap: 4px; }\n", readTarget(t, target, "styles/base.css"))
}

func TestInstall_Statuses(t *testing.T) {
	cat, src := fixture(t)
	target := memfs.New()
	require.NoError(t, util.WriteFile(target, "ui/c.ts", []byte("stale\n"), 0o644))

	inst := New(src, target, WithLogger(testLogger(&bytes.Buffer{})))
	result, err := inst.Install(cat, ordered(cat, "C", "B"), false)
	require.NoError(t, err)

	assert.Equal(t, output.StatusOverwritten, result.Files[0].Status)
	assert.Equal(t, output.StatusCreated, result.Files[1].Status)
	assert.Equal(t, "export const c = 3\n", readTarget(t, target, "ui/c.ts"), "existing files are overwritten")
}

func TestInstall_Idempotent(t *testing.T) {
	cat, src := fixture(t)
	target := memfs.New()
	comps := ordered(cat, "C", "B", "A")

	inst := New(src, target, WithLogger(testLogger(&bytes.Buffer{})))
	_, err := inst.Install(cat, comps, true)
	require.NoError(t, err)

	snapshot := map[string]string{}
	for _, f := range Files(cat, comps, true) {
		snapshot[f.Dest] = readTarget(t, target, f.Dest)
	}

	_, err = inst.Install(cat, comps, true)
	require.NoError(t, err)

	for dest, content := range snapshot {
		assert.Equal(t, content, readTarget(t, target, dest), dest)
	}

	plan, err := inst.Plan(cat, comps, true)
	require.NoError(t, err)
	for _, f := range plan {
		assert.Equal(t, output.StatusUnchanged, f.Status, f.Dest)
	}
}

func TestInstall_MissingSourceStopsRun(t *testing.T) {
	cat, src := fixture(t)
	cat.Components["B"].Files = []string{"registry/ui/missing.ts"}
	target := memfs.New()

	inst := New(src, target, WithLogger(testLogger(&bytes.Buffer{})))
	result, err := inst.Install(cat, ordered(cat, "C", "B", "A"), false)
	require.Error(t, err)

	var failed *oerrors.InstallFailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, "registry/ui/missing.ts", failed.Source)
	assert.ErrorIs(t, err, oerrors.ErrInstallFailed)
	assert.ErrorIs(t, err, os.ErrNotExist)

	// Files copied before the failure stay; later ones are never attempted.
	assert.Equal(t, []string{"ui/c.ts"}, dests(result.Files))
	_, statErr := target.Stat("ui/c.ts")
	assert.NoError(t, statErr)
	_, statErr = target.Stat("ui/a.ts")
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestInstall_UnwritableDestination(t *testing.T) {
	cat, src := fixture(t)
	dir := t.TempDir()
	// A regular file where the ui directory must go.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ui"), []byte("x"), 0o644))

	inst := New(src, osfs.New(dir), WithLogger(testLogger(&bytes.Buffer{})))
	_, err := inst.Install(cat, ordered(cat, "C"), false)

	var failed *oerrors.InstallFailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, filepath.Join(dir, "ui", "c.ts"), failed.Dest)
}

func TestInstall_OSFilesystems(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "registry", "ui"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "registry", "ui", "Pager.tsx"), []byte("pager"), 0o644))

	cat := &registry.Catalog{
		Components: map[string]*registry.Component{
			"Pager": {Name: "Pager", Files: []string{"registry/ui/Pager.tsx"}},
		},
		Prefix: registry.DefaultPrefix,
	}

	out := filepath.Join(t.TempDir(), "src", "components", "tblx")
	inst := New(osfs.New(root), osfs.New(out), WithLogger(testLogger(&bytes.Buffer{})))
	_, err := inst.Install(cat, ordered(cat, "Pager"), false)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(out, "ui", "Pager.tsx"))
	require.NoError(t, err)
	assert.Equal(t, "pager", string(data))
}

func TestInstall_TargetOverlapsRegistry(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "registry", "ui"), 0o755))
	pagerPath := filepath.Join(root, "registry", "ui", "Pager.tsx")
	require.NoError(t, os.WriteFile(pagerPath, []byte("export function Pager() {}\n"), 0o644))

	cat := &registry.Catalog{
		Components: map[string]*registry.Component{
			"Pager": {Name: "Pager", Files: []string{"registry/ui/Pager.tsx"}},
		},
		Prefix: registry.DefaultPrefix,
	}

	// ui/Pager.tsx under <root>/registry is the source file itself.
	inst := New(osfs.New(root), osfs.New(filepath.Join(root, "registry")), WithLogger(testLogger(&bytes.Buffer{})))
	result, err := inst.Install(cat, ordered(cat, "Pager"), false)
	require.NoError(t, err)

	require.Len(t, result.Files, 1)
	assert.Equal(t, output.StatusUnchanged, result.Files[0].Status)

	data, err := os.ReadFile(pagerPath)
	require.NoError(t, err)
	assert.Equal(t, "export function Pager() {}\n", string(data))
}

func TestPlan_DoesNotWrite(t *testing.T) {
	cat, src := fixture(t)
	target := memfs.New()
	require.NoError(t, util.WriteFile(target, "ui/b.ts", []byte("export const b = 2\n"), 0o644))
	require.NoError(t, util.WriteFile(target, "ui/a.ts", []byte("old\n"), 0o644))

	inst := New(src, target, WithLogger(testLogger(&bytes.Buffer{})))
	plan, err := inst.Plan(cat, ordered(cat, "C", "B", "A"), false)
	require.NoError(t, err)

	statuses := map[string]string{}
	for _, f := range plan {
		statuses[f.Dest] = f.Status
	}
	assert.Equal(t, map[string]string{
		"ui/c.ts":      output.StatusCreated,
		"ui/b.ts":      output.StatusUnchanged,
		"styles/b.css": output.StatusCreated,
		"ui/a.ts":      output.StatusOverwritten,
	}, statuses)

	_, err = target.Stat("ui/c.ts")
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, "old\n", readTarget(t, target, "ui/a.ts"))
}

func TestPlan_MissingSource(t *testing.T) {
	cat, src := fixture(t)
	cat.Components["C"].Files = []string{"registry/ui/gone.ts"}

	_, err := New(src, memfs.New()).Plan(cat, ordered(cat, "C"), false)
	assert.ErrorIs(t, err, oerrors.ErrInstallFailed)
}

func TestDiff(t *testing.T) {
	cat, src := fixture(t)
	target := memfs.New()
	require.NoError(t, util.WriteFile(target, "ui/a.ts", []byte("export const a = 0\n"), 0o644))
	inst := New(src, target, WithLogger(testLogger(&bytes.Buffer{})))

	files := Files(cat, ordered(cat, "C", "A"), false)

	diff, err := inst.Diff(files[0], output.NewDiffStyles(false))
	require.NoError(t, err)
	assert.Empty(t, diff, "files not yet installed have no diff")

	diff, err = inst.Diff(files[1], output.NewDiffStyles(false))
	require.NoError(t, err)
	assert.Contains(t, diff, "-export const a = 0")
	assert.Contains(t, diff, "+export const a = 1")
}
