// Package installer copies resolved registry components from the registry
// source tree into a consumer's project tree.
package installer

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	oerrors "github.com/tblx/tblx-ui/internal/errors"
	"github.com/tblx/tblx-ui/internal/output"
	"github.com/tblx/tblx-ui/internal/registry"
)

// BaseStylesName labels base style files in plans and progress output.
const BaseStylesName = "base styles"

// File is one (source, destination) pair of an installation.
type File struct {
	// Component is the owning component, or BaseStylesName.
	Component string

	// Source is the manifest path, relative to the registry source tree.
	Source string

	// Dest is Source rebased under the target tree.
	Dest string

	// Status is one of output.StatusCreated, StatusOverwritten, StatusUnchanged.
	// Empty until the file has been planned or installed.
	Status string
}

// Result lists the files written by Install, in copy order.
type Result struct {
	Files []File
}

// Installer copies files between two filesystems. Source is rooted at the
// directory holding the manifest; target is rooted at the install directory.
type Installer struct {
	source billy.Filesystem
	target billy.Filesystem
	logger *log.Logger
}

// Option configures an Installer.
type Option func(*Installer)

// WithLogger sets the logger used for progress lines.
func WithLogger(l *log.Logger) Option {
	return func(i *Installer) {
		i.logger = l
	}
}

// New creates an Installer. Progress goes to output.Logger() unless
// WithLogger is given.
func New(source, target billy.Filesystem, opts ...Option) *Installer {
	i := &Installer{
		source: source,
		target: target,
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.logger == nil {
		i.logger = output.Logger()
	}
	return i
}

// Rebase strips the leading prefix segment from a manifest path, giving the
// path relative to the install directory. Paths outside prefix are kept.
func Rebase(prefix, source string) string {
	p := path.Clean(filepath.ToSlash(source))
	if prefix != "" {
		if rest, ok := strings.CutPrefix(p, prefix+"/"); ok {
			return rest
		}
	}
	return p
}

// Files returns the ordered copy list: base styles first when withBase is
// set, then each component's files followed by its styles.
func Files(catalog *registry.Catalog, comps []*registry.Component, withBase bool) []File {
	var files []File
	if withBase {
		files = append(files, rebaseAll(catalog.Prefix, BaseStylesName, catalog.BaseStyles)...)
	}
	for _, c := range comps {
		files = append(files, componentFiles(catalog.Prefix, c)...)
	}
	return files
}

func componentFiles(prefix string, c *registry.Component) []File {
	return append(rebaseAll(prefix, c.Name, c.Files), rebaseAll(prefix, c.Name, c.Styles)...)
}

func rebaseAll(prefix, component string, sources []string) []File {
	files := make([]File, 0, len(sources))
	for _, src := range sources {
		files = append(files, File{
			Component: component,
			Source:    src,
			Dest:      Rebase(prefix, src),
		})
	}
	return files
}

// Plan returns the copy list with each file's status, without writing.
func (i *Installer) Plan(catalog *registry.Catalog, comps []*registry.Component, withBase bool) ([]File, error) {
	files := Files(catalog, comps, withBase)
	for idx := range files {
		status, err := i.status(files[idx])
		if err != nil {
			return nil, i.failed(files[idx], err)
		}
		files[idx].Status = status
	}
	return files, nil
}

// Install copies every file of the plan into the target tree, overwriting
// existing files. The first failure stops the run; files already copied are
// left in place and listed in the returned Result.
func (i *Installer) Install(catalog *registry.Catalog, comps []*registry.Component, withBase bool) (*Result, error) {
	result := &Result{}

	if withBase {
		files := rebaseAll(catalog.Prefix, BaseStylesName, catalog.BaseStyles)
		if err := i.installGroup(BaseStylesName, files, result); err != nil {
			return result, err
		}
	}

	for _, c := range comps {
		if err := i.installGroup(c.Name, componentFiles(catalog.Prefix, c), result); err != nil {
			return result, err
		}
	}

	return result, nil
}

// installGroup copies the files of one component, logging a start line and
// one line per copied file.
func (i *Installer) installGroup(name string, files []File, result *Result) error {
	scoped := output.ScopedLogger(i.logger, name)
	scoped.Info(output.StyleAction.Render("adding"), "files", len(files))

	for _, f := range files {
		status, err := i.copy(f)
		if err != nil {
			return i.failed(f, err)
		}
		f.Status = status
		result.Files = append(result.Files, f)

		scoped.Info(output.FormatCopy(f.Source, i.display(f.Dest)))
	}
	return nil
}

// Diff renders a line diff between the installed copy of f and the registry
// copy. It returns an empty string when the file is absent or identical.
func (i *Installer) Diff(f File, styles output.DiffStyles) (string, error) {
	incoming, err := util.ReadFile(i.source, filepath.FromSlash(f.Source))
	if err != nil {
		return "", i.failed(f, err)
	}

	current, err := util.ReadFile(i.target, filepath.FromSlash(f.Dest))
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", i.failed(f, err)
	}

	return output.RenderTextDiff(i.display(f.Dest), current, incoming, styles), nil
}

// status compares the source with the current destination content.
func (i *Installer) status(f File) (string, error) {
	incoming, err := util.ReadFile(i.source, filepath.FromSlash(f.Source))
	if err != nil {
		return "", err
	}

	current, err := util.ReadFile(i.target, filepath.FromSlash(f.Dest))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return output.StatusCreated, nil
	case err != nil:
		return "", err
	case bytes.Equal(current, incoming):
		return output.StatusUnchanged, nil
	default:
		return output.StatusOverwritten, nil
	}
}

// copy writes the source bytes to the destination, creating parent
// directories. Returns the status the destination had before the write.
// A destination that is the source file itself is left alone.
func (i *Installer) copy(f File) (string, error) {
	src, err := i.source.Open(filepath.FromSlash(f.Source))
	if err != nil {
		return "", err
	}
	defer src.Close()

	dest := filepath.FromSlash(f.Dest)

	status := output.StatusOverwritten
	destInfo, err := i.target.Stat(dest)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		status = output.StatusCreated
	case err != nil:
		return "", err
	default:
		// Truncating the destination would empty the source when the target
		// tree overlaps the registry tree.
		srcInfo, err := i.source.Stat(filepath.FromSlash(f.Source))
		if err != nil {
			return "", err
		}
		if os.SameFile(srcInfo, destInfo) {
			return output.StatusUnchanged, nil
		}
	}

	if dir := filepath.Dir(dest); dir != "." {
		if err := i.target.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
	}

	dst, err := i.target.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return "", err
	}
	if err := dst.Close(); err != nil {
		return "", err
	}

	return status, nil
}

func (i *Installer) failed(f File, cause error) error {
	return &oerrors.InstallFailedError{
		Source: f.Source,
		Dest:   i.display(f.Dest),
		Cause:  cause,
	}
}

// display returns dest joined to the target root, for messages.
func (i *Installer) display(dest string) string {
	return i.target.Join(i.target.Root(), filepath.FromSlash(dest))
}
