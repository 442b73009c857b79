package registry

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/ast"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cuejson "cuelang.org/go/encoding/json"
	cueyaml "cuelang.org/go/encoding/yaml"

	oerrors "github.com/tblx/tblx-ui/internal/errors"
	"github.com/tblx/tblx-ui/internal/output"
)

//go:embed schema.cue
var schemaCUE []byte

// Option configures Load.
type Option func(*loadOptions)

type loadOptions struct {
	prefix string
}

// WithPrefix sets the registry-root segment recorded on the catalog.
// An empty prefix keeps DefaultPrefix.
func WithPrefix(prefix string) Option {
	return func(o *loadOptions) {
		if prefix != "" {
			o.prefix = strings.Trim(filepath.ToSlash(prefix), "/")
		}
	}
}

// Load reads and parses the manifest at path into a Catalog.
//
// The manifest is checked against a structural schema only: dependency names,
// file existence, and cycles are not validated here.
func Load(path string, opts ...Option) (*Catalog, error) {
	o := loadOptions{prefix: DefaultPrefix}
	for _, opt := range opts {
		opt(&o)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &oerrors.ManifestUnreadableError{Path: path, Cause: err}
	}

	output.Debug("loaded manifest", "path", path, "bytes", len(content))

	m, err := decode(path, content)
	if err != nil {
		return nil, err
	}

	root, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, &oerrors.ManifestUnreadableError{Path: path, Cause: err}
	}

	for name, comp := range m.Components {
		comp.Name = name
	}

	return &Catalog{
		Name:       m.Name,
		Version:    m.Version,
		Components: m.Components,
		BaseStyles: m.BaseStyles,
		Root:       root,
		Prefix:     o.prefix,
	}, nil
}

// decode parses JSON or YAML content, unifies it with the manifest schema,
// and decodes the result.
func decode(path string, content []byte) (*manifest, error) {
	malformed := func(cause error) error {
		return &oerrors.ManifestMalformedError{
			Path:    path,
			Details: strings.TrimSpace(cueerrors.Details(cause, nil)),
			Cause:   cause,
		}
	}

	if len(strings.TrimSpace(string(content))) == 0 {
		return nil, &oerrors.ManifestMalformedError{Path: path, Cause: fmt.Errorf("manifest is empty")}
	}

	ctx := cuecontext.New()

	schema := ctx.CompileBytes(schemaCUE, cue.Filename("schema.cue"))
	if schema.Err() != nil {
		return nil, fmt.Errorf("compiling manifest schema: %w", schema.Err())
	}

	var data cue.Value
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		f, err := cueyaml.Extract(path, content)
		if err != nil {
			return nil, malformed(err)
		}
		data = ctx.BuildFile(f)
	default:
		expr, err := cuejson.Extract(path, content)
		if err != nil {
			return nil, malformed(err)
		}
		lastKeyWins(expr)
		data = ctx.BuildExpr(expr)
	}
	if data.Err() != nil {
		return nil, malformed(data.Err())
	}

	if err := checkRequired(data); err != nil {
		return nil, malformed(err)
	}

	v := schema.LookupPath(cue.ParsePath("#Manifest")).Unify(data)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, malformed(err)
	}

	var m manifest
	if err := v.Decode(&m); err != nil {
		return nil, malformed(err)
	}
	if m.Components == nil {
		m.Components = map[string]*Component{}
	}

	return &m, nil
}

// lastKeyWins drops all but the last occurrence of each repeated object key,
// recursively, so duplicate keys behave as in a plain JSON parser instead of
// unifying into a conflict.
func lastKeyWins(expr ast.Expr) {
	switch x := expr.(type) {
	case *ast.StructLit:
		last := map[string]int{}
		for i, decl := range x.Elts {
			if f, ok := decl.(*ast.Field); ok {
				if name, _, err := ast.LabelName(f.Label); err == nil {
					last[name] = i
				}
			}
		}

		kept := x.Elts[:0]
		for i, decl := range x.Elts {
			if f, ok := decl.(*ast.Field); ok {
				if name, _, err := ast.LabelName(f.Label); err == nil && last[name] != i {
					continue
				}
				lastKeyWins(f.Value)
			}
			kept = append(kept, decl)
		}
		x.Elts = kept
	case *ast.ListLit:
		for _, elt := range x.Elts {
			lastKeyWins(elt)
		}
	}
}

// checkRequired reports the first missing required field. The schema marks
// the same fields required; this gives a plain message for the common cases.
func checkRequired(data cue.Value) error {
	if data.Kind() != cue.StructKind {
		return fmt.Errorf("manifest must be an object, got %s", data.Kind())
	}

	comps := data.LookupPath(cue.ParsePath("components"))
	if !comps.Exists() {
		return fmt.Errorf("manifest has no components field")
	}
	if comps.Kind() != cue.StructKind {
		return fmt.Errorf("components must be an object, got %s", comps.Kind())
	}

	it, err := comps.Fields()
	if err != nil {
		return err
	}
	for it.Next() {
		if it.Value().Kind() != cue.StructKind {
			return fmt.Errorf("component %s must be an object, got %s", it.Selector(), it.Value().Kind())
		}
		if !it.Value().LookupPath(cue.ParsePath("files")).Exists() {
			return fmt.Errorf("component %s has no files field", it.Selector())
		}
	}

	return nil
}
