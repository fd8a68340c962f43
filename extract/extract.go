// Package extract finds translation keys used in Go source code.
//
// It looks for calls such as resolver.GetText(ctx, "app", "greeting", ...)
// whose namespace and key arguments are string literals. Keys built at run
// time are invisible to it.
package extract

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Key is a translation key found in source.
type Key struct {
	Namespace string
	Key       string
	// Positions lists every "file:line" the key is used at.
	Positions []string
}

// Call describes a function whose arguments carry a namespace and a key.
type Call struct {
	Name           string // Function or method name, e.g. "GetText"
	NamespaceIndex int    // Argument index of the namespace
	KeyIndex       int    // Argument index of the key
}

// DefaultCalls match gointl's Resolver.GetText, Resolver.Resolve and Localizer.GetText.
var DefaultCalls = []Call{
	{Name: "GetText", NamespaceIndex: 1, KeyIndex: 2},
	{Name: "Resolve", NamespaceIndex: 1, KeyIndex: 2},
}

// ParseError reports a Go file that could not be parsed.
type ParseError struct {
	File  string
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.File, e.Cause)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Extractor collects keys from Go files.
type Extractor struct {
	calls        map[string]Call
	includeTests bool
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithCalls replaces the calls the extractor recognises.
func WithCalls(calls ...Call) Option {
	return func(e *Extractor) {
		e.calls = make(map[string]Call, len(calls))
		for _, c := range calls {
			e.calls[c.Name] = c
		}
	}
}

// WithTests enables scanning of _test.go files.
func WithTests(enabled bool) Option {
	return func(e *Extractor) {
		e.includeTests = enabled
	}
}

// New creates an Extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{}
	WithCalls(DefaultCalls...)(e)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Source extracts keys from one file's content.
func (e *Extractor) Source(filename string, src []byte) ([]Key, error) {
	found := make(map[string]*Key)
	if err := e.scan(token.NewFileSet(), filename, src, found); err != nil {
		return nil, err
	}
	return sorted(found), nil
}

// Dir extracts keys from every Go file under root, skipping vendor, testdata
// and hidden directories.
func (e *Extractor) Dir(root string) ([]Key, error) {
	fset := token.NewFileSet()
	found := make(map[string]*Key)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			name := d.Name()
			if path != root && (name == "vendor" || name == "testdata" || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.HasSuffix(path, ".go") {
			return nil
		}
		if !e.includeTests && strings.HasSuffix(path, "_test.go") {
			return nil
		}

		src, err := os.ReadFile(path) // #nosec G304 - walking a user-specified tree
		if err != nil {
			return err
		}
		return e.scan(fset, path, src, found)
	})
	if err != nil {
		return nil, err
	}

	return sorted(found), nil
}

func (e *Extractor) scan(fset *token.FileSet, filename string, src []byte, found map[string]*Key) error {
	file, err := parser.ParseFile(fset, filename, src, parser.SkipObjectResolution)
	if err != nil {
		return &ParseError{File: filename, Cause: err}
	}

	ast.Inspect(file, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}

		c, ok := e.calls[calleeName(call.Fun)]
		if !ok {
			return true
		}

		namespace, ok := stringArg(call.Args, c.NamespaceIndex)
		if !ok {
			return true
		}
		key, ok := stringArg(call.Args, c.KeyIndex)
		if !ok {
			return true
		}

		pos := fset.Position(call.Pos())
		id := namespace + "\x00" + key
		k, exists := found[id]
		if !exists {
			k = &Key{Namespace: namespace, Key: key}
			found[id] = k
		}
		k.Positions = append(k.Positions, fmt.Sprintf("%s:%d", pos.Filename, pos.Line))

		return true
	})

	return nil
}

// calleeName returns "GetText" for both GetText(...) and x.y.GetText(...).
func calleeName(fun ast.Expr) string {
	switch f := fun.(type) {
	case *ast.Ident:
		return f.Name
	case *ast.SelectorExpr:
		return f.Sel.Name
	}
	return ""
}

func stringArg(args []ast.Expr, i int) (string, bool) {
	if i < 0 || i >= len(args) {
		return "", false
	}

	lit, ok := args[i].(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return "", false
	}

	s, err := strconv.Unquote(lit.Value)
	if err != nil || s == "" {
		return "", false
	}
	return s, true
}

func sorted(found map[string]*Key) []Key {
	keys := make([]Key, 0, len(found))
	for _, k := range found {
		keys = append(keys, *k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Namespace != keys[j].Namespace {
			return keys[i].Namespace < keys[j].Namespace
		}
		return keys[i].Key < keys[j].Key
	})
	return keys
}

// ByNamespace groups keys by namespace.
func ByNamespace(keys []Key) map[string][]Key {
	out := make(map[string][]Key)
	for _, k := range keys {
		out[k.Namespace] = append(out[k.Namespace], k)
	}
	return out
}
