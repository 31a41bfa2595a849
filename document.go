// Package configcrunch implements a deterministic document algebra for
// hierarchical, validated configuration documents authored in YAML: a base
// document may reference one or more parent documents that live in
// repository search paths, nested typed sub-documents participate in the
// same reference/merge mechanism recursively, and the merged tree is then
// subjected to a second pass of templated variable expansion.
package configcrunch

import (
	"fmt"

	"github.com/configcrunch/configcrunch/value"
)

// Document is a typed, validated configuration node: a header-identified
// kind, a body, optional on-disk provenance, and the bookkeeping the merger
// and variable resolver need (parent back-reference, visited-reference set).
//
// A Document moves through three states over its life: CREATED (just
// parsed or constructed), MERGED (after ResolveAndMergeReferences), and
// EVALUATED (after ProcessVars). Nothing in this type enforces that order;
// it is documented, not policed, exactly as spec.md §4.4 describes.
type Document struct {
	kind *Kind

	body value.Map

	// repoPath is this document's own logical path relative to a repository
	// root, or "" if it was not loaded from one.
	repoPath string
	hasRepoPath bool

	// sourcePaths is free of adjacent duplicates. The file this document came
	// from (for a sub-document, its enclosing document's) comes first; the
	// files of ancestors merged into it follow in the order merges added them.
	sourcePaths []string

	// parent is a non-owning back-reference, used only by the variable
	// resolver's parent() helper. Never an ownership edge.
	parent *Document

	// visitedRefs is the set of logical reference paths already loaded on
	// the current resolution chain, copied (never shared) across branches.
	visitedRefs map[string]struct{}

	opts documentOptions
}

// DocKind implements value.Doc.
func (d *Document) DocKind() string { return d.kind.Name }

// Body implements value.Doc.
func (d *Document) Body() value.Map { return d.body }

// Kind returns the name of this document's registered kind.
func (d *Document) Kind() string { return d.kind.Name }

// RepoPath returns this document's logical path relative to a repository
// root, and whether one was ever set.
func (d *Document) RepoPath() (string, bool) { return d.repoPath, d.hasRepoPath }

// Parent returns the enclosing document this one was loaded as a
// sub-document of, or nil at the root of a document tree.
func (d *Document) Parent() *Document { return d.parent }

// SourcePaths returns the ordered list of absolute on-disk paths that have
// contributed to this document through merges: this document's own file
// first, then the files of the ancestors merged into it.
func (d *Document) SourcePaths() []string {
	out := make([]string, len(d.sourcePaths))
	copy(out, d.sourcePaths)
	return out
}

// VisitedRefs returns the set of logical reference paths already loaded on
// the resolution chain this document was constructed on.
func (d *Document) VisitedRefs() map[string]struct{} {
	out := make(map[string]struct{}, len(d.visitedRefs))
	for k := range d.visitedRefs {
		out[k] = struct{}{}
	}
	return out
}

// ErrorLabel is the short, human-readable label used in wrapped errors: the
// kind name, with the document's first source path when one is known.
func (d *Document) ErrorLabel() string {
	if len(d.sourcePaths) > 0 {
		return fmt.Sprintf("%s (%s)", d.kind.Name, d.sourcePaths[0])
	}
	return fmt.Sprintf("type %s", d.kind.Name)
}

// FromYAML parses a YAML file and constructs a Document of the given
// registered kind. The file must decode to a single-entry top-level mapping
// whose key equals the kind's Header; that key's value becomes body.
func FromYAML(path string, kindName string, opts ...Option) (*Document, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	k, err := LookupKind(kindName)
	if err != nil {
		return nil, err
	}
	v, err := value.Parse(data)
	if err != nil {
		return nil, &InvalidDocumentError{Path: path, Err: err}
	}
	body, header, err := unwrapHeader(v, k, path)
	if err != nil {
		return nil, err
	}
	_ = header
	doc := newDocument(k, body, opts)
	doc.sourcePaths = []string{path}
	return doc, nil
}

// FromDict constructs a Document directly from an already-built body value,
// without any on-disk origin.
func FromDict(body value.Value, kindName string, opts ...Option) (*Document, error) {
	k, err := LookupKind(kindName)
	if err != nil {
		return nil, err
	}
	m, ok := body.Map()
	if !ok {
		return nil, &InvalidDocumentError{Path: "<dict>", Err: fmt.Errorf("body must be a mapping")}
	}
	return newDocument(k, m, opts), nil
}

func newDocument(k *Kind, body value.Map, opts []Option) *Document {
	return &Document{
		kind:        k,
		body:        body,
		visitedRefs: map[string]struct{}{},
		opts:        newDocumentOptions(opts),
	}
}

// unwrapHeader requires v to be a Map containing exactly the kind's header
// key, and returns that key's value as the new body.
func unwrapHeader(v value.Value, k *Kind, path string) (value.Map, string, error) {
	m, ok := v.Map()
	if !ok {
		return nil, "", &InvalidDocumentError{Path: path, Err: fmt.Errorf("top-level YAML value is not a mapping")}
	}
	if m.Len() != 1 {
		return nil, "", &InvalidHeaderError{Path: path, Expected: k.Header}
	}
	bodyVal, ok := m.Get(k.Header)
	if !ok {
		return nil, "", &InvalidHeaderError{Path: path, Expected: k.Header}
	}
	body, ok := bodyVal.Map()
	if !ok {
		return nil, "", &InvalidDocumentError{Path: path, Err: fmt.Errorf("header %q value is not a mapping", k.Header)}
	}
	return body, k.Header, nil
}

// childDocument constructs a sub-document of childKind inherited from
// parent: same repoPath, visitedRefs and sourcePaths lineage, per spec.md
// §4.1 (load_referenced) and §4.3.1 (sub-document descent).
func childDocument(childKind *Kind, body value.Map, parent *Document) *Document {
	visited := make(map[string]struct{}, len(parent.visitedRefs))
	for k := range parent.visitedRefs {
		visited[k] = struct{}{}
	}
	child := &Document{
		kind:        childKind,
		body:        body,
		parent:      parent,
		visitedRefs: visited,
		sourcePaths: append([]string(nil), parent.sourcePaths...),
		opts:        parent.opts,
	}
	child.repoPath = parent.repoPath
	child.hasRepoPath = parent.hasRepoPath
	return child
}

// headerOf returns the registered header key for a value.Doc's kind, falling
// back to the raw kind name if it was somehow never registered.
func headerOf(doc value.Doc) string {
	k, err := LookupKind(doc.DocKind())
	if err != nil {
		return doc.DocKind()
	}
	return k.Header
}

// firstSourcePath returns d's innermost known on-disk origin, or "" if d has
// none (e.g. it was built with FromDict).
func firstSourcePath(d *Document) string {
	if len(d.sourcePaths) == 0 {
		return ""
	}
	return d.sourcePaths[0]
}

// ToPlain recursively replaces every Doc with {header(kind): body} and every
// sentinel-free container with a plain Go map/slice/scalar. The returned
// maps are plain Go maps, so the body's key insertion order is not kept.
func (d *Document) ToPlain() map[string]any {
	return map[string]any{
		d.kind.Header: value.ToPlain(value.FromMap(d.body), headerOf),
	}
}

// Validate runs the kind's schema check against body, wrapped with this
// document's short error label, then recurses into every nested
// sub-document and validates it against its own kind's schema in turn -
// mirroring the original implementation's DocReference, which dispatches
// to a nested document's own validate() rather than duplicating its schema
// inline under the parent.
func (d *Document) Validate() error {
	var agg MultiError
	if d.kind.Schema != nil {
		plain := value.ToPlain(value.FromMap(d.body), headerOf)
		if err := d.kind.Schema.Validate(plain); err != nil {
			agg.Append(&ValidationError{Label: d.ErrorLabel(), Err: err})
		}
	}
	walkValidate(value.FromMap(d.body), &agg)
	return agg.OrNil()
}

func walkValidate(v value.Value, agg *MultiError) {
	switch v.Kind() {
	case value.MapKind:
		m, _ := v.Map()
		for pair := m.Oldest(); pair != nil; pair = pair.Next() {
			walkValidate(pair.Value, agg)
		}
	case value.SeqKind:
		seq, _ := v.Seq()
		for _, item := range seq {
			walkValidate(item, agg)
		}
	case value.DocKind:
		doc, _ := v.Doc()
		if cd, ok := doc.(*Document); ok {
			agg.Append(cd.Validate())
		}
	}
}
