package configcrunch

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/configcrunch/configcrunch/value"
)

// LookupPath is a single repository root to search for referenced
// documents. Root is either a plain OS directory (used verbatim if
// absolute, otherwise joined with the process working directory) or, when
// FS is set, a path rooted inside that fs.FS — letting a host serve a
// repository of base documents from an embed.FS without touching disk.
type LookupPath struct {
	Root string
	FS   fs.FS
}

// Dirs is a convenience constructor turning plain OS directory strings into
// LookupPath values, for the common case of spec.md §6's
// ResolveAndMergeReferences(lookupPaths []string) shape.
func Dirs(paths ...string) []LookupPath {
	out := make([]LookupPath, len(paths))
	for i, p := range paths {
		out[i] = LookupPath{Root: p}
	}
	return out
}

func readFile(p string) ([]byte, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, &InvalidDocumentError{Path: p, Err: err}
	}
	return data, nil
}

// resolveRepos turns caller-supplied lookup paths into absolute roots,
// preserving order. fs.FS-backed paths pass through untouched since they
// are not resolved against the OS working directory.
func resolveRepos(lookupPaths []LookupPath) ([]LookupPath, error) {
	out := make([]LookupPath, 0, len(lookupPaths))
	for _, lp := range lookupPaths {
		if lp.FS != nil {
			out = append(out, lp)
			continue
		}
		root := lp.Root
		if !filepath.IsAbs(root) {
			wd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("configcrunch: resolving lookup path %q: %w", lp.Root, err)
			}
			root = filepath.Join(wd, root)
		}
		out = append(out, LookupPath{Root: root})
	}
	return out, nil
}

// escapesAllRoots reports whether a normalized logical path still begins
// with "./" or "../", meaning it climbed above every repository root.
func escapesAllRoots(p string) bool {
	return p == ".." || strings.HasPrefix(p, "../") || strings.HasPrefix(p, "./")
}

// pathInRepo resolves a $ref string against the referencing document's own
// repoPath (spec.md §4.1). A bare or leading-"/" ref is taken from the
// repository root regardless of base. A "./" or "../" ref is joined against
// dirname(base) and normalized; ok is false if the result still escapes
// every root.
func pathInRepo(base string, hasBase bool, ref string) (logical string, ok bool) {
	if strings.HasPrefix(ref, "./") || strings.HasPrefix(ref, "../") {
		dir := "."
		if hasBase {
			dir = path.Dir(base)
		}
		cleaned := path.Join(dir, ref)
		if escapesAllRoots(cleaned) {
			return "", false
		}
		return strings.TrimPrefix(cleaned, "/"), true
	}
	return strings.TrimPrefix(ref, "/"), true
}

type candidateFile struct {
	displayPath string // absolute OS path, or FS-relative path for error messages
	fsys        fs.FS  // nil means plain OS filesystem
	openPath    string
}

func fileExistsOS(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

func fileExistsFS(fsys fs.FS, p string) bool {
	info, err := fs.Stat(fsys, p)
	return err == nil && !info.IsDir()
}

// candidateFiles finds every existing file for logical across every root,
// trying the extensions .yml then .yaml for each root in order. Roots or
// extensions with no matching file are skipped silently.
func candidateFiles(logical string, roots []LookupPath) []candidateFile {
	var out []candidateFile
	for _, root := range roots {
		for _, ext := range []string{".yml", ".yaml"} {
			if root.FS != nil {
				rel := strings.TrimPrefix(path.Join(root.Root, logical+ext), "/")
				if fileExistsFS(root.FS, rel) {
					out = append(out, candidateFile{displayPath: rel, fsys: root.FS, openPath: rel})
				}
				continue
			}
			abs := filepath.Join(root.Root, filepath.FromSlash(logical+ext))
			if fileExistsOS(abs) {
				out = append(out, candidateFile{displayPath: abs, openPath: abs})
			}
		}
	}
	return out
}

func readCandidate(c candidateFile) ([]byte, error) {
	if c.fsys != nil {
		data, err := fs.ReadFile(c.fsys, c.openPath)
		if err != nil {
			return nil, &InvalidDocumentError{Path: c.displayPath, Err: err}
		}
		return data, nil
	}
	return readFile(c.openPath)
}

// loadReferenced implements spec.md §4.1's load_referenced: for each
// existing candidate file referenced by doc's $ref, parse it, require a
// matching header, and construct a child Document of doc's own kind.
func loadReferenced(doc *Document, lookupPaths []LookupPath) ([]*Document, error) {
	refVal, hasRef := doc.body.Get(value.RefKey)
	if !hasRef {
		return nil, nil
	}
	refStr, isStr := refVal.String()
	if !isStr {
		return nil, &InvalidDocumentError{Path: doc.ErrorLabel(), Err: fmt.Errorf("%s must be a string", value.RefKey)}
	}

	logical, ok := pathInRepo(doc.repoPath, doc.hasRepoPath, refStr)
	roots, err := resolveRepos(lookupPaths)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var docs []*Document
	for _, c := range candidateFiles(logical, roots) {
		data, err := readCandidate(c)
		if err != nil {
			return nil, err
		}
		v, err := value.Parse(data)
		if err != nil {
			return nil, &InvalidDocumentError{Path: c.displayPath, Err: err}
		}
		body, _, err := unwrapHeader(v, doc.kind, c.displayPath)
		if err != nil {
			return nil, err
		}
		if _, seen := doc.visitedRefs[logical]; seen {
			return nil, &CircularDependencyError{Path: logical}
		}
		child := childDocument(doc.kind, body, doc)
		child.repoPath = logical
		child.hasRepoPath = true
		child.visitedRefs[logical] = struct{}{}
		child.sourcePaths = append([]string{c.displayPath}, child.sourcePaths...)
		docs = append(docs, child)
	}
	return docs, nil
}
