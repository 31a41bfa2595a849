package configcrunch

import (
	"fmt"
	"sync"

	"github.com/configcrunch/configcrunch/schema"
	"github.com/configcrunch/configcrunch/value"
)

// SubDocumentDescriptor names a position inside a Kind's body where a nested
// typed document is expected. Selector is a "/"-delimited path inside body,
// with the special suffix "[]" meaning "every element of the list / every
// value of the map found at this path".
type SubDocumentDescriptor struct {
	Selector string
	Kind     string
}

// HelperFunc binds a variable helper to a specific document instance,
// returning the function value that will be installed under its name in the
// template.FuncMap used to render that document's strings.
type HelperFunc func(doc *Document) any

// Kind is the static descriptor of a document class: its header, schema,
// sub-document descriptors and lifecycle hooks. Kinds are registered once
// (typically in an init function of the package that defines them) and
// looked up by name during loading and sub-document descent, the same way
// the teacher dispatches on a document's kind through a registered
// descriptor rather than through subclassing.
type Kind struct {
	// Name identifies this kind in the registry and in SubDocumentDescriptor.Kind.
	Name string
	// Header is the YAML top-level key a from_yaml file must contain.
	Header string
	// Schema validates a merged body. Nil means validation always succeeds.
	Schema *schema.Schema
	// SubDocuments lists the nested typed-document positions inside body.
	SubDocuments []SubDocumentDescriptor
	// Helpers are variable helpers available in this kind's template render,
	// beyond the always-available parent() helper.
	Helpers map[string]HelperFunc
	// AfterMerge runs once reference resolution has completed, before
	// sub-document descent and the remove-marker sweep.
	AfterMerge func(body value.Map) (value.Map, error)
	// AfterVars runs once the fixed-point variable substitution pass settles.
	AfterVars func(body value.Map) (value.Map, error)
}

var (
	registryMu sync.RWMutex
	registry   = map[string]*Kind{}
)

// RegisterKind makes k available for from_yaml header matching and for
// sub-document descent lookups by name. Registering two kinds under the
// same name is a programmer error and panics, mirroring the teacher's
// pattern of registering representers once at package init.
func RegisterKind(k *Kind) {
	if k == nil || k.Name == "" {
		panic("configcrunch: RegisterKind requires a non-empty Name")
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[k.Name]; exists {
		panic(fmt.Sprintf("configcrunch: kind %q already registered", k.Name))
	}
	registry[k.Name] = k
}

// LookupKind returns the registered kind by name, or an error if none was
// registered under that name.
func LookupKind(name string) (*Kind, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	k, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("configcrunch: no kind registered under name %q", name)
	}
	return k, nil
}
