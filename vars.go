package configcrunch

import (
	"bytes"
	"fmt"
	"strconv"
	"text/template"

	"github.com/configcrunch/configcrunch/value"
)

// ProcessVars implements spec.md §4.4: depth-first, it resolves every nested
// sub-document's own variables first, then repeatedly renders this
// document's string leaves against a text/template FuncMap built from the
// kind's declared helpers plus the always-available parent(), until a full
// pass leaves every string unchanged. A rendered string that looks numeric
// is converted to a float, mirroring the original implementation's
// behavior of coercing variable output when possible and otherwise leaving
// it as text.
func (d *Document) ProcessVars() (*Document, error) {
	newBody, err := processChildVars(d.body)
	if err != nil {
		return nil, err
	}
	d.body = newBody

	funcs := buildFuncMap(d, d.opts.extraHelpers)
	maxIter := d.opts.maxVariableIterations
	for i := 0; i < maxIter; i++ {
		changed, err := d.renderPass(funcs)
		if err != nil {
			return nil, err
		}
		if !changed {
			if d.kind.AfterVars != nil {
				ab, err := d.kind.AfterVars(d.body)
				if err != nil {
					return nil, err
				}
				d.body = ab
			}
			return d, nil
		}
	}
	return nil, &VariableProcessingError{
		Label:      d.ErrorLabel(),
		SourcePath: firstSourcePath(d),
		Err:        fmt.Errorf("variable substitution did not converge within %d iterations", maxIter),
	}
}

// processChildVars walks v looking for Doc nodes and runs ProcessVars on
// each one found, before this document's own string leaves are ever
// rendered.
func processChildVars(v value.Value) (value.Value, error) {
	switch v.Kind() {
	case value.MapKind:
		m, _ := v.Map()
		for pair := m.Oldest(); pair != nil; pair = pair.Next() {
			nv, err := processChildVars(pair.Value)
			if err != nil {
				return value.Null(), err
			}
			m.Set(pair.Key, nv)
		}
		return v, nil
	case value.SeqKind:
		seq, _ := v.Seq()
		for i, item := range seq {
			nv, err := processChildVars(item)
			if err != nil {
				return value.Null(), err
			}
			seq[i] = nv
		}
		return value.Seq(seq), nil
	case value.DocKind:
		doc, _ := v.Doc()
		cd, ok := doc.(*Document)
		if !ok {
			return v, nil
		}
		if _, err := cd.ProcessVars(); err != nil {
			return value.Null(), err
		}
		return v, nil
	default:
		return v, nil
	}
}

// renderPass runs a single fixed-point iteration over d's own tree, skipping
// nested Doc nodes (already settled by processChildVars). The render context
// is recomputed before each leaf so that an earlier sibling's freshly
// rendered value is visible to a later one within the same pass, matching
// the original implementation's live-context behavior.
func (d *Document) renderPass(funcs template.FuncMap) (bool, error) {
	changed := false
	var walk func(v value.Value) (value.Value, error)
	walk = func(v value.Value) (value.Value, error) {
		switch v.Kind() {
		case value.MapKind:
			m, _ := v.Map()
			for pair := m.Oldest(); pair != nil; pair = pair.Next() {
				nv, err := walk(pair.Value)
				if err != nil {
					return value.Null(), err
				}
				m.Set(pair.Key, nv)
			}
			return v, nil
		case value.SeqKind:
			seq, _ := v.Seq()
			for i, item := range seq {
				nv, err := walk(item)
				if err != nil {
					return value.Null(), err
				}
				seq[i] = nv
			}
			return value.Seq(seq), nil
		case value.StringKind:
			s, _ := v.String()
			rendered, err := renderTemplateString(s, funcs, func() any {
				return value.ToPlain(value.FromMap(d.body), headerOf)
			})
			if err != nil {
				return value.Null(), &VariableProcessingError{Value: s, Label: d.ErrorLabel(), SourcePath: firstSourcePath(d), Err: err}
			}
			if rendered != s {
				changed = true
			}
			return coerceNumeric(rendered), nil
		default:
			return v, nil
		}
	}
	newBody, err := walk(value.FromMap(d.body))
	if err != nil {
		return false, err
	}
	m, _ := newBody.Map()
	d.body = m
	return changed, nil
}

// ProcessVarsFor renders a single string against this document's own
// variable namespace, without touching or requiring the document's body to
// be re-walked. extraHelpers, if non-nil, is layered on top of the
// document's own helpers and parent().
func (d *Document) ProcessVarsFor(s string, extraHelpers map[string]any) (string, error) {
	funcs := buildFuncMap(d, d.opts.extraHelpers)
	for name, fn := range extraHelpers {
		funcs[name] = fn
	}
	plain := value.ToPlain(value.FromMap(d.body), headerOf)
	rendered, err := renderTemplateString(s, funcs, func() any { return plain })
	if err != nil {
		return "", &VariableProcessingError{Value: s, Label: d.ErrorLabel(), SourcePath: firstSourcePath(d), Err: err}
	}
	return rendered, nil
}

// buildFuncMap assembles the template.FuncMap used to render one document's
// strings: the kind's own declared helpers, any per-construction extra
// helpers, and parent(), which always returns the enclosing document's
// plain body (or this document's own, at the root of a tree).
func buildFuncMap(d *Document, extra map[string]any) template.FuncMap {
	fm := template.FuncMap{}
	fm["parent"] = func() map[string]any {
		p := d
		if d.parent != nil {
			p = d.parent
		}
		return value.ToPlain(value.FromMap(p.body), headerOf).(map[string]any)
	}
	for name, hf := range d.kind.Helpers {
		fm[name] = hf(d)
	}
	for name, fn := range extra {
		fm[name] = fn
	}
	return fm
}

func renderTemplateString(s string, funcs template.FuncMap, contextFn func() any) (string, error) {
	tmpl, err := template.New("var").Funcs(funcs).Parse(s)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, contextFn()); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// coerceNumeric mirrors the original implementation's post-render float
// conversion: a rendered string that parses as a number becomes one,
// otherwise it stays text. Whether a pass counts as "changed" is decided on
// the rendered string alone, before this conversion runs, so a bare
// numeric-looking literal with no template directives in it still reaches a
// fixed point on the first pass instead of re-triggering forever.
func coerceNumeric(s string) value.Value {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return value.Float(f)
	}
	return value.String(s)
}
