package configcrunch

import "github.com/configcrunch/configcrunch/value"

// sweepRemoveMarkers walks a value tree once, after every merge and the
// after-merge hook have run, dropping each map entry whose value is the
// bare $remove scalar and each list element beginning with "$remove::"
// (spec.md §4.2.3). A bare $remove scalar surviving anywhere else - as a
// whole document body, or as an ordinary scalar value - is an authoring
// error.
func sweepRemoveMarkers(v value.Value, label string) (value.Value, error) {
	switch v.Kind() {
	case value.MapKind:
		m, _ := v.Map()
		out := value.NewMap()
		for pair := m.Oldest(); pair != nil; pair = pair.Next() {
			if value.IsRemove(pair.Value) {
				continue
			}
			swept, err := sweepRemoveMarkers(pair.Value, label)
			if err != nil {
				return value.Null(), err
			}
			out.Set(pair.Key, swept)
		}
		return value.FromMap(out), nil
	case value.SeqKind:
		seq, _ := v.Seq()
		out := make([]value.Value, 0, len(seq))
		for _, item := range seq {
			if _, ok := value.RemoveFromListPayload(item); ok {
				continue
			}
			swept, err := sweepRemoveMarkers(item, label)
			if err != nil {
				return value.Null(), err
			}
			out = append(out, swept)
		}
		return value.Seq(out), nil
	case value.DocKind:
		doc, _ := v.Doc()
		d, ok := doc.(*Document)
		if !ok {
			return v, nil
		}
		swept, err := sweepRemoveMarkers(value.FromMap(d.body), d.ErrorLabel())
		if err != nil {
			return value.Null(), err
		}
		m, _ := swept.Map()
		d.body = m
		return v, nil
	default:
		if value.IsRemove(v) {
			return value.Null(), &InvalidRemoveError{Label: label}
		}
		return v, nil
	}
}
