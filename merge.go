package configcrunch

import "github.com/configcrunch/configcrunch/value"

// mergeValues combines a target into a source: the source is the prior
// (base) value, the target is the newer overlay. Results take after the
// target where they conflict. See spec.md §4.2.1 for the full case table.
func mergeValues(target, source value.Value) (value.Value, error) {
	if targetMap, ok := target.Map(); ok {
		if sourceMap, ok := source.Map(); ok {
			return mergeMaps(targetMap, sourceMap)
		}
	}
	if targetSeq, ok := target.Seq(); ok {
		if sourceSeq, ok := source.Seq(); ok {
			return mergeSeqs(targetSeq, sourceSeq), nil
		}
	}
	if targetDoc, ok := target.Doc(); ok {
		if sourceDoc, ok := source.Doc(); ok {
			td, ok1 := targetDoc.(*Document)
			sd, ok2 := sourceDoc.(*Document)
			if ok1 && ok2 {
				if err := mergeDocuments(td, sd); err != nil {
					return value.Null(), err
				}
				return value.FromDoc(td), nil
			}
		}
	}
	// Any other pairing - including the bare scalar $remove, and mismatched
	// container shapes - the target wins as-is; the sweep erases $remove later.
	return target, nil
}

// mergeMaps implements spec.md §4.2.1's map merge rules: start from a copy
// of source in insertion order, then overlay target's entries in target's
// own order, recursing where a key exists in both.
func mergeMaps(target, source value.Map) (value.Value, error) {
	result := value.CopyMap(source)
	for pair := target.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Key == value.RefKey && value.IsRemove(pair.Value) {
			// eager removal: a $ref cancelled by $remove must never be followed.
			result.Delete(pair.Key)
			continue
		}
		if existing, ok := result.Get(pair.Key); ok {
			merged, err := mergeValues(pair.Value, existing)
			if err != nil {
				return value.Null(), err
			}
			result.Set(pair.Key, merged)
		} else {
			result.Set(pair.Key, pair.Value)
		}
	}
	return value.FromMap(result), nil
}

// mergeSeqs implements spec.md §4.2.1's list merge rules: concatenate
// source then target, then erase every "$remove::<payload>" marker and
// every element matching a collected payload. Duplicates of ordinary
// elements are preserved.
func mergeSeqs(target, source []value.Value) value.Value {
	combined := make([]value.Value, 0, len(source)+len(target))
	combined = append(combined, source...)
	combined = append(combined, target...)

	removes := map[string]struct{}{}
	for _, item := range combined {
		if payload, ok := value.RemoveFromListPayload(item); ok {
			removes[payload] = struct{}{}
		}
	}
	if len(removes) == 0 {
		return value.Seq(combined)
	}
	out := make([]value.Value, 0, len(combined))
	for _, item := range combined {
		if _, isMarker := value.RemoveFromListPayload(item); isMarker {
			continue
		}
		if s, ok := item.String(); ok {
			if _, removed := removes[s]; removed {
				continue
			}
		}
		out = append(out, item)
	}
	return value.Seq(out)
}

// mergeDocuments merges two Documents' bodies (target wins) in place, and
// folds source's visitedRefs/sourcePaths bookkeeping into target.
func mergeDocuments(target, source *Document) error {
	merged, err := mergeValues(value.FromMap(target.body), value.FromMap(source.body))
	if err != nil {
		return err
	}
	m, _ := merged.Map()
	target.body = m

	for ref := range source.visitedRefs {
		target.visitedRefs[ref] = struct{}{}
	}

	existing := make(map[string]struct{}, len(target.sourcePaths))
	for _, p := range target.sourcePaths {
		existing[p] = struct{}{}
	}
	for _, p := range source.sourcePaths {
		if _, ok := existing[p]; !ok {
			target.sourcePaths = append(target.sourcePaths, p)
			existing[p] = struct{}{}
		}
	}
	return nil
}
