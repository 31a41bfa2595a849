package configcrunch

import (
	"context"
	"fmt"
	"time"

	"github.com/vmware-labs/yaml-jsonpath/pkg/yamlpath"
	"gopkg.in/yaml.v3"

	"github.com/configcrunch/configcrunch/value"
)

// queryTimeout bounds a single JSONPath walk, the same 500ms gatekeeper the
// teacher applies around yamlpath.Path.Find in utils.FindNodesWithoutDeserializing
// ("this can spin out, so lets gatekeep it").
const queryTimeout = 500 * time.Millisecond

// Query runs a read-only JSONPath-style lookup over the merged document
// body (SPEC_FULL.md §4.3 addition, for debugging and host-program
// introspection). It never participates in merge, resolution, or the
// remove-marker sweep, and reads whatever state body happens to be in.
func (d *Document) Query(expr string) ([]value.Value, error) {
	path, err := yamlpath.NewPath(expr)
	if err != nil {
		return nil, fmt.Errorf("configcrunch: invalid query %q: %w", expr, err)
	}
	node := value.ToYAMLNode(value.FromMap(d.body))

	matches, err := findWithDeadline(func() ([]*yaml.Node, error) {
		return path.Find(node)
	})
	if err != nil {
		return nil, fmt.Errorf("configcrunch: query %q failed: %w", expr, err)
	}

	out := make([]value.Value, 0, len(matches))
	for _, m := range matches {
		v, err := value.FromYAMLNode(m)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// findWithDeadline runs find on its own goroutine and gives up after
// queryTimeout, so a pathological JSONPath expression can't hang a caller
// forever. find is a parameter (rather than a fixed path.Find call) so
// tests can substitute a deliberately slow stand-in to prove the deadline
// actually fires.
func findWithDeadline(find func() ([]*yaml.Node, error)) ([]*yaml.Node, error) {
	done := make(chan bool)
	var results []*yaml.Node
	var findErr error
	timeout, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	go func(d chan bool) {
		results, findErr = find()
		d <- true
	}(done)

	select {
	case <-done:
		return results, findErr
	case <-timeout.Done():
		return nil, fmt.Errorf("query lookup timeout exceeded")
	}
}
