// Package auditor implements the parallel standards auditor: a
// bounded-concurrency fan-out of one agent invocation per standard,
// classifying each into pass/fail/timeout/skip and aggregating a final
// report (spec §4.3).
package auditor

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Entry is one standard resolved from the index: its category, slug,
// and the free-text description next to it.
type Entry struct {
	Category    string
	Slug        string
	Description string
}

// Index is the full set of standards in file order. Ordering is kept
// (rather than collapsed into a map) so a dry run and the scheduling of
// workers walk standards in the order the index author wrote them in.
// Run's final report is sorted by category, then slug, instead.
type Index []Entry

// LoadIndex parses the two-level YAML standards index at path: a
// top-level mapping of category -> standard slug -> { description }.
// Anything else in the file (comments, blank lines) is already handled
// by the YAML parser itself; this walks the node tree by hand rather
// than unmarshalling into a map so category/standard order survives.
func LoadIndex(path string) (Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("auditor: reading standards index: %w", err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("auditor: parsing standards index: %w", err)
	}
	if len(root.Content) == 0 {
		return nil, nil
	}
	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("auditor: standards index: top level must be a mapping of categories")
	}

	var idx Index
	for i := 0; i < len(doc.Content)-1; i += 2 {
		catNode, stdsNode := doc.Content[i], doc.Content[i+1]
		if catNode.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("auditor: standards index: category at position %d is not a scalar", i/2+1)
		}
		if stdsNode.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("auditor: standards index: category %q must map to standards", catNode.Value)
		}
		for j := 0; j < len(stdsNode.Content)-1; j += 2 {
			slugNode, bodyNode := stdsNode.Content[j], stdsNode.Content[j+1]
			if slugNode.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("auditor: standards index: standard under %q at position %d is not a scalar", catNode.Value, j/2+1)
			}
			desc, err := descriptionOf(bodyNode)
			if err != nil {
				return nil, fmt.Errorf("auditor: standards index: %s/%s: %w", catNode.Value, slugNode.Value, err)
			}
			idx = append(idx, Entry{Category: catNode.Value, Slug: slugNode.Value, Description: desc})
		}
	}
	return idx, nil
}

func descriptionOf(node *yaml.Node) (string, error) {
	if node.Kind != yaml.MappingNode {
		return "", fmt.Errorf("must be a mapping with a description field")
	}
	for i := 0; i < len(node.Content)-1; i += 2 {
		if node.Content[i].Value == "description" {
			return node.Content[i+1].Value, nil
		}
	}
	return "", nil
}

// Filter narrows idx to the given comma-split allow-list of slugs. An
// empty allow list returns idx unchanged (the common case: audit every
// standard in the index).
func (idx Index) Filter(allow []string) Index {
	if len(allow) == 0 {
		return idx
	}
	want := make(map[string]bool, len(allow))
	for _, s := range allow {
		want[s] = true
	}
	var out Index
	for _, e := range idx {
		if want[e.Slug] {
			out = append(out, e)
		}
	}
	return out
}
