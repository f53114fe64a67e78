package en

import (
	"strings"

	"github.com/kittclouds/ontokit/pkg/dimension"
	"github.com/kittclouds/ontokit/pkg/model"
	"github.com/kittclouds/ontokit/pkg/rules"
)

// Features extracts the sequence of child rule names of a node and, for
// temporal children, their grains. A terminal-only node yields its own rule
// name so that every node has at least one feature.
var Features model.FeatureExtractor = model.FeatureFunc(features)

func features(n *rules.Node) []string {
	if len(n.Children) == 0 {
		return []string{"rule:" + n.Rule}
	}
	names := make([]string, 0, len(n.Children))
	var grains []string
	for _, c := range n.Children {
		names = append(names, c.Rule)
		if t, ok := c.Value.(dimension.Time); ok {
			if g, ok := t.Grain(); ok {
				grains = append(grains, g.String())
			}
		}
	}
	out := []string{"rules:" + strings.Join(names, "+")}
	if len(grains) > 0 {
		out = append(out, "grains:"+strings.Join(grains, "+"))
	}
	return out
}
