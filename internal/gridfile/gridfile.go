// Package gridfile loads declarative task-graph definitions from HCL. A
// grid file is a flat list of node blocks; dependencies are named in each
// node's after attribute:
//
//	node "source" {
//	  emit = 100
//	}
//
//	node "worker_a" {
//	  after = ["source"]
//	  add   = 50
//	}
package gridfile

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// NodeSpec is one node block, in file order.
type NodeSpec struct {
	Name    string
	After   []string // names of nodes this one depends on
	Emit    int64    // base value contributed by the node itself
	Add     int64    // added after summing dependency outputs
	Mul     int64    // applied last; zero means "unset" and is treated as 1
	DelayMs int64    // simulated work duration
}

// Grid is a parsed grid file.
type Grid struct {
	Nodes []*NodeSpec
}

var gridSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "node", LabelNames: []string{"name"}},
	},
}

var nodeSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "after"},
		{Name: "emit"},
		{Name: "add"},
		{Name: "mul"},
		{Name: "delay_ms"},
	},
}

// Load reads and decodes a grid file from disk.
func Load(path string) (*Grid, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse %s: %w", path, diags)
	}
	return decode(file.Body)
}

// Parse decodes a grid definition from an in-memory buffer. The filename is
// only used in diagnostics.
func Parse(src []byte, filename string) (*Grid, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse %s: %w", filename, diags)
	}
	return decode(file.Body)
}

func decode(body hcl.Body) (*Grid, error) {
	content, diags := body.Content(gridSchema)
	if diags.HasErrors() {
		return nil, diags
	}

	grid := &Grid{}
	seen := make(map[string]bool, len(content.Blocks))
	for _, block := range content.Blocks {
		spec, err := decodeNode(block)
		if err != nil {
			return nil, err
		}
		if seen[spec.Name] {
			return nil, fmt.Errorf("%s: duplicate node %q", block.DefRange, spec.Name)
		}
		seen[spec.Name] = true
		grid.Nodes = append(grid.Nodes, spec)
	}

	// Dependencies may reference nodes declared later in the file, so the
	// reference check runs after all blocks are decoded.
	for _, spec := range grid.Nodes {
		for _, dep := range spec.After {
			if dep == spec.Name {
				return nil, fmt.Errorf("node %q depends on itself", spec.Name)
			}
			if !seen[dep] {
				return nil, fmt.Errorf("node %q depends on unknown node %q", spec.Name, dep)
			}
		}
	}
	return grid, nil
}

func decodeNode(block *hcl.Block) (*NodeSpec, error) {
	content, diags := block.Body.Content(nodeSchema)
	if diags.HasErrors() {
		return nil, diags
	}

	spec := &NodeSpec{Name: block.Labels[0]}

	if attr, ok := content.Attributes["after"]; ok {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		if !val.CanIterateElements() {
			return nil, fmt.Errorf("node %q: after must be a list of node names", spec.Name)
		}
		for it := val.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			if elem.Type() != cty.String {
				return nil, fmt.Errorf("node %q: after entries must be strings, got %s", spec.Name, elem.Type().FriendlyName())
			}
			spec.After = append(spec.After, elem.AsString())
		}
	}

	for name, dst := range map[string]*int64{
		"emit":     &spec.Emit,
		"add":      &spec.Add,
		"mul":      &spec.Mul,
		"delay_ms": &spec.DelayMs,
	} {
		attr, ok := content.Attributes[name]
		if !ok {
			continue
		}
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		if err := gocty.FromCtyValue(val, dst); err != nil {
			return nil, fmt.Errorf("node %q: attribute %s: %w", spec.Name, name, err)
		}
	}

	return spec, nil
}
