// ABOUTME: GraphViz pipeline funnel generation
// ABOUTME: Renders deal stages and their deals as a directed graph
package viz

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"

	"salespad/models"
	"salespad/store"
)

// GraphGenerator renders store collections as GraphViz documents.
type GraphGenerator struct {
	crm *store.CRMStore
}

func NewGraphGenerator(crm *store.CRMStore) *GraphGenerator {
	return &GraphGenerator{crm: crm}
}

// GeneratePipelineGraph renders the deal funnel: stage boxes in funnel order
// with each deal attached to its stage.
func (g *GraphGenerator) GeneratePipelineGraph() (string, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create graphviz: %w", err)
	}
	defer func() {
		if err := gv.Close(); err != nil {
			fmt.Printf("Error closing graphviz: %v\n", err)
		}
	}()

	graph, err := gv.Graph()
	if err != nil {
		return "", fmt.Errorf("failed to create graph: %w", err)
	}
	defer func() {
		if err := graph.Close(); err != nil {
			fmt.Printf("Error closing graph: %v\n", err)
		}
	}()

	graph.SetLabel("Deal Pipeline")
	graph.SetRankDir(cgraph.LRRank)

	deals := g.crm.Deals()

	// Stage boxes in funnel order, chained left to right
	stageNodes := make(map[string]*cgraph.Node)
	var prev *cgraph.Node
	for _, stage := range models.PipelineStages {
		node, err := graph.CreateNodeByName("stage_" + stage)
		if err != nil {
			return "", fmt.Errorf("failed to create stage node: %w", err)
		}
		count := 0
		total := int64(0)
		for _, deal := range deals {
			if deal.Stage == stage {
				count++
				total += deal.Amount
			}
		}
		node.SetLabel(fmt.Sprintf("%s\n%d deals / $%dK", stage, count, total/100000))
		node.SetShape("box")
		node.SetStyle("filled")
		node.SetFillColor("lightblue")
		stageNodes[stage] = node

		if prev != nil {
			if _, err := graph.CreateEdgeByName("", prev, node); err != nil {
				return "", fmt.Errorf("failed to create stage edge: %w", err)
			}
		}
		prev = node
	}

	// Deal diamonds attached to their stage
	for _, deal := range deals {
		stageNode, ok := stageNodes[deal.Stage]
		if !ok {
			continue
		}
		node, err := graph.CreateNodeByName("deal_" + shortID(deal.ID))
		if err != nil {
			return "", fmt.Errorf("failed to create deal node: %w", err)
		}
		node.SetLabel(fmt.Sprintf("%s\n$%dK", deal.Title, deal.Amount/100000))
		node.SetShape("diamond")
		node.SetStyle("filled")
		node.SetFillColor("lightyellow")

		edge, err := graph.CreateEdgeByName("", stageNode, node)
		if err != nil {
			return "", fmt.Errorf("failed to create deal edge: %w", err)
		}
		edge.SetStyle("dotted")
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.XDOT, &buf); err != nil {
		return "", fmt.Errorf("failed to render graph: %w", err)
	}

	return buf.String(), nil
}

// shortID trims opaque backend identifiers for node names.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
