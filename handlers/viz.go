// ABOUTME: GraphViz visualization MCP handlers
// ABOUTME: Provides generate_graph tool for agents
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"salespad/store"
	"salespad/viz"
)

type VizHandlers struct {
	crm *store.CRMStore
}

func NewVizHandlers(crm *store.CRMStore) *VizHandlers {
	return &VizHandlers{crm: crm}
}

type GenerateGraphInput struct {
	Type string `json:"type" jsonschema:"Graph type: pipeline or network"`
}

type GenerateGraphOutput struct {
	GraphType string `json:"graph_type"`
	DOTSource string `json:"dot_source"`
	NodeCount int    `json:"node_count"`
	EdgeCount int    `json:"edge_count"`
}

func (h *VizHandlers) GenerateGraph(ctx context.Context, request *mcp.CallToolRequest, input GenerateGraphInput) (*mcp.CallToolResult, GenerateGraphOutput, error) {
	if input.Type == "" {
		return nil, GenerateGraphOutput{}, fmt.Errorf("type is required")
	}

	if err := refreshDeals(ctx, h.crm); err != nil {
		return nil, GenerateGraphOutput{}, err
	}

	generator := viz.NewGraphGenerator(h.crm)
	var dot string
	var err error

	switch input.Type {
	case "pipeline":
		dot, err = generator.GeneratePipelineGraph()

	case "network":
		if err := refreshLeads(ctx, h.crm); err != nil {
			return nil, GenerateGraphOutput{}, err
		}
		if err := refreshContacts(ctx, h.crm); err != nil {
			return nil, GenerateGraphOutput{}, err
		}
		dot, err = generator.GenerateNetworkGraph()

	default:
		return nil, GenerateGraphOutput{}, fmt.Errorf("unknown graph type: %s (valid types: pipeline, network)", input.Type)
	}

	if err != nil {
		return nil, GenerateGraphOutput{}, fmt.Errorf("failed to generate graph: %w", err)
	}

	// Count nodes and edges for stats
	nodeCount := strings.Count(dot, "[label=")
	edgeCount := strings.Count(dot, "->")

	return nil, GenerateGraphOutput{
		GraphType: input.Type,
		DOTSource: dot,
		NodeCount: nodeCount,
		EdgeCount: edgeCount,
	}, nil
}
