// ABOUTME: Complete graph generation combining all entities
// ABOUTME: Generates a network view of leads, contacts, and deals
package viz

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
)

// GenerateNetworkGraph creates a comprehensive graph with all leads, contacts,
// and deals, linked where the records reference each other.
func (g *GraphGenerator) GenerateNetworkGraph() (string, error) {
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

	graph.SetLabel("CRM Network")

	leads := g.crm.Leads()
	contacts := g.crm.Contacts()
	deals := g.crm.Deals()
	comms := g.crm.Communications()

	leadNodes := make(map[string]*cgraph.Node)
	for _, lead := range leads {
		node, err := graph.CreateNodeByName("lead_" + shortID(lead.ID))
		if err != nil {
			return "", fmt.Errorf("failed to create lead node: %w", err)
		}
		node.SetLabel(fmt.Sprintf("%s\n(%s)", lead.Name, lead.Status))
		node.SetShape("ellipse")
		node.SetStyle("filled")
		node.SetFillColor("lightgreen")
		leadNodes[lead.ID] = node
	}

	contactNodes := make(map[string]*cgraph.Node)
	for _, contact := range contacts {
		node, err := graph.CreateNodeByName("contact_" + shortID(contact.ID))
		if err != nil {
			return "", fmt.Errorf("failed to create contact node: %w", err)
		}
		node.SetLabel(fmt.Sprintf("%s\n%s", contact.Name, contact.Email))
		node.SetShape("ellipse")
		node.SetStyle("filled")
		node.SetFillColor("lightblue")
		contactNodes[contact.ID] = node
	}

	for _, deal := range deals {
		node, err := graph.CreateNodeByName("deal_" + shortID(deal.ID))
		if err != nil {
			return "", fmt.Errorf("failed to create deal node: %w", err)
		}
		node.SetLabel(fmt.Sprintf("%s\n$%dK\n(%s)", deal.Title, deal.Amount/100000, deal.Stage))
		node.SetShape("diamond")
		node.SetStyle("filled")
		node.SetFillColor("lightyellow")

		if leadNode, ok := leadNodes[deal.LeadID]; ok {
			edge, err := graph.CreateEdgeByName("", leadNode, node)
			if err != nil {
				return "", fmt.Errorf("failed to create edge: %w", err)
			}
			edge.SetLabel("deal")
		}
		if contactNode, ok := contactNodes[deal.ContactID]; ok {
			edge, err := graph.CreateEdgeByName("", contactNode, node)
			if err != nil {
				return "", fmt.Errorf("failed to create edge: %w", err)
			}
			edge.SetLabel("contact")
			edge.SetStyle("dotted")
		}
	}

	// Communications shown as dashed edges back to their lead or contact
	for _, comm := range comms {
		target := leadNodes[comm.LeadID]
		if target == nil {
			target = contactNodes[comm.ContactID]
		}
		if target == nil {
			continue
		}
		node, err := graph.CreateNodeByName("comm_" + shortID(comm.ID))
		if err != nil {
			return "", fmt.Errorf("failed to create communication node: %w", err)
		}
		node.SetLabel(comm.Channel)
		node.SetShape("note")

		edge, err := graph.CreateEdgeByName("", target, node)
		if err != nil {
			return "", fmt.Errorf("failed to create communication edge: %w", err)
		}
		edge.SetStyle("dashed")
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.XDOT, &buf); err != nil {
		return "", fmt.Errorf("failed to render graph: %w", err)
	}

	return buf.String(), nil
}
