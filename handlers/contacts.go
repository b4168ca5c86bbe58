// ABOUTME: Contact MCP tool handlers
// ABOUTME: Implements add_contact, find_contacts, update_contact, and log_communication tools
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"salespad/models"
	"salespad/store"
)

type ContactHandlers struct {
	crm *store.CRMStore
}

func NewContactHandlers(crm *store.CRMStore) *ContactHandlers {
	return &ContactHandlers{crm: crm}
}

type AddContactInput struct {
	Name    string `json:"name" jsonschema:"Contact name (required)"`
	Email   string `json:"email,omitempty" jsonschema:"Email address"`
	Phone   string `json:"phone,omitempty" jsonschema:"Phone number"`
	Company string `json:"company,omitempty" jsonschema:"Company name"`
	Title   string `json:"title,omitempty" jsonschema:"Job title"`
	Notes   string `json:"notes,omitempty" jsonschema:"Free-form notes"`
}

type ContactOutput struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Company   string `json:"company,omitempty"`
	Title     string `json:"title,omitempty"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func (h *ContactHandlers) AddContact(ctx context.Context, request *mcp.CallToolRequest, input AddContactInput) (*mcp.CallToolResult, ContactOutput, error) {
	if input.Name == "" {
		return nil, ContactOutput{}, fmt.Errorf("name is required")
	}

	contact, err := h.crm.CreateContact(ctx, models.Contact{
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		Company: input.Company,
		Title:   input.Title,
		Notes:   input.Notes,
	})
	if err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to create contact: %w", err)
	}

	return nil, contactToOutput(contact), nil
}

type FindContactsInput struct {
	Query string `json:"query,omitempty" jsonschema:"Search query matched against name, email, and company"`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum results to return (default 10)"`
}

type FindContactsOutput struct {
	Contacts []ContactOutput `json:"contacts"`
	Count    int             `json:"count"`
}

func (h *ContactHandlers) FindContacts(ctx context.Context, request *mcp.CallToolRequest, input FindContactsInput) (*mcp.CallToolResult, FindContactsOutput, error) {
	if input.Limit == 0 {
		input.Limit = 10
	}

	if err := refreshContacts(ctx, h.crm); err != nil {
		return nil, FindContactsOutput{}, err
	}

	var results []ContactOutput
	for _, contact := range h.crm.Contacts() {
		if input.Query != "" && !matchesContact(contact, input.Query) {
			continue
		}
		results = append(results, contactToOutput(contact))
		if len(results) >= input.Limit {
			break
		}
	}

	return nil, FindContactsOutput{Contacts: results, Count: len(results)}, nil
}

type UpdateContactInput struct {
	ID      string `json:"id" jsonschema:"Contact ID (required)"`
	Name    string `json:"name,omitempty" jsonschema:"Updated name"`
	Email   string `json:"email,omitempty" jsonschema:"Updated email"`
	Phone   string `json:"phone,omitempty" jsonschema:"Updated phone"`
	Company string `json:"company,omitempty" jsonschema:"Updated company"`
	Title   string `json:"title,omitempty" jsonschema:"Updated job title"`
	Notes   string `json:"notes,omitempty" jsonschema:"Updated notes"`
}

func (h *ContactHandlers) UpdateContact(ctx context.Context, request *mcp.CallToolRequest, input UpdateContactInput) (*mcp.CallToolResult, ContactOutput, error) {
	if input.ID == "" {
		return nil, ContactOutput{}, fmt.Errorf("id is required")
	}

	updated, err := h.crm.UpdateContact(ctx, input.ID, models.Contact{
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		Company: input.Company,
		Title:   input.Title,
		Notes:   input.Notes,
	})
	if err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to update contact: %w", err)
	}

	return nil, contactToOutput(updated), nil
}

type LogCommunicationInput struct {
	LeadID    string `json:"lead_id,omitempty" jsonschema:"Lead ID the touchpoint belongs to"`
	ContactID string `json:"contact_id,omitempty" jsonschema:"Contact ID the touchpoint belongs to"`
	Channel   string `json:"channel" jsonschema:"Channel: call, email, sms, meeting (required)"`
	Direction string `json:"direction,omitempty" jsonschema:"inbound or outbound"`
	Subject   string `json:"subject,omitempty" jsonschema:"Short subject line"`
	Body      string `json:"body,omitempty" jsonschema:"Touchpoint details"`
}

type CommunicationOutput struct {
	ID        string `json:"id"`
	LeadID    string `json:"lead_id,omitempty"`
	ContactID string `json:"contact_id,omitempty"`
	Channel   string `json:"channel"`
	Direction string `json:"direction,omitempty"`
	Subject   string `json:"subject,omitempty"`
	Body      string `json:"body,omitempty"`
	CreatedAt string `json:"created_at"`
}

func (h *ContactHandlers) LogCommunication(ctx context.Context, request *mcp.CallToolRequest, input LogCommunicationInput) (*mcp.CallToolResult, CommunicationOutput, error) {
	if input.Channel == "" {
		return nil, CommunicationOutput{}, fmt.Errorf("channel is required")
	}
	if !isValidChannel(input.Channel) {
		return nil, CommunicationOutput{}, fmt.Errorf("invalid channel: %s (valid: call, email, sms, meeting)", input.Channel)
	}
	if input.LeadID == "" && input.ContactID == "" {
		return nil, CommunicationOutput{}, fmt.Errorf("lead_id or contact_id is required")
	}

	comm, err := h.crm.LogCommunication(ctx, models.Communication{
		LeadID:    input.LeadID,
		ContactID: input.ContactID,
		Channel:   input.Channel,
		Direction: input.Direction,
		Subject:   input.Subject,
		Body:      input.Body,
	})
	if err != nil {
		return nil, CommunicationOutput{}, fmt.Errorf("failed to log communication: %w", err)
	}

	return nil, communicationToOutput(comm), nil
}

func matchesContact(contact models.Contact, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(contact.Name), q) ||
		strings.Contains(strings.ToLower(contact.Email), q) ||
		strings.Contains(strings.ToLower(contact.Company), q)
}

func isValidChannel(channel string) bool {
	switch channel {
	case models.ChannelCall, models.ChannelEmail, models.ChannelSMS, models.ChannelMeeting:
		return true
	}
	return false
}

func contactToOutput(contact models.Contact) ContactOutput {
	return ContactOutput{
		ID:        contact.ID,
		Name:      contact.Name,
		Email:     contact.Email,
		Phone:     contact.Phone,
		Company:   contact.Company,
		Title:     contact.Title,
		Notes:     contact.Notes,
		CreatedAt: contact.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: contact.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func communicationToOutput(comm models.Communication) CommunicationOutput {
	return CommunicationOutput{
		ID:        comm.ID,
		LeadID:    comm.LeadID,
		ContactID: comm.ContactID,
		Channel:   comm.Channel,
		Direction: comm.Direction,
		Subject:   comm.Subject,
		Body:      comm.Body,
		CreatedAt: comm.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
