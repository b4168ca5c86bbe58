// ABOUTME: Conversational-AI call MCP tool handlers
// ABOUTME: Implements start_call, end_call, and list_voices tools
package handlers

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"salespad/models"
	"salespad/store"
)

type CallHandlers struct {
	caller *store.CallerStore
}

func NewCallHandlers(caller *store.CallerStore) *CallHandlers {
	return &CallHandlers{caller: caller}
}

type StartCallInput struct {
	Phone    string `json:"phone" jsonschema:"Phone number to dial (required)"`
	LeadID   string `json:"lead_id,omitempty" jsonschema:"Lead the call is about"`
	VoiceID  string `json:"voice_id,omitempty" jsonschema:"Synthesized voice to use"`
	ScriptID string `json:"script_id,omitempty" jsonschema:"Call script to follow"`
}

type CallOutput struct {
	ID          string `json:"id"`
	LeadID      string `json:"lead_id,omitempty"`
	Phone       string `json:"phone"`
	VoiceID     string `json:"voice_id,omitempty"`
	ScriptID    string `json:"script_id,omitempty"`
	Status      string `json:"status"`
	DurationSec int    `json:"duration_sec,omitempty"`
	Transcript  string `json:"transcript,omitempty"`
}

func (h *CallHandlers) StartCall(ctx context.Context, request *mcp.CallToolRequest, input StartCallInput) (*mcp.CallToolResult, CallOutput, error) {
	if input.Phone == "" {
		return nil, CallOutput{}, fmt.Errorf("phone is required")
	}

	call, err := h.caller.StartCall(ctx, models.AICall{
		Phone:    input.Phone,
		LeadID:   input.LeadID,
		VoiceID:  input.VoiceID,
		ScriptID: input.ScriptID,
	})
	if err != nil {
		return nil, CallOutput{}, fmt.Errorf("failed to start call: %w", err)
	}

	return nil, callToOutput(call), nil
}

type EndCallInput struct {
	ID string `json:"id" jsonschema:"Call ID (required)"`
}

func (h *CallHandlers) EndCall(ctx context.Context, request *mcp.CallToolRequest, input EndCallInput) (*mcp.CallToolResult, CallOutput, error) {
	if input.ID == "" {
		return nil, CallOutput{}, fmt.Errorf("id is required")
	}

	ended, err := h.caller.EndCall(ctx, input.ID)
	if err != nil {
		return nil, CallOutput{}, fmt.Errorf("failed to end call: %w", err)
	}

	return nil, callToOutput(ended), nil
}

type ListVoicesInput struct{}

type VoiceOutput struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Language string `json:"language,omitempty"`
	Gender   string `json:"gender,omitempty"`
}

type ListVoicesOutput struct {
	Voices []VoiceOutput `json:"voices"`
	Count  int           `json:"count"`
}

func (h *CallHandlers) ListVoices(ctx context.Context, request *mcp.CallToolRequest, input ListVoicesInput) (*mcp.CallToolResult, ListVoicesOutput, error) {
	if err := refreshVoices(ctx, h.caller); err != nil {
		return nil, ListVoicesOutput{}, err
	}

	var results []VoiceOutput
	for _, voice := range h.caller.Voices() {
		results = append(results, VoiceOutput{
			ID:       voice.ID,
			Name:     voice.Name,
			Language: voice.Language,
			Gender:   voice.Gender,
		})
	}

	return nil, ListVoicesOutput{Voices: results, Count: len(results)}, nil
}

func callToOutput(call models.AICall) CallOutput {
	return CallOutput{
		ID:          call.ID,
		LeadID:      call.LeadID,
		Phone:       call.Phone,
		VoiceID:     call.VoiceID,
		ScriptID:    call.ScriptID,
		Status:      call.Status,
		DurationSec: call.DurationSec,
		Transcript:  call.Transcript,
	}
}
