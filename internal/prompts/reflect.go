// Package prompts implements the MCP prompt handlers.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// ReflectPrompt handles the reflect MCP prompt. It walks the assistant
// through capturing anything still unrecorded and then requesting a
// fresh analysis.
type ReflectPrompt struct{}

// NewReflectPrompt creates a ReflectPrompt.
func NewReflectPrompt() *ReflectPrompt {
	return &ReflectPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *ReflectPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("reflect",
		mcp.WithPromptDescription(
			"Run a reflection session: capture any unlogged thoughts or sessions, "+
				"then generate a cognitive-analysis report over everything new.",
		),
		mcp.WithArgument("owner_id",
			mcp.ArgumentDescription("Identifier of the user to reflect for"),
		),
	)
}

// Handle processes the reflect prompt request.
func (p *ReflectPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	owner := "me"
	if args := req.Params.Arguments; args != nil {
		if v, ok := args["owner_id"]; ok && v != "" {
			owner = v
		}
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Reflection session for %s", owner),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I want to reflect on my recent days (owner_id: %s).\n\n"+
						"Please:\n"+
						"1. Ask me if there are thoughts, work sessions or sport activities I haven't logged yet; "+
						"record them with `log_thought`, `log_timer_session` and `log_sport_session`\n"+
						"2. Run `run_analysis` with owner_id='%s'\n"+
						"3. Walk me through the report section by section and ask what resonates\n",
					owner, owner,
				)),
			},
		},
	}, nil
}
