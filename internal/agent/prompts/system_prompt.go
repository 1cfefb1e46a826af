package prompts

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/solartech-poc/solarbot/internal/agent/model"
	"github.com/solartech-poc/solarbot/internal/agent/tools"
)

//go:embed template/system_prompt.txt
var systemPromptTemplate string

// unidentifiedLead is what the model sees before the lead gave a name.
const unidentifiedLead = "No identificado"

// FormatPassages renders retrieved passages into the citation block the
// model quotes from, one "[Fuente: <source>, Pag: <page>] <text>" line per
// passage. No passages renders an empty block.
func FormatPassages(passages []model.Passage) string {
	var b strings.Builder
	for _, p := range passages {
		fmt.Fprintf(&b, "[Fuente: %s, Pag: %d] %s\n", p.Source, p.Page, p.Text)
	}
	return b.String()
}

// RenderSystem deterministically assembles the system instruction for one
// turn: persona framing, the retrieved-context block, the lead's profile
// summary and the stage/tool policy. Pure aside from template rendering, so
// it is unit-testable without any external service.
func RenderSystem(ctx context.Context, cfg model.PromptConfig, lead *model.Lead, passages []model.Passage) (string, error) {
	leadName := lead.Name
	if strings.TrimSpace(leadName) == "" {
		leadName = unidentifiedLead
	}

	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(systemPromptTemplate),
	)
	vars := map[string]any{
		"BotName":      cfg.BotName,
		"BusinessName": cfg.BusinessName,
		"Context":      FormatPassages(passages),
		"LeadName":     leadName,
		"LeadStage":    string(lead.Stage),
		"Stages":       strings.Join(model.StageNames(), " -> "),
		"UpdateTool":   tools.ToolUpdateLeadInfo,
		"EmailTool":    tools.ToolSendEmail,
	}

	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("system prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("system prompt render: empty result")
	}
	return msgs[0].Content, nil
}
