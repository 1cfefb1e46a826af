package prompts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solartech-poc/solarbot/internal/agent/model"
)

var testPromptCfg = model.PromptConfig{BotName: "SolarBot", BusinessName: "SolarTech"}

func TestRenderSystem(t *testing.T) {
	lead := &model.Lead{ExternalID: "555", Name: "Ana", Stage: model.StageQualifying}
	passages := []model.Passage{
		{Text: "El panel X500 produce 500W.", Source: "conocimiento.pdf", Page: 4},
		{Text: "La garantía cubre 25 años.", Source: "conocimiento.pdf", Page: 9},
	}

	out, err := RenderSystem(context.Background(), testPromptCfg, lead, passages)
	require.NoError(t, err)

	assert.Contains(t, out, "'SolarBot'")
	assert.Contains(t, out, "'SolarTech'")
	assert.Contains(t, out, "- Nombre: Ana")
	assert.Contains(t, out, "- Etapa actual: qualifying")
	assert.Contains(t, out, "[Fuente: conocimiento.pdf, Pag: 4] El panel X500 produce 500W.")
	assert.Contains(t, out, "[Fuente: conocimiento.pdf, Pag: 9] La garantía cubre 25 años.")
	assert.Contains(t, out, "update_lead_info")
	assert.Contains(t, out, "send_email")
	assert.Contains(t, out, "onboarding -> qualifying -> closing -> closed")
}

func TestRenderSystemUnidentifiedLead(t *testing.T) {
	lead := &model.Lead{ExternalID: "555", Stage: model.StageOnboarding}

	out, err := RenderSystem(context.Background(), testPromptCfg, lead, nil)
	require.NoError(t, err)

	assert.Contains(t, out, "- Nombre: No identificado")
	assert.Contains(t, out, "- Etapa actual: onboarding")
}

func TestRenderSystemIsDeterministic(t *testing.T) {
	lead := &model.Lead{ExternalID: "555", Name: "Ana", Stage: model.StageClosing}
	passages := []model.Passage{{Text: "texto", Source: "doc.pdf", Page: 1}}

	a, err := RenderSystem(context.Background(), testPromptCfg, lead, passages)
	require.NoError(t, err)
	b, err := RenderSystem(context.Background(), testPromptCfg, lead, passages)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestFormatPassagesEmpty(t *testing.T) {
	assert.Empty(t, FormatPassages(nil))
}
