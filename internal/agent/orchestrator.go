package agent

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	"github.com/solartech-poc/solarbot/internal/agent/model"
	"github.com/solartech-poc/solarbot/internal/agent/prompts"
	"github.com/solartech-poc/solarbot/internal/agent/tools"
	errx "github.com/solartech-poc/solarbot/internal/core/error"
	logx "github.com/solartech-poc/solarbot/pkg/logger"
)

// ChatModel is the slice of the eino chat-model surface the orchestrator
// needs. Both gemini models satisfy it; tests inject fakes.
type ChatModel interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error)
}

const (
	// toolAckReply covers the case where tools mutated state successfully
	// but neither reasoning round produced text.
	toolAckReply = "Listo, he registrado tu información. ¿En qué más puedo ayudarte?"
	// emptyReply is returned, without persisting, when no text and no
	// successful tool execution came out of the turn.
	emptyReply = "Lo siento, no pude generar una respuesta en este momento. ¿Puedes intentarlo de nuevo?"
)

// Config groups the orchestrator's tunables.
type Config struct {
	Conversation model.ConversationConfig
	Retrieval    model.RetrievalConfig
	Prompt       model.PromptConfig
}

func (c Config) reasoningTimeout(modelCfg model.ReasoningModelConfig) time.Duration {
	if modelCfg.TimeoutSec <= 0 {
		return 30 * time.Second
	}
	return time.Duration(modelCfg.TimeoutSec) * time.Second
}

// Orchestrator drives one inbound message through state lookup, retrieval,
// reasoning, tool execution and persistence, producing exactly one reply.
type Orchestrator struct {
	leads        model.LeadRepository
	retriever    model.Retriever
	registry     *tools.Registry
	tooled       ChatModel
	plain        ChatModel
	cfg          Config
	reasonBudget time.Duration
	locks        *turnLocks
}

// New wires the orchestrator. tooled must have the registry's tool schema
// bound; plain must not, so the second reasoning round cannot chain further
// tool calls.
func New(cfg Config, modelCfg model.ReasoningModelConfig, leads model.LeadRepository, retriever model.Retriever, registry *tools.Registry, tooled, plain ChatModel) *Orchestrator {
	return &Orchestrator{
		leads:        leads,
		retriever:    retriever,
		registry:     registry,
		tooled:       tooled,
		plain:        plain,
		cfg:          cfg,
		reasonBudget: cfg.reasoningTimeout(modelCfg),
		locks:        newTurnLocks(),
	}
}

// HandleTurn answers one inbound message for the given external id. The
// returned error is always an *errx.Error whose kind tells the transport
// how to phrase the failure; when err is nil the reply is final and, if
// non-empty content was produced, the exchange is persisted.
func (o *Orchestrator) HandleTurn(ctx context.Context, externalID, message string) (string, error) {
	release := o.locks.acquire(externalID)
	defer release()

	lead, created, err := o.leads.GetOrCreate(ctx, externalID)
	if err != nil {
		return "", errx.Wrap(errx.KindUserResolution, err, "resolving lead failed")
	}
	if created {
		logx.Info().Str("external_id", externalID).Msg("new lead created")
	}

	history, err := o.leads.RecentMessages(ctx, externalID, o.cfg.Conversation.HistoryWindow)
	if err != nil {
		return "", errx.Wrap(errx.KindUserResolution, err, "loading history failed")
	}

	passages := o.retrieve(ctx, message)

	system, err := prompts.RenderSystem(ctx, o.cfg.Prompt, lead, passages)
	if err != nil {
		return "", errx.Wrap(errx.KindReasoning, err, "assembling system prompt failed")
	}

	msgs := make([]*schema.Message, 0, len(history)+2)
	msgs = append(msgs, schema.SystemMessage(system))
	for _, m := range history {
		switch m.Role {
		case model.RoleUser:
			msgs = append(msgs, schema.UserMessage(m.Content))
		case model.RoleAssistant:
			msgs = append(msgs, schema.AssistantMessage(m.Content, nil))
		}
	}
	msgs = append(msgs, schema.UserMessage(message))

	first, err := o.generate(ctx, o.tooled, msgs)
	if err != nil {
		return "", errx.Wrap(errx.KindReasoning, err, "reasoning call failed")
	}

	reply := first.Content
	if len(first.ToolCalls) > 0 {
		reply, err = o.runTools(ctx, lead, msgs, first)
		if err != nil {
			return "", err
		}
	}

	if strings.TrimSpace(reply) == "" {
		logx.Warn().Str("external_id", externalID).Msg("turn produced no reply text; skipping persistence")
		return emptyReply, nil
	}

	if err := o.leads.AppendExchange(ctx, externalID, message, reply); err != nil {
		// Best effort: the user still gets the computed answer, the gap in
		// memory is reported instead of failing the turn.
		persistErr := errx.Wrap(errx.KindPersistence, err, "persisting exchange failed")
		logx.Error().Err(persistErr).Str("external_id", externalID).Msg("exchange not persisted")
	}
	return reply, nil
}

// retrieve queries the knowledge store unless the message is too short to be
// worth the cost. Backend failures degrade to "no relevant context found".
func (o *Orchestrator) retrieve(ctx context.Context, message string) []model.Passage {
	if utf8.RuneCountInString(strings.TrimSpace(message)) <= o.cfg.Retrieval.MinQueryChars {
		return nil
	}

	timeout := time.Duration(o.cfg.Retrieval.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	rctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	passages, err := o.retriever.Search(rctx, message, o.cfg.Retrieval.TopK)
	if err != nil {
		logx.Warn().Err(err).Msg("knowledge query failed; continuing with empty context")
		return nil
	}
	return passages
}

// runTools executes every tool call of the first reasoning round, pairing
// each result to its call id, then issues exactly one follow-up reasoning
// call with tools disabled. Individual tool failures become error result
// text for the model; they never abort the turn.
func (o *Orchestrator) runTools(ctx context.Context, lead *model.Lead, msgs []*schema.Message, first *schema.Message) (string, error) {
	// Some providers omit tool call ids; synthesize them so result pairing
	// stays exact.
	for i := range first.ToolCalls {
		if strings.TrimSpace(first.ToolCalls[i].ID) == "" {
			first.ToolCalls[i].ID = "call_" + uuid.NewString()
		}
	}

	msgs = append(msgs, first)

	toolCtx := tools.WithLead(ctx, lead)
	mutated := false
	for _, call := range first.ToolCalls {
		out, err := o.registry.Invoke(toolCtx, call.Function.Name, call.Function.Arguments)
		if err == nil {
			mutated = true
		}
		result := tools.ResultText(call.Function.Name, out, err)
		msgs = append(msgs, schema.ToolMessage(result, call.ID))
	}

	second, err := o.generate(ctx, o.plain, msgs)
	if err != nil {
		return "", errx.Wrap(errx.KindReasoning, err, "follow-up reasoning call failed")
	}

	reply := second.Content
	if strings.TrimSpace(reply) == "" && mutated {
		reply = toolAckReply
	}
	return reply, nil
}

func (o *Orchestrator) generate(ctx context.Context, m ChatModel, msgs []*schema.Message) (*schema.Message, error) {
	gctx, cancel := context.WithTimeout(ctx, o.reasonBudget)
	defer cancel()

	out, err := m.Generate(gctx, msgs)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, errx.Newf(errx.KindReasoning, "model returned no message")
	}
	return out, nil
}
