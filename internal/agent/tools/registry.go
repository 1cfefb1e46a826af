package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	errx "github.com/solartech-poc/solarbot/internal/core/error"
	logx "github.com/solartech-poc/solarbot/pkg/logger"
)

// Registry holds the callable tool set. Infos() is the capability list the
// reasoning model sees; Invoke dispatches one named call. The declared schema
// and what InvokableRun accepts are the same object, so they cannot drift.
type Registry struct {
	tools map[string]tool.InvokableTool
	infos []*schema.ToolInfo
}

func NewRegistry(ctx context.Context, ts ...tool.InvokableTool) (*Registry, error) {
	r := &Registry{tools: make(map[string]tool.InvokableTool, len(ts))}
	for _, t := range ts {
		info, err := t.Info(ctx)
		if err != nil {
			return nil, fmt.Errorf("tool info: %w", err)
		}
		if _, dup := r.tools[info.Name]; dup {
			return nil, fmt.Errorf("duplicate tool name %q", info.Name)
		}
		r.tools[info.Name] = t
		r.infos = append(r.infos, info)
	}
	return r, nil
}

// Infos returns the tool declarations bound to the reasoning model.
func (r *Registry) Infos() []*schema.ToolInfo {
	return r.infos
}

// Invoke dispatches a named call with its raw JSON arguments. Failures carry
// an errx kind (ToolNotFound, ToolArgument, ToolExecution); the orchestrator
// converts them into result text for the model, never aborting the turn.
func (r *Registry) Invoke(ctx context.Context, name, argsJSON string) (string, error) {
	t, ok := r.tools[name]
	if !ok {
		logx.Warn().Str("tool_name", name).Str("arguments", argsJSON).Msg("unknown tool call")
		return "", errx.Newf(errx.KindToolNotFound, "unknown tool %q", name)
	}

	logx.Debug().Str("tool_name", name).Str("arguments", argsJSON).Msg("executing tool")
	out, err := t.InvokableRun(ctx, argsJSON)
	if err != nil {
		var e *errx.Error
		if errors.As(err, &e) {
			return "", err
		}
		return "", errx.Wrap(errx.KindToolExecution, err, fmt.Sprintf("tool %s failed", name))
	}
	return out, nil
}

// ResultText renders an Invoke outcome into the text fed back to the model.
// Errors are surfaced plainly so the model can self-correct in its reply.
func ResultText(name, out string, err error) string {
	if err == nil {
		return out
	}
	switch errx.KindOf(err) {
	case errx.KindToolNotFound:
		return fmt.Sprintf("Error: la herramienta %q no existe.", name)
	case errx.KindToolArgument:
		return fmt.Sprintf("Error de argumentos en %s: %v", name, err)
	default:
		return fmt.Sprintf("Error ejecutando %s: %v", name, err)
	}
}
