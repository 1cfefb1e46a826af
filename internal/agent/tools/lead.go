package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"github.com/solartech-poc/solarbot/internal/agent/model"
	errx "github.com/solartech-poc/solarbot/internal/core/error"
	logx "github.com/solartech-poc/solarbot/pkg/logger"
)

const ToolUpdateLeadInfo = "update_lead_info"

type updateLeadArgs struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	Stage *string `json:"stage,omitempty"`
}

// updateLeadTool mutates the resolved lead's profile. Only fields present in
// the arguments are touched; the write is committed before the success text
// is returned.
type updateLeadTool struct {
	leads model.LeadRepository
}

func NewUpdateLeadTool(leads model.LeadRepository) tool.InvokableTool {
	return &updateLeadTool{leads: leads}
}

func (t *updateLeadTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: ToolUpdateLeadInfo,
		Desc: "Guarda o actualiza el nombre, email o etapa de venta del usuario. Debes llamarla siempre que el usuario revele un dato nuevo de su perfil o cuando su etapa deba cambiar.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"name": {
				Type: "string",
				Desc: "Nombre del usuario tal como lo dijo.",
			},
			"email": {
				Type: "string",
				Desc: "Correo electronico del usuario.",
			},
			"stage": {
				Type: "string",
				Desc: "Nueva etapa de venta del usuario.",
				Enum: model.StageNames(),
			},
		}),
	}, nil
}

func (t *updateLeadTool) InvokableRun(ctx context.Context, argsJSON string, _ ...tool.Option) (string, error) {
	var args updateLeadArgs
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return "", errx.Wrap(errx.KindToolArgument, err, "update_lead_info: malformed arguments")
	}

	lead, ok := LeadFrom(ctx)
	if !ok {
		return "", errx.Newf(errx.KindToolExecution, "update_lead_info: no lead resolved for this turn")
	}

	patch := model.LeadPatch{Name: args.Name, Email: args.Email}
	if args.Stage != nil {
		stage, err := model.ParseStage(*args.Stage)
		if err != nil {
			return "", errx.Wrap(errx.KindToolArgument, err, "update_lead_info: invalid stage")
		}
		patch.Stage = &stage
	}
	if patch.Empty() {
		return "", errx.Newf(errx.KindToolArgument, "update_lead_info: no fields to update")
	}

	updated, err := t.leads.Update(ctx, lead.ExternalID, patch)
	if err != nil {
		return "", errx.Wrap(errx.KindToolExecution, err, "update_lead_info: update failed")
	}

	// Callers inside the same turn keep working with the fresh profile.
	*lead = *updated

	logx.Info().
		Str("external_id", updated.ExternalID).
		Str("stage", string(updated.Stage)).
		Msg("lead profile updated")

	var parts []string
	if args.Name != nil {
		parts = append(parts, fmt.Sprintf("nombre=%s", updated.Name))
	}
	if args.Email != nil {
		parts = append(parts, fmt.Sprintf("email=%s", updated.Email))
	}
	if patch.Stage != nil {
		parts = append(parts, fmt.Sprintf("etapa=%s", updated.Stage))
	}
	return fmt.Sprintf("Informacion actualizada en base de datos: %s.", strings.Join(parts, ", ")), nil
}
