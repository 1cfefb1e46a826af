package tools

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	errx "github.com/solartech-poc/solarbot/internal/core/error"
	"github.com/solartech-poc/solarbot/internal/mail"
	logx "github.com/solartech-poc/solarbot/pkg/logger"
)

const ToolSendEmail = "send_email"

type sendEmailArgs struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// sendEmailTool sends an informational email to the user. All three
// arguments are required; delivery failures come back as ToolExecution
// errors and the orchestrator feeds them to the model as error text.
type sendEmailTool struct {
	sender mail.Sender
}

func NewSendEmailTool(sender mail.Sender) tool.InvokableTool {
	return &sendEmailTool{sender: sender}
}

func (t *sendEmailTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: ToolSendEmail,
		Desc: "Envia un correo electronico con informacion al usuario. Usala cuando el usuario pida recibir detalles por correo.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"to_email": {
				Type:     "string",
				Desc:     "Direccion de correo destino.",
				Required: true,
			},
			"subject": {
				Type:     "string",
				Desc:     "Asunto del correo.",
				Required: true,
			},
			"body": {
				Type:     "string",
				Desc:     "Cuerpo del correo en texto plano.",
				Required: true,
			},
		}),
	}, nil
}

func (t *sendEmailTool) InvokableRun(ctx context.Context, argsJSON string, _ ...tool.Option) (string, error) {
	var args sendEmailArgs
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return "", errx.Wrap(errx.KindToolArgument, err, "send_email: malformed arguments")
	}

	var missing []string
	if strings.TrimSpace(args.ToEmail) == "" {
		missing = append(missing, "to_email")
	}
	if strings.TrimSpace(args.Subject) == "" {
		missing = append(missing, "subject")
	}
	if strings.TrimSpace(args.Body) == "" {
		missing = append(missing, "body")
	}
	if len(missing) > 0 {
		return "", errx.Newf(errx.KindToolArgument, "send_email: missing required arguments: %s", strings.Join(missing, ", "))
	}

	if err := t.sender.Send(ctx, args.ToEmail, args.Subject, args.Body); err != nil {
		logx.Warn().Err(err).Str("to", args.ToEmail).Msg("email delivery failed")
		return "", errx.Wrap(errx.KindToolExecution, err, "send_email: delivery failed")
	}

	logx.Info().Str("to", args.ToEmail).Str("subject", args.Subject).Msg("email sent")
	return "Correo enviado exitosamente.", nil
}
