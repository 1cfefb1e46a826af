package tools

import (
	"context"

	"github.com/solartech-poc/solarbot/internal/agent/model"
)

type leadCtxKey struct{}

// WithLead attaches the resolved lead of the current turn to the context.
// The model never passes the lead identity in tool arguments; tools read it
// from here instead.
func WithLead(ctx context.Context, lead *model.Lead) context.Context {
	return context.WithValue(ctx, leadCtxKey{}, lead)
}

// LeadFrom extracts the current turn's lead from the context.
func LeadFrom(ctx context.Context) (*model.Lead, bool) {
	lead, ok := ctx.Value(leadCtxKey{}).(*model.Lead)
	return lead, ok && lead != nil
}
