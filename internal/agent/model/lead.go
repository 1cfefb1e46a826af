package model

import (
	"fmt"
	"strings"
	"time"
)

// Stage is a lead's position in the sales funnel. The set is closed: any
// other value is rejected at the tool-argument boundary instead of being
// stored as free text.
type Stage string

const (
	StageOnboarding Stage = "onboarding"
	StageQualifying Stage = "qualifying"
	StageClosing    Stage = "closing"
	StageClosed     Stage = "closed"
)

// Stages lists the legal funnel values in order.
var Stages = []Stage{StageOnboarding, StageQualifying, StageClosing, StageClosed}

// ParseStage validates v against the closed stage set.
func ParseStage(v string) (Stage, error) {
	s := Stage(strings.ToLower(strings.TrimSpace(v)))
	for _, known := range Stages {
		if s == known {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown stage %q (expected one of %v)", v, Stages)
}

// StageNames returns the stage values as plain strings, for tool enum schemas.
func StageNames() []string {
	out := make([]string, len(Stages))
	for i, s := range Stages {
		out[i] = string(s)
	}
	return out
}

// Lead is a CRM record keyed by the opaque external contact identifier
// (a phone number for the WhatsApp channel). The identifier is immutable
// once created; name, email and stage are mutated only through the tool path.
type Lead struct {
	ExternalID string
	Name       string
	Email      string
	Stage      Stage
	CreatedAt  time.Time
}

// LeadPatch carries the optional profile mutations of an update_lead_info
// call. Nil fields are left untouched.
type LeadPatch struct {
	Name  *string
	Email *string
	Stage *Stage
}

// Empty reports whether the patch mutates nothing.
func (p LeadPatch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Stage == nil
}

// Role tags a persisted conversation message. Intermediate tool-call and
// tool-result turns are never persisted, so only these two values exist.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one persisted conversation turn half.
type ChatMessage struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Passage is a retrieved knowledge fragment with its source attribution,
// formatted into the system prompt so replies can cite document and page.
type Passage struct {
	Text   string
	Source string
	Page   int
	Score  float32
}
