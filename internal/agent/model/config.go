package model

// ================ Config ================

type ReasoningModelConfig struct {
	Model       string  `envconfig:"REASONING_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"REASONING_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"REASONING_TEMPERATURE" default:"0.0"`
	TimeoutSec  int     `envconfig:"REASONING_TIMEOUT_SECONDS" default:"30"`
}

type ConversationConfig struct {
	// HistoryWindow is the number of persisted messages handed to the model
	// per turn. Older turns silently fall out of context.
	HistoryWindow int `envconfig:"CONVERSATION_HISTORY_WINDOW" default:"10"`
	// TTL expires the message list on touch when non-zero ("15m", "24h").
	// Lead records themselves never expire.
	TTL string `envconfig:"CONVERSATION_TTL" default:"0"`
}

type RetrievalConfig struct {
	TopK int `envconfig:"RETRIEVAL_TOP_K" default:"3"`
	// MinQueryChars skips the knowledge query for trivially short messages.
	MinQueryChars int `envconfig:"RETRIEVAL_MIN_QUERY_CHARS" default:"5"`
	TimeoutSec    int `envconfig:"RETRIEVAL_TIMEOUT_SECONDS" default:"5"`
}

type PromptConfig struct {
	BotName      string `envconfig:"PROMPT_BOT_NAME" default:"SolarBot"`
	BusinessName string `envconfig:"PROMPT_BUSINESS_NAME" default:"SolarTech"`
}

type KnowledgeConfig struct {
	// Path is the chromem persistence directory. Empty keeps the index in
	// memory, matching the original course-demo behavior of rebuilding the
	// collection on every boot.
	Path           string `envconfig:"KNOWLEDGE_PATH"`
	EmbeddingModel string `envconfig:"EMBEDDING_MODEL" default:"gemini-embedding-001"`
	// PDFPath is the corpus ingested on startup when it exists.
	PDFPath string `envconfig:"KNOWLEDGE_PDF" default:"data/conocimiento.pdf"`
}

type EmailConfig struct {
	SMTPHost string `envconfig:"EMAIL_SMTP_HOST" default:"smtp.gmail.com"`
	SMTPPort int    `envconfig:"EMAIL_SMTP_PORT" default:"465"`
	Sender   string `envconfig:"EMAIL_SENDER"`
	Password string `envconfig:"EMAIL_PASSWORD"`
}
