package nutriplan

type ModelConfig struct {
	ModelID     string  `env:"MODEL_ID,required"`
	MaxTokens   int32   `env:"MAX_TOKENS,default=4096"`
	Temperature float32 `env:"TEMPERATURE,default=0.2"`
	TopP        float32 `env:"TOP_P,default=0.9"`
}

type PlannerConfig struct {
	ProfilePath        string `env:"PROFILE_PATH,default=artifacts/profile.json"`
	PlansDir           string `env:"PLANS_DIR,default=artifacts/plans"`
	HistoryDBPath      string `env:"HISTORY_DB_PATH,default=artifacts/history.db"`
	BaseOllamaEndpoint string `env:"BASE_OLLAMA_ENDPOINT,default=http://localhost:11434"`
	SlackWebhookURL    string `env:"SLACK_WEBHOOK_URL"`
	SlackChannel       string `env:"SLACK_CHANNEL,default=#nutrition"`
}

type S3Config struct {
	Bucket      string `env:"ARTIFACTS_S3_BUCKET"`
	ProfileKey  string `env:"ARTIFACTS_PROFILE_S3_KEY,default=profiles/profile.json"`
	PlansPrefix string `env:"ARTIFACTS_PLANS_S3_PREFIX,default=plans/"`
}
