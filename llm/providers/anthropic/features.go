package anthropic

const (
	// https://docs.anthropic.com/en/docs/build-with-claude/extended-thinking?q=extended+output#extended-output-capabilities-beta
	FeatureOutput128k    = "output-128k-2025-02-19"
	FeatureExtendedCache = "extended-cache-ttl-2025-04-11"
	FeaturePromptCaching = "prompt-caching-2024-07-31"
	FeatureMCPClient     = "mcp-client-2025-04-04"
	FeatureCodeExecution = "code-execution-2025-05-22"
)
