package config

// ClassifierConfig represents the classifier backend selection
type ClassifierConfig struct {
	Enabled  bool
	Provider string
}

// TextConfig represents text normalization and chunking settings
type TextConfig struct {
	MaxBodyChars int
	ChunkWindow  int
	ChunkStride  int
	Aggregation  string
}

// FeedsConfig carries raw reputation feed values
type FeedsConfig struct {
	Domains string
	IPs     string
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// GetClassifier returns the classifier backend configuration
func (c *Config) GetClassifier() ClassifierConfig {
	return ClassifierConfig{
		Enabled:  c.GetBool("classifier.enabled"),
		Provider: c.GetString("classifier.provider"),
	}
}

// GetText returns the text analysis configuration
func (c *Config) GetText() TextConfig {
	return TextConfig{
		MaxBodyChars: c.GetInt("text.max_body_chars"),
		ChunkWindow:  c.GetInt("text.chunk_window"),
		ChunkStride:  c.GetInt("text.chunk_stride"),
		Aggregation:  c.GetString("text.aggregation"),
	}
}

// GetFeeds returns the raw reputation feed values
func (c *Config) GetFeeds() FeedsConfig {
	return FeedsConfig{
		Domains: c.GetString("feeds.domains"),
		IPs:     c.GetString("feeds.ips"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
	}
}
