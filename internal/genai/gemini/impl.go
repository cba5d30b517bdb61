package gemini

import (
	"fmt"

	"artify-me/common"
)

// NewClientFromConfig 从应用配置创建 Gemini 客户端
func NewClientFromConfig(cfg *common.Config) (*Client, error) {
	client, err := NewClient(Config{
		APIKey:             cfg.GenAIAPIKey,
		BaseURL:            cfg.GenAIBaseURL,
		GenerateModelName:  cfg.GenAIGenModelName,
		EditModelName:      cfg.GenAIEditModelName,
		Timeout:            cfg.GenAITimeout(),
		RateLimitPerMinute: cfg.GenAIRateLimitPerMinute,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	common.WithFields(map[string]interface{}{
		"gen_model":  client.genModel,
		"edit_model": client.editModel,
		"timeout":    cfg.GenAITimeout().String(),
		"rate_limit": cfg.GenAIRateLimitPerMinute,
	}).Info("Gemini client initialized")

	return client, nil
}
