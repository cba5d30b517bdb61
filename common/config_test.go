package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		GenAIAPIKey:       "test-key",
		GenAIImageFormat:  "base64",
		SessionTTLMinutes: 30,
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("valid base64 config", func(t *testing.T) {
		require.NoError(t, validConfig().Validate())
	})

	t.Run("missing api key", func(t *testing.T) {
		cfg := validConfig()
		cfg.GenAIAPIKey = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "GEMINI_API_KEY")
	})

	t.Run("url format requires bucket", func(t *testing.T) {
		cfg := validConfig()
		cfg.GenAIImageFormat = "url"
		require.Error(t, cfg.Validate())

		cfg.OSSBucket = "artify"
		require.NoError(t, cfg.Validate())
		assert.True(t, cfg.UploadEnabled())
	})

	t.Run("unknown image format", func(t *testing.T) {
		cfg := validConfig()
		cfg.GenAIImageFormat = "gif"
		assert.Error(t, cfg.Validate())
	})

	t.Run("negative limits", func(t *testing.T) {
		cfg := validConfig()
		cfg.GenAITimeoutSeconds = -1
		assert.Error(t, cfg.Validate())

		cfg = validConfig()
		cfg.GenAIRateLimitPerMinute = -5
		assert.Error(t, cfg.Validate())

		cfg = validConfig()
		cfg.SessionTTLMinutes = 0
		assert.Error(t, cfg.Validate())
	})
}

func TestConfig_Helpers(t *testing.T) {
	cfg := validConfig()
	cfg.ServerAddress = "127.0.0.1"
	cfg.ServerPort = "9090"
	cfg.GenAITimeoutSeconds = 45

	assert.Equal(t, "127.0.0.1:9090", cfg.GetServerAddr())
	assert.Equal(t, 45*time.Second, cfg.GenAITimeout())
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL())
	assert.False(t, cfg.UploadEnabled())
	assert.Zero(t, cfg.OSSSignedURLExpire())

	cfg.OSSSignedURLExpireSeconds = 600
	assert.Equal(t, 10*time.Minute, cfg.OSSSignedURLExpire())
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("ARTIFY_TEST_INT", "12")
	t.Setenv("ARTIFY_TEST_BAD_INT", "twelve")
	t.Setenv("ARTIFY_TEST_BOOL", "yes")

	assert.Equal(t, 12, getEnvInt("ARTIFY_TEST_INT", 1))
	assert.Equal(t, 1, getEnvInt("ARTIFY_TEST_BAD_INT", 1))
	assert.Equal(t, 7, getEnvInt("ARTIFY_TEST_MISSING", 7))
	assert.True(t, getEnvBool("ARTIFY_TEST_BOOL", false))
	assert.Equal(t, "fallback", getEnv("ARTIFY_TEST_MISSING", "fallback"))
}
