package gemini

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"artify-me/common"
	"artify-me/internal/utils"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// StylePrompt 每个提示词前都会拼接的固定画风描述
const StylePrompt = "A stylized digital portrait in the artistic style of WLOP, eggylicky, and annteya. Cinematic lighting, expressive, rich color texture."

const (
	// 文生图只要一张 1:1 的 JPEG
	generateNumberOfImages = 1
	generateMimeType       = "image/jpeg"
	generateAspectRatio    = "1:1"

	// 图生图只要求返回图片
	responseModalityImage = "IMAGE"
)

// modelsAPI 是 genai.Models 中用到的两个方法，便于测试替换
type modelsAPI interface {
	GenerateImages(ctx context.Context, model string, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error)
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client Gemini 客户端实现
type Client struct {
	models    modelsAPI
	genModel  string
	editModel string
	timeout   time.Duration
	limiter   *rate.Limiter
}

// Config Gemini 客户端配置
type Config struct {
	APIKey  string // API Key
	BaseURL string // 自定义 Base URL，如果为空则使用默认值
	// 分别用于文生图与图生图的模型名称
	GenerateModelName string
	EditModelName     string
	// 单次请求超时时间，0 表示不设置
	Timeout time.Duration
	// 每分钟最多请求次数，0 表示不限流
	RateLimitPerMinute int
}

// NewClient 创建新的 Gemini 客户端
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	// 构建客户端配置
	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}

	// 如果提供了自定义 Base URL，设置 HTTPOptions
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{
			BaseURL: cfg.BaseURL,
		}
	}

	client, err := genai.NewClient(context.Background(), clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return newClient(client.Models, cfg)
}

// newClient 用给定的 models 实现组装客户端
func newClient(models modelsAPI, cfg Config) (*Client, error) {
	if models == nil {
		return nil, fmt.Errorf("models is required")
	}

	genModel := cfg.GenerateModelName
	if genModel == "" {
		genModel = common.DefaultGenModelName
	}
	editModel := cfg.EditModelName
	if editModel == "" {
		editModel = common.DefaultEditModelName
	}

	var limiter *rate.Limiter
	if cfg.RateLimitPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RateLimitPerMinute)), 1)
	}

	return &Client{
		models:    models,
		genModel:  genModel,
		editModel: editModel,
		timeout:   cfg.Timeout,
		limiter:   limiter,
	}, nil
}

// GenerateFromText 文生图：把画风描述拼在提示词前，请求一张 1:1 的 JPEG
func (c *Client) GenerateFromText(ctx context.Context, prompt string) (string, error) {
	fullPrompt := fmt.Sprintf("%s %s", StylePrompt, prompt)

	common.WithFields(map[string]interface{}{
		"model":  c.genModel,
		"prompt": utils.TruncateForLog(prompt, 120),
	}).Debug("Starting image generation")

	ctx, cancel, err := c.prepare(ctx)
	if err != nil {
		return "", &Failure{Kind: KindTransport, Op: "generate", Message: "failed to generate image", Err: err}
	}
	defer cancel()

	resp, err := c.models.GenerateImages(ctx, c.genModel, fullPrompt, &genai.GenerateImagesConfig{
		NumberOfImages: generateNumberOfImages,
		OutputMIMEType: generateMimeType,
		AspectRatio:    generateAspectRatio,
	})
	if err != nil {
		common.WithError(err).WithField("model", c.genModel).Error("Failed to generate image from Imagen API")
		return "", &Failure{Kind: KindTransport, Op: "generate", Message: "failed to generate image", Err: err}
	}

	data, failure := extractGeneratedImage(resp)
	if failure != nil {
		common.WithFields(map[string]interface{}{
			"model":  c.genModel,
			"reason": failure.FinishReason,
		}).Warn("Imagen returned no image")
		return "", failure
	}

	common.WithFields(map[string]interface{}{
		"model": c.genModel,
		"size":  len(data),
	}).Debug("Image generated successfully")

	return base64.StdEncoding.EncodeToString(data), nil
}

// TransformImage 图生图：把源图片和 "Re-draw this image as ..." 指令一起发给模型，只要求返回图片
func (c *Client) TransformImage(ctx context.Context, imageB64, mimeType, prompt string) (string, error) {
	fullPrompt := strings.TrimSpace(fmt.Sprintf("Re-draw this image as %s %s", StylePrompt, prompt))

	imageData, err := base64.StdEncoding.DecodeString(imageB64)
	if err != nil {
		return "", &Failure{Kind: KindTransformFailed, Op: "transform", Message: "invalid source image", Err: err}
	}

	common.WithFields(map[string]interface{}{
		"model":     c.editModel,
		"prompt":    utils.TruncateForLog(prompt, 120),
		"mime_type": mimeType,
		"size":      len(imageData),
	}).Debug("Starting image transformation")

	ctx, cancel, err := c.prepare(ctx)
	if err != nil {
		return "", &Failure{Kind: KindTransport, Op: "transform", Message: "failed to transform image", Err: err}
	}
	defer cancel()

	// 构建请求内容：源图片在前，指令在后
	parts := []*genai.Part{
		{
			InlineData: &genai.Blob{
				Data:     imageData,
				MIMEType: mimeType,
			},
		},
		{Text: fullPrompt},
	}

	result, err := c.models.GenerateContent(ctx, c.editModel, []*genai.Content{
		{Role: string(genai.RoleUser), Parts: parts},
	}, &genai.GenerateContentConfig{
		ResponseModalities: []string{responseModalityImage},
	})
	if err != nil {
		common.WithError(err).WithField("model", c.editModel).Error("Failed to transform image from Gemini API")
		return "", &Failure{Kind: KindTransport, Op: "transform", Message: "failed to transform image", Err: err}
	}

	data, failure := extractInlineImage(result)
	if failure != nil {
		common.WithFields(map[string]interface{}{
			"model":  c.editModel,
			"reason": failure.FinishReason,
		}).Warn("Gemini returned no image part")
		return "", failure
	}

	common.WithFields(map[string]interface{}{
		"model": c.editModel,
		"size":  len(data),
	}).Debug("Image transformed successfully")

	return base64.StdEncoding.EncodeToString(data), nil
}

// prepare 按配置等待限流并设置超时
func (c *Client) prepare(ctx context.Context) (context.Context, context.CancelFunc, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return ctx, func() {}, fmt.Errorf("rate limiter: %w", err)
		}
	}
	if c.timeout > 0 {
		ctx, cancel := context.WithTimeout(ctx, c.timeout)
		return ctx, cancel, nil
	}
	return ctx, func() {}, nil
}

// extractGeneratedImage 取出 Imagen 返回的第一张图片
func extractGeneratedImage(resp *genai.GenerateImagesResponse) ([]byte, *Failure) {
	if resp == nil || len(resp.GeneratedImages) == 0 {
		return nil, &Failure{Kind: KindGenerationFailed, Op: "generate", Message: "No image was generated."}
	}

	img := resp.GeneratedImages[0]
	if img == nil || img.Image == nil || len(img.Image.ImageBytes) == 0 {
		f := &Failure{Kind: KindGenerationFailed, Op: "generate", Message: "No image was generated."}
		if img != nil && img.RAIFilteredReason != "" {
			f.Message = fmt.Sprintf("No image was generated: %s", img.RAIFilteredReason)
		}
		return nil, f
	}
	return img.Image.ImageBytes, nil
}

// extractInlineImage 取出第一个候选结果中的第一个内联图片
func extractInlineImage(resp *genai.GenerateContentResponse) ([]byte, *Failure) {
	f := &Failure{Kind: KindTransformFailed, Op: "transform", Message: "No image was generated from transformation."}

	if resp == nil {
		return nil, f
	}
	if len(resp.Candidates) == 0 {
		// 提示词本身被拦截时没有候选结果，原因在 PromptFeedback 里
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			f.Message = fmt.Sprintf("%s Prompt blocked: %s", f.Message, resp.PromptFeedback.BlockReason)
		}
		return nil, f
	}

	candidate := resp.Candidates[0]
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data, nil
			}
		}
	}

	if candidate.FinishReason != "" && candidate.FinishReason != genai.FinishReasonStop {
		f.FinishReason = string(candidate.FinishReason)
	}
	if candidate.FinishMessage != "" {
		f.Message = fmt.Sprintf("%s %s", f.Message, candidate.FinishMessage)
	}
	return nil, f
}
