package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"artify-me/common"
	"artify-me/internal/i18n"
	"artify-me/internal/session"
	"artify-me/internal/studio"
	"artify-me/internal/upload"
	"artify-me/internal/utils"
)

// stdioSessionID 没有 MCP 会话信息时（stdio）使用的会话
const stdioSessionID = "stdio"

// ErrURLSourceDisabled 关闭了 URL 图片来源时返回
var ErrURLSourceDisabled = errors.New("url image sources are disabled")

// ArtifyTools 把 studio 的操作暴露为 MCP tools，每个 MCP 客户端对应一个会话
type ArtifyTools struct {
	store     *session.Store
	allowURLs bool
}

// Option 配置 ArtifyTools
type Option func(*ArtifyTools)

// WithURLSources 是否允许服务端下载 http(s) 图片，默认允许
func WithURLSources(allow bool) Option {
	return func(t *ArtifyTools) {
		t.allowURLs = allow
	}
}

// RegisterArtifyTools 注册图片生成、图片转换和使用说明三个 tool
func RegisterArtifyTools(s *server.MCPServer, store *session.Store, opts ...Option) *ArtifyTools {
	t := &ArtifyTools{store: store, allowURLs: true}
	for _, opt := range opts {
		opt(t)
	}

	s.AddTool(mcp.NewTool(
		"artify_generate_image",
		mcp.WithDescription("Create a stylized digital painting from a text description. Returns the image as JPEG."),
		mcp.WithString("prompt",
			mcp.Required(),
			mcp.Description("What to draw, e.g. a cozy cottage in a lush green valley"),
		),
		languageOption(),
	), t.GenerateImage)

	s.AddTool(mcp.NewTool(
		"artify_transform_image",
		mcp.WithDescription("Re-draw an existing image as a stylized digital painting. Accepts PNG, JPEG or WEBP up to 4MB. Returns the image as PNG."),
		mcp.WithString("image",
			mcp.Required(),
			mcp.Description("Source image as a data URI, raw base64, or HTTP/HTTPS URL"),
		),
		mcp.WithString("mime_type",
			mcp.Description("MIME type of a raw base64 image (image/png, image/jpeg or image/webp)"),
		),
		mcp.WithString("prompt",
			mcp.Description("Optional extra instructions for the transformation"),
		),
		languageOption(),
	), t.TransformImage)

	s.AddTool(mcp.NewTool(
		"artify_guidelines",
		mcp.WithDescription("Show tips for writing prompts that work well with Artify Me."),
		languageOption(),
	), t.Guidelines)

	return t
}

func languageOption() mcp.ToolOption {
	return mcp.WithString("language",
		mcp.Description("Language for messages: en or ar"),
		mcp.Enum(string(i18n.EN), string(i18n.AR)),
	)
}

// controller 按 MCP 会话取出控制器
func (t *ArtifyTools) controller(ctx context.Context, req mcp.CallToolRequest) *studio.Controller {
	id := stdioSessionID
	if cs := server.ClientSessionFromContext(ctx); cs != nil && cs.SessionID() != "" {
		id = cs.SessionID()
	}
	ctrl := t.store.GetOrCreate("mcp:" + id)
	if lang := req.GetString("language", ""); lang != "" {
		ctrl.SetLanguage(i18n.ParseLanguage(lang))
	}
	return ctrl
}

// GenerateImage 文生图
func (t *ArtifyTools) GenerateImage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctrl := t.controller(ctx, req)
	prompt := req.GetString("prompt", "")

	if err := ctrl.SetMode(studio.ModeTextToImage); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolResult(ctrl.SubmitSnapshot(ctx, prompt)), nil
}

// TransformImage 图生图
func (t *ArtifyTools) TransformImage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctrl := t.controller(ctx, req)
	lang := ctrl.Language()

	source := strings.TrimSpace(req.GetString("image", ""))
	if source == "" {
		return mcp.NewToolResultError(i18n.T(i18n.KeyErrorUpload, lang)), nil
	}
	img, err := t.loadImage(ctx, source, req.GetString("mime_type", ""))
	if err != nil {
		common.WithError(err).WithField("source", utils.TruncateForLog(source, 64)).Warn("Rejected MCP source image")
		return mcp.NewToolResultError(i18n.T(upload.MessageKey(err), lang)), nil
	}

	if err := ctrl.SetMode(studio.ModeImageToImage); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ctrl.SetUpload(img)
	return toolResult(ctrl.SubmitSnapshot(ctx, req.GetString("prompt", ""))), nil
}

// Guidelines 返回提示词指南的纯文本版本
func (t *ArtifyTools) Guidelines(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lang := t.controller(ctx, req).Language()
	return mcp.NewToolResultText(renderGuide(i18n.Guidelines(lang))), nil
}

// loadImage 支持 URL、data URI 和纯 base64
func (t *ArtifyTools) loadImage(ctx context.Context, source, mimeType string) (*upload.Image, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		if !t.allowURLs {
			return nil, ErrURLSourceDisabled
		}
		data, contentType, err := utils.DownloadImageFromURL(ctx, source, upload.MaxSize)
		if err != nil {
			return nil, fmt.Errorf("failed to download image: %w", err)
		}
		if mimeType == "" {
			mimeType = contentType
		}
		return upload.FromBytes(data, mimeType, source)
	}
	return upload.ParseDataURL(source, mimeType)
}

// toolResult 只依赖本次提交返回的快照，不再读取会话的当前状态
func toolResult(outcome studio.Outcome, snap studio.Snapshot) *mcp.CallToolResult {
	switch outcome {
	case studio.OutcomeSucceeded:
		res := snap.Result
		if res == nil {
			key := i18n.KeyErrorGenerate
			if snap.Mode == studio.ModeImageToImage {
				key = i18n.KeyErrorTransform
			}
			return mcp.NewToolResultError(i18n.T(key, snap.Language))
		}
		text := fmt.Sprintf("%s: %s", i18n.T(i18n.KeyDisplayTitle, snap.Language), res.FileName())
		if res.URL != "" {
			text += "\n" + res.URL
		}
		return mcp.NewToolResultImage(text, res.ImageData, res.MimeType)
	case studio.OutcomeBusy:
		return mcp.NewToolResultError(i18n.T(i18n.KeyErrorBusy, snap.Language))
	case studio.OutcomeRejected:
		return mcp.NewToolResultError(i18n.T(i18n.KeyErrorGuidelinesMode, snap.Language))
	default:
		return mcp.NewToolResultError(snap.Error)
	}
}

func renderGuide(g i18n.Guide) string {
	var b strings.Builder
	b.WriteString(g.Title + "\n\n" + g.Intro + "\n")
	for _, sec := range g.Sections {
		b.WriteString("\n## " + sec.Title + "\n")
		if sec.Intro != "" {
			b.WriteString(sec.Intro + "\n")
		}
		for _, p := range sec.Points {
			b.WriteString("- " + p + "\n")
		}
		if sec.Example != "" {
			b.WriteString("> " + sec.Example + "\n")
		}
	}
	return b.String()
}
