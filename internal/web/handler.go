package web

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"artify-me/common"
	"artify-me/internal/i18n"
	"artify-me/internal/session"
	"artify-me/internal/studio"
	"artify-me/internal/upload"
)

// Handler 浏览器 API 的处理器，每个会话对应一个 studio.Controller
type Handler struct {
	store       *session.Store
	defaultLang i18n.Language
}

// NewHandler 创建处理器
func NewHandler(store *session.Store, defaultLang i18n.Language) *Handler {
	if !defaultLang.Valid() {
		defaultLang = i18n.Default
	}
	return &Handler{store: store, defaultLang: defaultLang}
}

type createSessionRequest struct {
	Language string `json:"language"`
}

type modeRequest struct {
	Mode string `json:"mode" binding:"required"`
}

type languageRequest struct {
	Language string `json:"language" binding:"required"`
}

type submitRequest struct {
	Prompt string `json:"prompt"`
}

// errorBody 失败时的响应体，error 已按会话语言本地化
func errorBody(key string, lang i18n.Language, state *studio.Snapshot) gin.H {
	body := gin.H{
		"error":     i18n.T(key, lang),
		"error_key": key,
	}
	if state != nil {
		body["state"] = state
	}
	return body
}

// controller 取出路径中的会话，不存在时直接写 404
func (h *Handler) controller(c *gin.Context) (*studio.Controller, bool) {
	ctrl, err := h.store.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return nil, false
	}
	return ctrl, true
}

// Health 健康检查
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": h.store.Len()})
}

// Translate 单个文案查询
func (h *Handler) Translate(c *gin.Context) {
	lang := h.queryLanguage(c)
	key := c.Param("key")
	c.JSON(http.StatusOK, gin.H{
		"key":  key,
		"lang": lang,
		"dir":  i18n.Direction(lang),
		"text": i18n.T(key, lang),
	})
}

// Guidelines 使用说明
func (h *Handler) Guidelines(c *gin.Context) {
	lang := h.queryLanguage(c)
	c.JSON(http.StatusOK, gin.H{
		"lang":       lang,
		"dir":        i18n.Direction(lang),
		"guidelines": i18n.Guidelines(lang),
	})
}

func (h *Handler) queryLanguage(c *gin.Context) i18n.Language {
	if q := c.Query("lang"); q != "" {
		return i18n.ParseLanguage(q)
	}
	return h.defaultLang
}

// CreateSession 新建会话，请求体可选
func (h *Handler) CreateSession(c *gin.Context) {
	var req createSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	id, ctrl := h.store.Create()
	lang := h.defaultLang
	if req.Language != "" {
		lang = i18n.ParseLanguage(req.Language)
	}
	ctrl.SetLanguage(lang)

	c.JSON(http.StatusCreated, gin.H{"session_id": id, "state": ctrl.Snapshot()})
}

// GetSession 当前会话状态
func (h *Handler) GetSession(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ctrl.Snapshot())
}

// DeleteSession 结束会话
func (h *Handler) DeleteSession(c *gin.Context) {
	h.store.Delete(c.Param("id"))
	c.Status(http.StatusNoContent)
}

// SetMode 切换模式
func (h *Handler) SetMode(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	var req modeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	mode, err := studio.ParseMode(req.Mode)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := ctrl.SetMode(mode); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, ctrl.Snapshot())
}

// ShowGuidelines 进入说明页面
func (h *Handler) ShowGuidelines(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	ctrl.ShowGuidelines()
	snap := ctrl.Snapshot()
	c.JSON(http.StatusOK, gin.H{"state": snap, "guidelines": i18n.Guidelines(snap.Language)})
}

// BackFromGuidelines 离开说明页面
func (h *Handler) BackFromGuidelines(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	ctrl.BackFromGuidelines()
	c.JSON(http.StatusOK, ctrl.Snapshot())
}

// SetLanguage 切换语言，响应中带文字方向
func (h *Handler) SetLanguage(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	var req languageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctrl.SetLanguage(i18n.ParseLanguage(req.Language))
	c.JSON(http.StatusOK, ctrl.Snapshot())
}

// Upload 接收 multipart 字段 file，校验失败时会话状态不变
func (h *Handler) Upload(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	lang := ctrl.Language()

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody(i18n.KeyErrorUpload, lang, nil))
		return
	}
	img, err := upload.FromMultipart(fh)
	if err != nil {
		key := upload.MessageKey(err)
		common.WithError(err).WithFields(map[string]interface{}{
			"session_id": c.Param("id"),
			"file":       fh.Filename,
			"size":       fh.Size,
		}).Warn("Upload rejected")
		c.JSON(http.StatusBadRequest, errorBody(key, lang, nil))
		return
	}

	ctrl.SetUpload(img)
	c.JSON(http.StatusOK, ctrl.Snapshot())
}

// ClearUpload 移除上传图片
func (h *Handler) ClearUpload(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	ctrl.ClearUpload()
	c.JSON(http.StatusOK, ctrl.Snapshot())
}

// Submit 执行一次生成，调用结束后才返回
func (h *Handler) Submit(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	var req submitRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	// 客户端断开不会取消进行中的生成
	outcome, snap := ctrl.SubmitSnapshot(context.WithoutCancel(c.Request.Context()), req.Prompt)

	switch outcome {
	case studio.OutcomeBusy:
		c.JSON(http.StatusConflict, errorBody(i18n.KeyErrorBusy, snap.Language, &snap))
	case studio.OutcomeRejected:
		c.JSON(http.StatusBadRequest, errorBody(i18n.KeyErrorGuidelinesMode, snap.Language, &snap))
	default:
		c.JSON(http.StatusOK, gin.H{"outcome": outcome.String(), "state": snap})
	}
}

// DownloadImage 以附件形式下载最近一次的结果
func (h *Handler) DownloadImage(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	res := ctrl.Result()
	if res == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no image has been generated"})
		return
	}
	data, err := res.Bytes()
	if err != nil {
		common.WithError(err).WithField("session_id", c.Param("id")).Error("Stored image data is not valid base64")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid image data"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.FileName()))
	c.Data(http.StatusOK, res.MimeType, data)
}
