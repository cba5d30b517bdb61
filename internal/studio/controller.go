package studio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"artify-me/common"
	"artify-me/internal/genai/gemini"
	"artify-me/internal/i18n"
	"artify-me/internal/upload"
	"artify-me/internal/utils"
)

// Outcome 一次 Submit 的结果
type Outcome int

const (
	// OutcomeSucceeded 调用成功，状态为 Succeeded
	OutcomeSucceeded Outcome = iota
	// OutcomeFailed 调用失败，状态为 Failed
	OutcomeFailed
	// OutcomeInvalid 本地校验未通过，没有调用服务
	OutcomeInvalid
	// OutcomeBusy 已有请求在进行，本次提交被忽略
	OutcomeBusy
	// OutcomeRejected 当前模式不能提交
	OutcomeRejected
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeFailed:
		return "failed"
	case OutcomeInvalid:
		return "invalid"
	case OutcomeBusy:
		return "busy"
	case OutcomeRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Publisher 把生成结果发布到外部存储，返回可访问的 URL
type Publisher interface {
	Publish(ctx context.Context, result *Result) (string, error)
}

// Snapshot 某一时刻控制器状态的只读副本
type Snapshot struct {
	Mode          Mode          `json:"mode"`
	PreviousMode  Mode          `json:"previous_mode"`
	Language      i18n.Language `json:"language"`
	Direction     string        `json:"direction"`
	Status        Status        `json:"status"`
	Error         string        `json:"error,omitempty"`
	ErrorKey      string        `json:"error_key,omitempty"`
	Result        *Result       `json:"result,omitempty"`
	ResultVisible bool          `json:"result_visible"` // 结果与当前模式一致时才展示
	Upload        *UploadInfo   `json:"upload,omitempty"`
	CanSubmit     bool          `json:"can_submit"`
}

// UploadInfo 当前上传图片的摘要
type UploadInfo struct {
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Size     int    `json:"size"`
}

// Option 控制器选项
type Option func(*Controller)

// WithPublisher 成功后把结果发布到对象存储
func WithPublisher(p Publisher) Option {
	return func(c *Controller) {
		c.publisher = p
	}
}

// WithLanguage 设置初始语言
func WithLanguage(lang i18n.Language) Option {
	return func(c *Controller) {
		if lang.Valid() {
			c.lang = lang
		}
	}
}

// Controller 管理模式、上传图片以及唯一的生成请求状态
// 可被多个 goroutine 同时调用，服务调用期间不持有锁
type Controller struct {
	api       gemini.ImageAPI
	publisher Publisher

	mu           sync.Mutex
	mode         Mode
	previousMode Mode
	lang         i18n.Language
	upload       *upload.Image
	state        OperationState
}

// NewController 创建控制器，初始为文生图模式、Idle 状态
func NewController(api gemini.ImageAPI, opts ...Option) *Controller {
	c := &Controller{
		api:          api,
		mode:         ModeTextToImage,
		previousMode: ModeTextToImage,
		lang:         i18n.Default,
		state:        idleState(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetMode 切换模式，不影响上传图片和请求状态
func (c *Controller) SetMode(m Mode) error {
	if _, err := ParseMode(string(m)); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.setModeLocked(m)
	return nil
}

func (c *Controller) setModeLocked(m Mode) {
	if m == ModeGuidelines && c.mode != ModeGuidelines {
		c.previousMode = c.mode
	}
	c.mode = m
}

// ShowGuidelines 进入说明页面并记住之前的模式
func (c *Controller) ShowGuidelines() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setModeLocked(ModeGuidelines)
}

// BackFromGuidelines 回到进入说明页面之前的模式
func (c *Controller) BackFromGuidelines() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode == ModeGuidelines {
		c.mode = c.previousMode
	}
	return c.mode
}

// SetLanguage 切换界面语言
func (c *Controller) SetLanguage(lang i18n.Language) {
	if !lang.Valid() {
		lang = i18n.Default
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lang = lang
}

// Language 当前语言
func (c *Controller) Language() i18n.Language {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lang
}

// SetUpload 替换当前上传图片，img 必须已经通过 upload 包的校验
func (c *Controller) SetUpload(img *upload.Image) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.upload = img
}

// ClearUpload 清除上传图片
func (c *Controller) ClearUpload() {
	c.SetUpload(nil)
}

// Result 最近一次成功的结果
func (c *Controller) Result() *Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Result
}

// State 当前操作状态
func (c *Controller) State() OperationState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Snapshot 返回当前状态副本，错误信息用当前语言渲染
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// snapshotLocked 调用方必须持有 c.mu
func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{
		Mode:         c.mode,
		PreviousMode: c.previousMode,
		Language:     c.lang,
		Direction:    i18n.Direction(c.lang),
		Status:       c.state.Status,
		Error:        c.state.Message(c.lang),
		ErrorKey:     c.state.ErrorKey,
		Result:       c.state.Result,
	}
	if snap.Result != nil {
		snap.ResultVisible = snap.Result.Mode == c.mode
	}
	if c.upload != nil {
		snap.Upload = &UploadInfo{Name: c.upload.Name, MimeType: c.upload.MimeType, Size: c.upload.Size()}
	}
	snap.CanSubmit = c.mode.Workflow() &&
		c.state.Status != StatusInFlight &&
		(c.mode != ModeImageToImage || c.upload != nil)
	return snap
}

// Submit 校验并执行一次生成
// 同一时刻最多只有一个请求在进行，进行中的提交直接返回 OutcomeBusy
func (c *Controller) Submit(ctx context.Context, prompt string) Outcome {
	outcome, _ := c.SubmitSnapshot(ctx, prompt)
	return outcome
}

// SubmitSnapshot 同 Submit，另外返回本次提交结束时的状态副本
// 副本与状态写入在同一次加锁内取得，之后的提交不会影响它
func (c *Controller) SubmitSnapshot(ctx context.Context, prompt string) (outcome Outcome, snap Snapshot) {
	c.mu.Lock()
	if c.state.Status == StatusInFlight {
		snap = c.snapshotLocked()
		c.mu.Unlock()
		return OutcomeBusy, snap
	}
	if !c.mode.Workflow() {
		snap = c.snapshotLocked()
		c.mu.Unlock()
		return OutcomeRejected, snap
	}

	mode := c.mode
	req, key := buildRequest(mode, prompt, c.upload)
	if key != "" {
		c.state = failedState(key, "")
		snap = c.snapshotLocked()
		c.mu.Unlock()
		common.WithFields(map[string]interface{}{
			"mode":  mode,
			"error": key,
		}).Debug("Submission rejected by validation")
		return OutcomeInvalid, snap
	}
	c.state = inFlightState()
	c.mu.Unlock()

	// 无论调用如何结束，都在同一步里清除 InFlight 并写入结果
	next := failedState(failureKey(req.Mode), "unexpected error")
	outcome = OutcomeFailed
	defer func() {
		if r := recover(); r != nil {
			common.WithFields(map[string]interface{}{
				"mode":  req.Mode,
				"panic": fmt.Sprint(r),
			}).Error("Image request panicked")
			outcome = OutcomeFailed
		}
		c.mu.Lock()
		c.state = next
		snap = c.snapshotLocked()
		c.mu.Unlock()
	}()

	res, err := c.execute(ctx, req)
	if err != nil {
		next = failureState(req.Mode, err)
		return OutcomeFailed, snap
	}

	c.publish(ctx, res)
	next = succeededState(res)
	return OutcomeSucceeded, snap
}

// buildRequest 校验输入，失败时返回对应的文案 key
func buildRequest(mode Mode, prompt string, img *upload.Image) (Request, string) {
	trimmed := strings.TrimSpace(prompt)
	switch mode {
	case ModeTextToImage:
		if trimmed == "" {
			return Request{}, i18n.KeyErrorPrompt
		}
		return Request{Mode: mode, Prompt: trimmed}, ""
	case ModeImageToImage:
		if img == nil || len(img.Data) == 0 {
			return Request{}, i18n.KeyErrorUpload
		}
		return Request{Mode: mode, Prompt: trimmed, SourceImage: img.Data, MimeType: img.MimeType}, ""
	default:
		return Request{}, i18n.KeyErrorGuidelinesMode
	}
}

func (c *Controller) execute(ctx context.Context, req Request) (*Result, error) {
	fields := map[string]interface{}{
		"mode":   req.Mode,
		"prompt": utils.TruncateForLog(req.Prompt, 80),
	}
	common.WithFields(fields).Info("Image request started")

	var (
		data string
		err  error
	)
	switch req.Mode {
	case ModeTextToImage:
		data, err = c.api.GenerateFromText(ctx, req.Prompt)
	case ModeImageToImage:
		data, err = c.api.TransformImage(ctx, req.SourceBase64(), req.MimeType, req.Prompt)
	default:
		err = fmt.Errorf("mode %s cannot be submitted", req.Mode)
	}
	if err != nil {
		common.WithError(err).WithFields(fields).Error("Image request failed")
		return nil, err
	}
	if data == "" {
		err = errors.New("empty image data")
		common.WithError(err).WithFields(fields).Error("Image request failed")
		return nil, err
	}

	common.WithFields(fields).Info("Image request succeeded")
	return &Result{
		ImageData: data,
		MimeType:  req.Mode.OutputMimeType(),
		Prompt:    req.Prompt,
		Mode:      req.Mode,
	}, nil
}

// publish 发布失败只记录日志，不影响本次结果
func (c *Controller) publish(ctx context.Context, res *Result) {
	if c.publisher == nil {
		return
	}
	url, err := c.publisher.Publish(ctx, res)
	if err != nil {
		common.WithError(err).Warn("Failed to publish generated image")
		return
	}
	res.URL = url
}

func failureKey(mode Mode) string {
	if mode == ModeImageToImage {
		return i18n.KeyErrorTransform
	}
	return i18n.KeyErrorGenerate
}

// failureState 把服务错误映射为展示用的失败状态
func failureState(mode Mode, err error) OperationState {
	if mode == ModeImageToImage && gemini.IsUnsupportedContent(err) {
		return failedState(i18n.KeyErrorImageOther, "")
	}
	return failedState(failureKey(mode), err.Error())
}
