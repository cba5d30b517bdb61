package studio

import (
	"encoding/base64"
	"strings"

	"artify-me/internal/i18n"
	"artify-me/internal/utils"
)

// ArtifactBaseName 下载文件名（不含扩展名）
const ArtifactBaseName = "artify-me-creation"

// Status 请求生命周期状态
type Status string

const (
	StatusIdle      Status = "idle"
	StatusInFlight  Status = "in_flight"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Request 一次提交构造的生成请求，构造后不再修改
type Request struct {
	Mode        Mode
	Prompt      string
	SourceImage []byte
	MimeType    string
}

// SourceBase64 源图片的 base64 编码
func (r Request) SourceBase64() string {
	return base64.StdEncoding.EncodeToString(r.SourceImage)
}

// Result 生成成功的结果
type Result struct {
	ImageData string `json:"image_data"` // base64
	MimeType  string `json:"mime_type"`
	Prompt    string `json:"prompt"`
	Mode      Mode   `json:"mode"`
	// URL 上传到对象存储后的地址（未启用时为空）
	URL string `json:"url,omitempty"`
}

// Bytes 解码图片数据
func (r *Result) Bytes() ([]byte, error) {
	return base64.StdEncoding.DecodeString(r.ImageData)
}

// FileName 下载时使用的文件名
func (r *Result) FileName() string {
	return ArtifactBaseName + utils.GetExtensionFromMimeType(r.MimeType)
}

// DataURL 可直接用于 <img src> 的 data URL
func (r *Result) DataURL() string {
	return "data:" + r.MimeType + ";base64," + r.ImageData
}

// OperationState 唯一的操作状态，只能通过下面的转换函数生成
type OperationState struct {
	Status Status
	Result *Result
	// ErrorKey 本地化文案 key，ErrorDetail 为附加在文案后的服务端信息
	ErrorKey    string
	ErrorDetail string
}

func idleState() OperationState {
	return OperationState{Status: StatusIdle}
}

func inFlightState() OperationState {
	return OperationState{Status: StatusInFlight}
}

func succeededState(r *Result) OperationState {
	return OperationState{Status: StatusSucceeded, Result: r}
}

func failedState(key, detail string) OperationState {
	return OperationState{Status: StatusFailed, ErrorKey: key, ErrorDetail: detail}
}

// Message 用指定语言渲染错误信息，非失败状态返回空串
func (s OperationState) Message(lang i18n.Language) string {
	if s.Status != StatusFailed {
		return ""
	}
	return strings.TrimSpace(i18n.T(s.ErrorKey, lang) + " " + s.ErrorDetail)
}
