package gemini

import (
	"errors"
	"fmt"
	"strings"
)

// FinishReasonImageOther 模型拒绝处理输入图片时候选结果的结束原因
const FinishReasonImageOther = "IMAGE_OTHER"

// Kind 失败类别
type Kind int

const (
	// KindGenerationFailed 文生图调用完成但没有返回图片
	KindGenerationFailed Kind = iota + 1
	// KindTransformFailed 图生图调用完成但没有返回图片
	KindTransformFailed
	// KindTransport 调用本身失败（网络、鉴权、配额等）
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindGenerationFailed:
		return "generation_failed"
	case KindTransformFailed:
		return "transform_failed"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// Failure 带类别标签的失败原因
type Failure struct {
	Kind Kind
	// Op 失败的操作: generate 或 transform
	Op string
	// FinishReason 候选结果的结束原因（如果有）
	FinishReason string
	Message      string
	Err          error
}

func (f *Failure) Error() string {
	msg := f.Message
	if f.FinishReason != "" {
		msg = fmt.Sprintf("%s (finish reason: %s)", msg, f.FinishReason)
	}
	if f.Err != nil {
		if msg == "" {
			return f.Err.Error()
		}
		return fmt.Sprintf("%s: %v", msg, f.Err)
	}
	return msg
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// IsUnsupportedContent 模型是否因为图片内容本身拒绝了请求
// 优先看结构化的 FinishReason，服务端只在文本里给出标记时退回字符串匹配
func (f *Failure) IsUnsupportedContent() bool {
	if f.FinishReason == FinishReasonImageOther {
		return true
	}
	return strings.Contains(f.Error(), FinishReasonImageOther)
}

// AsFailure 从错误链中取出 *Failure
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// IsUnsupportedContent 判断任意错误是否表示图片内容不被支持
func IsUnsupportedContent(err error) bool {
	if err == nil {
		return false
	}
	if f, ok := AsFailure(err); ok {
		return f.IsUnsupportedContent()
	}
	return strings.Contains(err.Error(), FinishReasonImageOther)
}
