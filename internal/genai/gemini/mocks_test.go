package gemini

import (
	"context"

	"google.golang.org/genai"
)

// mockModels 是 modelsAPI 的测试替身，同时记录调用情况
type mockModels struct {
	generateImagesFunc  func(model, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error)
	generateContentFunc func(model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

	imagesCalls  int
	contentCalls int
}

func (m *mockModels) GenerateImages(ctx context.Context, model string, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error) {
	m.imagesCalls++
	if m.generateImagesFunc != nil {
		return m.generateImagesFunc(model, prompt, config)
	}
	return &genai.GenerateImagesResponse{}, nil
}

func (m *mockModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.contentCalls++
	if m.generateContentFunc != nil {
		return m.generateContentFunc(model, contents, config)
	}
	return &genai.GenerateContentResponse{}, nil
}

// imageResponse 构造只包含一张图片的 Imagen 响应
func imageResponse(data []byte) *genai.GenerateImagesResponse {
	return &genai.GenerateImagesResponse{
		GeneratedImages: []*genai.GeneratedImage{
			{Image: &genai.Image{ImageBytes: data, MIMEType: "image/jpeg"}},
		},
	}
}

// contentResponse 构造只有一个候选结果的 Gemini 响应
func contentResponse(finish genai.FinishReason, parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				Content:      &genai.Content{Parts: parts},
				FinishReason: finish,
			},
		},
	}
}
