package studio

import (
	"context"
	"encoding/base64"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artify-me/internal/genai/gemini"
	"artify-me/internal/i18n"
	"artify-me/internal/upload"
)

func testImage() *upload.Image {
	return &upload.Image{Data: []byte("source-image"), MimeType: "image/jpeg", Name: "portrait.jpg"}
}

func TestController_InitialState(t *testing.T) {
	c := NewController(&mockImageAPI{})

	snap := c.Snapshot()
	assert.Equal(t, ModeTextToImage, snap.Mode)
	assert.Equal(t, StatusIdle, snap.Status)
	assert.Equal(t, i18n.EN, snap.Language)
	assert.Equal(t, "ltr", snap.Direction)
	assert.Nil(t, snap.Result)
	assert.Empty(t, snap.Error)
	assert.True(t, snap.CanSubmit)
}

func TestController_SubmitTextToImage(t *testing.T) {
	ctx := context.Background()

	t.Run("empty prompt fails without calling the service", func(t *testing.T) {
		api := &mockImageAPI{}
		c := NewController(api)

		for _, prompt := range []string{"", "   ", "\t\n"} {
			assert.Equal(t, OutcomeInvalid, c.Submit(ctx, prompt))
		}

		state := c.State()
		assert.Equal(t, StatusFailed, state.Status)
		assert.Equal(t, i18n.KeyErrorPrompt, state.ErrorKey)
		assert.Equal(t, i18n.T(i18n.KeyErrorPrompt, i18n.EN), c.Snapshot().Error)
		generate, transform := api.calls()
		assert.Zero(t, generate)
		assert.Zero(t, transform)
	})

	t.Run("success records a jpeg result", func(t *testing.T) {
		api := &mockImageAPI{
			generateFunc: func(ctx context.Context, prompt string) (string, error) {
				return "ABC", nil
			},
		}
		c := NewController(api)

		outcome := c.Submit(ctx, "a fox in the forest")

		require.Equal(t, OutcomeSucceeded, outcome)
		state := c.State()
		assert.Equal(t, StatusSucceeded, state.Status)
		require.NotNil(t, state.Result)
		assert.Equal(t, "ABC", state.Result.ImageData)
		assert.Equal(t, "image/jpeg", state.Result.MimeType)
		assert.Equal(t, ModeTextToImage, state.Result.Mode)
		assert.Equal(t, "a fox in the forest", state.Result.Prompt)
		assert.Equal(t, "artify-me-creation.jpg", state.Result.FileName())
		assert.Equal(t, "data:image/jpeg;base64,ABC", state.Result.DataURL())
		assert.Equal(t, "a fox in the forest", api.lastPrompt)

		generate, _ := api.calls()
		assert.Equal(t, 1, generate)
	})

	t.Run("service failure keeps the localized prefix and the detail", func(t *testing.T) {
		api := &mockImageAPI{
			generateFunc: func(ctx context.Context, prompt string) (string, error) {
				return "", errors.New("quota exceeded")
			},
		}
		c := NewController(api)

		assert.Equal(t, OutcomeFailed, c.Submit(ctx, "a fox"))

		snap := c.Snapshot()
		assert.Equal(t, StatusFailed, snap.Status)
		assert.Equal(t, "Failed to generate image. quota exceeded", snap.Error)
		assert.Nil(t, snap.Result)
	})

	t.Run("empty image data is a failure", func(t *testing.T) {
		api := &mockImageAPI{
			generateFunc: func(ctx context.Context, prompt string) (string, error) {
				return "", nil
			},
		}
		c := NewController(api)

		assert.Equal(t, OutcomeFailed, c.Submit(ctx, "a fox"))
		assert.Equal(t, i18n.KeyErrorGenerate, c.State().ErrorKey)
	})

	t.Run("error message follows the current language", func(t *testing.T) {
		api := &mockImageAPI{
			generateFunc: func(ctx context.Context, prompt string) (string, error) {
				return "", errors.New("boom")
			},
		}
		c := NewController(api, WithLanguage(i18n.AR))
		c.Submit(ctx, "x")

		snap := c.Snapshot()
		assert.Equal(t, i18n.T(i18n.KeyErrorGenerate, i18n.AR)+" boom", snap.Error)
		assert.Equal(t, "rtl", snap.Direction)

		c.SetLanguage(i18n.EN)
		assert.Equal(t, "Failed to generate image. boom", c.Snapshot().Error)
	})
}

func TestController_SubmitImageToImage(t *testing.T) {
	ctx := context.Background()

	t.Run("missing upload fails without calling the service", func(t *testing.T) {
		api := &mockImageAPI{}
		c := NewController(api)
		require.NoError(t, c.SetMode(ModeImageToImage))

		assert.Equal(t, OutcomeInvalid, c.Submit(ctx, "make it a painting"))

		state := c.State()
		assert.Equal(t, StatusFailed, state.Status)
		assert.Equal(t, i18n.KeyErrorUpload, state.ErrorKey)
		assert.False(t, c.Snapshot().CanSubmit)
		_, transform := api.calls()
		assert.Zero(t, transform)
	})

	t.Run("success with empty prompt records a png result", func(t *testing.T) {
		api := &mockImageAPI{
			transformFunc: func(ctx context.Context, imageB64, mimeType, prompt string) (string, error) {
				return "PNGDATA", nil
			},
		}
		c := NewController(api)
		require.NoError(t, c.SetMode(ModeImageToImage))
		c.SetUpload(testImage())

		require.Equal(t, OutcomeSucceeded, c.Submit(ctx, ""))

		res := c.Result()
		require.NotNil(t, res)
		assert.Equal(t, "image/png", res.MimeType)
		assert.Equal(t, ModeImageToImage, res.Mode)
		assert.Equal(t, "artify-me-creation.png", res.FileName())
		assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("source-image")), api.lastImage)
		assert.Equal(t, "image/jpeg", api.lastMimeType)
		assert.Empty(t, api.lastPrompt)
	})

	t.Run("unsupported content shows the dedicated message", func(t *testing.T) {
		api := &mockImageAPI{
			transformFunc: func(ctx context.Context, imageB64, mimeType, prompt string) (string, error) {
				return "", &gemini.Failure{
					Kind:         gemini.KindTransformFailed,
					Op:           "transform",
					FinishReason: gemini.FinishReasonImageOther,
					Message:      "candidate finished with IMAGE_OTHER",
				}
			},
		}
		c := NewController(api)
		require.NoError(t, c.SetMode(ModeImageToImage))
		c.SetUpload(testImage())

		assert.Equal(t, OutcomeFailed, c.Submit(ctx, "x"))

		snap := c.Snapshot()
		assert.Equal(t, i18n.KeyErrorImageOther, snap.ErrorKey)
		assert.Equal(t, i18n.T(i18n.KeyErrorImageOther, i18n.EN), snap.Error)
	})

	t.Run("unsupported content is detected from the error text", func(t *testing.T) {
		cases := map[string]error{
			"plain error": errors.New("model finished with IMAGE_OTHER"),
			"transport failure": &gemini.Failure{
				Kind: gemini.KindTransport,
				Op:   "transform",
				Err:  errors.New("upstream: finishReason IMAGE_OTHER"),
			},
		}
		for name, failure := range cases {
			t.Run(name, func(t *testing.T) {
				api := &mockImageAPI{
					transformFunc: func(ctx context.Context, imageB64, mimeType, prompt string) (string, error) {
						return "", failure
					},
				}
				c := NewController(api, WithLanguage(i18n.AR))
				require.NoError(t, c.SetMode(ModeImageToImage))
				c.SetUpload(testImage())

				assert.Equal(t, OutcomeFailed, c.Submit(ctx, "x"))

				snap := c.Snapshot()
				assert.Equal(t, i18n.KeyErrorImageOther, snap.ErrorKey)
				assert.Equal(t, i18n.T(i18n.KeyErrorImageOther, i18n.AR), snap.Error)
			})
		}
	})

	t.Run("other failures keep the transform prefix", func(t *testing.T) {
		api := &mockImageAPI{
			transformFunc: func(ctx context.Context, imageB64, mimeType, prompt string) (string, error) {
				return "", errors.New("network unreachable")
			},
		}
		c := NewController(api)
		require.NoError(t, c.SetMode(ModeImageToImage))
		c.SetUpload(testImage())

		c.Submit(ctx, "x")

		assert.Equal(t, "Failed to transform image. network unreachable", c.Snapshot().Error)
	})
}

func TestController_SubmitInGuidelinesMode(t *testing.T) {
	api := &mockImageAPI{}
	c := NewController(api)
	c.ShowGuidelines()

	assert.Equal(t, OutcomeRejected, c.Submit(context.Background(), "a fox"))
	assert.Equal(t, StatusIdle, c.State().Status)
	assert.False(t, c.Snapshot().CanSubmit)
	generate, transform := api.calls()
	assert.Zero(t, generate)
	assert.Zero(t, transform)
}

func TestController_SubmitWhileInFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	api := &mockImageAPI{
		generateFunc: func(ctx context.Context, prompt string) (string, error) {
			close(started)
			<-release
			return "DONE", nil
		},
	}
	c := NewController(api)

	var wg sync.WaitGroup
	wg.Add(1)
	var first Outcome
	go func() {
		defer wg.Done()
		first = c.Submit(context.Background(), "first")
	}()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("first submission never reached the service")
	}

	snap := c.Snapshot()
	assert.Equal(t, StatusInFlight, snap.Status)
	assert.False(t, snap.CanSubmit)

	assert.Equal(t, OutcomeBusy, c.Submit(context.Background(), "second"))

	// 进行中切换模式不会取消请求
	require.NoError(t, c.SetMode(ModeImageToImage))
	assert.Equal(t, StatusInFlight, c.State().Status)

	close(release)
	wg.Wait()

	assert.Equal(t, OutcomeSucceeded, first)
	generate, _ := api.calls()
	assert.Equal(t, 1, generate)

	snap = c.Snapshot()
	assert.Equal(t, StatusSucceeded, snap.Status)
	require.NotNil(t, snap.Result)
	assert.Equal(t, "first", snap.Result.Prompt)
	// 结果属于文生图，当前是图生图，不展示
	assert.False(t, snap.ResultVisible)

	require.NoError(t, c.SetMode(ModeTextToImage))
	assert.True(t, c.Snapshot().ResultVisible)
}

func TestController_SubmitSnapshotKeepsItsOwnOutcome(t *testing.T) {
	var calls int
	started := make(chan struct{})
	release := make(chan struct{})
	api := &mockImageAPI{
		generateFunc: func(ctx context.Context, prompt string) (string, error) {
			calls++
			if calls == 1 {
				return "FIRST", nil
			}
			close(started)
			<-release
			return "SECOND", nil
		},
	}
	c := NewController(api)

	outcome, snap := c.SubmitSnapshot(context.Background(), "first")

	// 第二次提交在第一次的调用方读取结果之前开始
	done := make(chan Outcome, 1)
	go func() { done <- c.Submit(context.Background(), "second") }()
	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("second submission never reached the service")
	}
	require.Equal(t, StatusInFlight, c.Snapshot().Status)
	assert.Nil(t, c.Result())

	assert.Equal(t, OutcomeSucceeded, outcome)
	assert.Equal(t, StatusSucceeded, snap.Status)
	require.NotNil(t, snap.Result)
	assert.Equal(t, "FIRST", snap.Result.ImageData)
	assert.Equal(t, "first", snap.Result.Prompt)
	assert.True(t, snap.CanSubmit)

	busy, busySnap := c.SubmitSnapshot(context.Background(), "third")
	assert.Equal(t, OutcomeBusy, busy)
	assert.Equal(t, StatusInFlight, busySnap.Status)

	close(release)
	assert.Equal(t, OutcomeSucceeded, <-done)
	assert.Equal(t, "SECOND", c.Result().ImageData)
}

func TestController_NewSubmissionClearsPreviousOutcome(t *testing.T) {
	fail := true
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	api := &mockImageAPI{
		generateFunc: func(ctx context.Context, prompt string) (string, error) {
			if fail {
				return "", errors.New("boom")
			}
			started <- struct{}{}
			<-release
			return "OK", nil
		},
	}
	c := NewController(api)
	c.Submit(context.Background(), "x")
	require.Equal(t, StatusFailed, c.State().Status)

	fail = false
	done := make(chan Outcome)
	go func() { done <- c.Submit(context.Background(), "y") }()
	<-started

	state := c.State()
	assert.Equal(t, StatusInFlight, state.Status)
	assert.Empty(t, state.ErrorKey)
	assert.Nil(t, state.Result)

	close(release)
	assert.Equal(t, OutcomeSucceeded, <-done)
}

func TestController_PanicDoesNotLeaveInFlight(t *testing.T) {
	api := &mockImageAPI{
		generateFunc: func(ctx context.Context, prompt string) (string, error) {
			panic("provider exploded")
		},
	}
	c := NewController(api)

	outcome := c.Submit(context.Background(), "x")

	assert.Equal(t, OutcomeFailed, outcome)
	state := c.State()
	assert.Equal(t, StatusFailed, state.Status)
	assert.Equal(t, i18n.KeyErrorGenerate, state.ErrorKey)

	// 之后仍然可以提交
	api.generateFunc = nil
	assert.Equal(t, OutcomeSucceeded, c.Submit(context.Background(), "x"))
}

func TestController_ModeSwitching(t *testing.T) {
	t.Run("switching is idempotent and keeps the operation state", func(t *testing.T) {
		c := NewController(&mockImageAPI{})
		require.Equal(t, OutcomeSucceeded, c.Submit(context.Background(), "x"))
		before := c.State()

		for i := 0; i < 3; i++ {
			require.NoError(t, c.SetMode(ModeImageToImage))
			require.NoError(t, c.SetMode(ModeTextToImage))
		}

		assert.Equal(t, before, c.State())
		assert.Equal(t, ModeTextToImage, c.Snapshot().Mode)
	})

	t.Run("upload survives mode switches", func(t *testing.T) {
		c := NewController(&mockImageAPI{})
		c.SetUpload(testImage())
		require.NoError(t, c.SetMode(ModeImageToImage))
		require.NoError(t, c.SetMode(ModeTextToImage))
		require.NoError(t, c.SetMode(ModeImageToImage))

		snap := c.Snapshot()
		require.NotNil(t, snap.Upload)
		assert.Equal(t, "portrait.jpg", snap.Upload.Name)
		assert.True(t, snap.CanSubmit)

		c.ClearUpload()
		assert.Nil(t, c.Snapshot().Upload)
	})

	t.Run("guidelines remembers the previous mode", func(t *testing.T) {
		c := NewController(&mockImageAPI{})
		require.NoError(t, c.SetMode(ModeImageToImage))

		c.ShowGuidelines()
		c.ShowGuidelines()
		snap := c.Snapshot()
		assert.Equal(t, ModeGuidelines, snap.Mode)
		assert.Equal(t, ModeImageToImage, snap.PreviousMode)

		assert.Equal(t, ModeImageToImage, c.BackFromGuidelines())
		assert.Equal(t, ModeImageToImage, c.BackFromGuidelines())
	})

	t.Run("unknown mode is rejected", func(t *testing.T) {
		c := NewController(&mockImageAPI{})
		assert.Error(t, c.SetMode(Mode("sketch")))
		assert.Equal(t, ModeTextToImage, c.Snapshot().Mode)
	})
}

func TestController_Publisher(t *testing.T) {
	ctx := context.Background()

	t.Run("url is attached to the result", func(t *testing.T) {
		pub := &mockPublisher{}
		c := NewController(&mockImageAPI{}, WithPublisher(pub))

		require.Equal(t, OutcomeSucceeded, c.Submit(ctx, "x"))

		assert.Equal(t, 1, pub.calls)
		assert.Equal(t, "https://bucket.example.com/artify-me-creation.jpg", c.Result().URL)
	})

	t.Run("publish failure does not change the outcome", func(t *testing.T) {
		pub := &mockPublisher{
			publishFunc: func(ctx context.Context, result *Result) (string, error) {
				return "", errors.New("bucket missing")
			},
		}
		c := NewController(&mockImageAPI{}, WithPublisher(pub))

		require.Equal(t, OutcomeSucceeded, c.Submit(ctx, "x"))
		assert.Empty(t, c.Result().URL)
	})

	t.Run("failures are not published", func(t *testing.T) {
		pub := &mockPublisher{}
		api := &mockImageAPI{
			generateFunc: func(ctx context.Context, prompt string) (string, error) {
				return "", errors.New("boom")
			},
		}
		c := NewController(api, WithPublisher(pub))

		c.Submit(ctx, "x")
		assert.Zero(t, pub.calls)
	})
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"text", ModeTextToImage, false},
		{" Image ", ModeImageToImage, false},
		{"guidelines", ModeGuidelines, false},
		{"video", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "busy", OutcomeBusy.String())
	assert.Equal(t, "unknown", Outcome(99).String())
}
