package cmd

import (
	"context"

	"artify-me/common"
	"artify-me/internal/genai/gemini"
	"artify-me/internal/i18n"
	"artify-me/internal/oss"
	"artify-me/internal/session"
	"artify-me/internal/studio"
)

// app 各个入口共用的依赖
type app struct {
	api       gemini.ImageAPI
	publisher studio.Publisher
	lang      i18n.Language
}

func newApp(ctx context.Context, cfg *common.Config) (*app, error) {
	client, err := gemini.NewClientFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	a := &app{api: client, lang: i18n.ParseLanguage(cfg.DefaultLanguage)}

	pub, err := oss.NewPublisherFromConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	// 避免把 nil 指针包装成非 nil 接口
	if pub != nil {
		a.publisher = pub
	}
	return a, nil
}

// newController 按配置创建一个控制器
func (a *app) newController() *studio.Controller {
	opts := []studio.Option{studio.WithLanguage(a.lang)}
	if a.publisher != nil {
		opts = append(opts, studio.WithPublisher(a.publisher))
	}
	return studio.NewController(a.api, opts...)
}

func (a *app) newStore(cfg *common.Config) *session.Store {
	return session.NewStore(cfg.SessionTTL(), a.newController)
}
