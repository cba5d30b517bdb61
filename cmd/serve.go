package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"artify-me/common"
	"artify-me/internal/tools"
	"artify-me/internal/web"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the browser API (and MCP over HTTP when enabled)",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, config)
	if err != nil {
		return err
	}
	store := a.newStore(config)

	if !common.GetLogger().IsLevelEnabled(logrus.DebugLevel) {
		gin.SetMode(gin.ReleaseMode)
	}
	router := web.NewRouter(web.NewHandler(store, a.lang))
	if config.MCPHTTPEnabled {
		// 浏览器和 MCP 客户端共用同一个会话存储
		mcpHTTP := server.NewStreamableHTTPServer(newMCPServer(store, tools.WithURLSources(config.MCPHTTPAllowURLSources)))
		router.Any("/mcp", gin.WrapH(mcpHTTP))
	}

	srv := &http.Server{
		Addr:              config.GetServerAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		common.WithFields(map[string]interface{}{
			"addr": srv.Addr,
			"mcp":  config.MCPHTTPEnabled,
		}).Info("HTTP server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		common.Infof("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
