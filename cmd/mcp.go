package cmd

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"artify-me/common"
	"artify-me/internal/session"
	"artify-me/internal/tools"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the Artify tools over MCP stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), config)
		if err != nil {
			return err
		}

		// stdio 只服务本机客户端，允许 URL 图片来源
		s := newMCPServer(a.newStore(config), tools.WithURLSources(true))
		common.Infof("MCP stdio server starting (%s %s)", appName, appVersion)
		return server.ServeStdio(s)
	},
}

func newMCPServer(store *session.Store, opts ...tools.Option) *server.MCPServer {
	s := server.NewMCPServer(
		appName,
		appVersion,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)
	tools.RegisterArtifyTools(s, store, opts...)
	return s
}
