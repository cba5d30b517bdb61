package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"artify-me/common"
)

const (
	appName    = "Artify Me"
	appVersion = "1.0.0"
)

var rootCmd = &cobra.Command{
	Use:           "artify",
	Short:         "Turn prompts and photos into stylized digital art",
	SilenceUsage:  true,
	SilenceErrors: true,
	// 所有子命令共用同一份配置，日志在这里初始化
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := common.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		config = cfg
		common.Debugf("Config loaded, api key %s", maskAPIKey(cfg.GenAIAPIKey))
		return nil
	},
}

// config 由 PersistentPreRunE 填充
var config *common.Config

func init() {
	rootCmd.AddCommand(serveCmd, mcpCmd, generateCmd)
}

// Execute 解析命令行并执行，main 的唯一入口
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// maskAPIKey 隐藏 API Key 的敏感部分
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "****" + key[len(key)-4:]
}
