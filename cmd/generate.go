package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"artify-me/internal/i18n"
	"artify-me/internal/studio"
	"artify-me/internal/upload"
	"artify-me/internal/utils"
)

type generateOptions struct {
	Prompt string
	Image  string
	Out    string
	Lang   string
}

var genOpts generateOptions

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Create or transform a single image and save it to disk",
	Long: `Without --image the prompt is drawn from scratch and saved as JPEG.
With --image (local path or HTTP/HTTPS URL) the image is re-drawn and saved as PNG.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), config)
		if err != nil {
			return err
		}
		path, err := runGenerate(cmd.Context(), a.newController(), genOpts)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVarP(&genOpts.Prompt, "prompt", "p", "", "image description (optional with --image)")
	generateCmd.Flags().StringVarP(&genOpts.Image, "image", "i", "", "source image to transform: local path or URL")
	generateCmd.Flags().StringVarP(&genOpts.Out, "out", "o", "", "output file (default artify-me-creation.jpg|png)")
	generateCmd.Flags().StringVarP(&genOpts.Lang, "lang", "l", "", "message language: en or ar")
}

// runGenerate 通过控制器执行一次生成并写入文件，返回文件路径
func runGenerate(ctx context.Context, ctrl *studio.Controller, opts generateOptions) (string, error) {
	if opts.Lang != "" {
		ctrl.SetLanguage(i18n.ParseLanguage(opts.Lang))
	}
	lang := ctrl.Language()

	if opts.Image != "" {
		img, err := loadSourceImage(ctx, opts.Image)
		if err != nil {
			return "", fmt.Errorf("%s: %w", i18n.T(upload.MessageKey(err), lang), err)
		}
		if err := ctrl.SetMode(studio.ModeImageToImage); err != nil {
			return "", err
		}
		ctrl.SetUpload(img)
	}

	outcome, snap := ctrl.SubmitSnapshot(ctx, opts.Prompt)
	if outcome != studio.OutcomeSucceeded || snap.Result == nil {
		return "", errors.New(snap.Error)
	}

	res := snap.Result
	if res.URL != "" {
		fmt.Fprintln(os.Stderr, res.URL)
	}
	out := opts.Out
	if out == "" {
		out = res.FileName()
	}
	return out, writeArtifact(out, res)
}

// loadSourceImage 读取本地文件或下载 URL
func loadSourceImage(ctx context.Context, source string) (*upload.Image, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		data, mimeType, err := utils.DownloadImageFromURL(ctx, source, upload.MaxSize)
		if err != nil {
			return nil, err
		}
		return upload.FromBytes(data, mimeType, source)
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return upload.FromReader(f, utils.InferMimeTypeFromURL(source), filepath.Base(source))
}

func writeArtifact(path string, res *studio.Result) error {
	data, err := res.Bytes()
	if err != nil {
		return fmt.Errorf("invalid image data: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}
