package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"swot_backend/internal/app/di"
	"swot_backend/internal/app/server"
	"swot_backend/internal/feature/swot/parser"
	"swot_backend/internal/feature/swot/transport/cli"
	"swot_backend/internal/platform/config"
	"swot_backend/internal/platform/logging"
)

const wordWrap = 80

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web UI and JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return errors.New(config.UserMessage(err))
			}
			logging.Setup(cmd.ErrOrStderr(), cfg.LogLevel)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.Run(ctx, cfg)
		},
	}
}

func newAnalyzeCmd() *cobra.Command {
	var (
		file         string
		outputFormat string
		renderMode   string
	)

	cmd := &cobra.Command{
		Use:   "analyze [company details...]",
		Short: "Generate a SWOT analysis for a company",
		Long: `Generate a SWOT analysis. Company details are taken from the arguments,
from --file, or from stdin when neither is given.`,
		Example: `  swot analyze "Acme Corp, a regional grocery chain"
  swot analyze --file company.txt -o json
  swot analyze --file company.txt -o markdown --mode keypoints`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(outputFormat); err != nil {
				return err
			}
			mode, err := parser.ParseMode(renderMode)
			if err != nil {
				return err
			}
			details, err := readInput(args, file, cmd.InOrStdin())
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return errors.New(config.UserMessage(err))
			}
			logging.Setup(cmd.ErrOrStderr(), cfg.LogLevel)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			uc, err := di.NewSwotUsecase(ctx, cfg)
			if err != nil {
				return err
			}

			s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
			s.Suffix = " Generating analysis..."
			s.Start()

			var out struct {
				report cli.Report
				err    error
			}
			select {
			case o := <-uc.Start(ctx, details):
				if o.Err == nil {
					out.report = cli.NewReport(o.Result)
				}
				out.err = o.Err
			case <-ctx.Done():
				out.err = ctx.Err()
			}
			s.Stop()
			if out.err != nil {
				return fmt.Errorf("failed to generate SWOT analysis: %w", out.err)
			}

			if outputFormat == cli.FormatHuman {
				color.New(color.FgGreen).Fprintln(cmd.ErrOrStderr(), "Analysis complete")
			}
			return cli.NewPrinter(cmd.OutOrStdout(), wordWrap).WithMode(mode).Print(out.report, outputFormat)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "read company details from a file")
	addOutputFlags(cmd, &outputFormat, &renderMode)

	return cmd
}

func newParseCmd() *cobra.Command {
	var (
		file         string
		outputFormat string
		renderMode   string
	)

	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Format saved model output without calling Gemini",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(outputFormat); err != nil {
				return err
			}
			mode, err := parser.ParseMode(renderMode)
			if err != nil {
				return err
			}

			// モデルを呼び出さないため、APIキーは不要
			cfg, err := config.LoadWithoutKey()
			if err != nil {
				return err
			}
			logging.Setup(cmd.ErrOrStderr(), cfg.LogLevel)

			raw, err := readInput(nil, file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			text := parser.CleanText(raw)
			report := cli.NewParseReport(text, parser.Parse(text))
			slog.Debug("parsed saved output", "bytes", len(raw))
			return cli.NewPrinter(cmd.OutOrStdout(), wordWrap).WithMode(mode).Print(report, outputFormat)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "read model output from a file (default stdin)")
	addOutputFlags(cmd, &outputFormat, &renderMode)

	return cmd
}

func addOutputFlags(cmd *cobra.Command, outputFormat, renderMode *string) {
	cmd.Flags().StringVarP(outputFormat, "output", "o", cli.FormatHuman, "output format: "+strings.Join(cli.Formats, "|"))
	cmd.Flags().StringVar(renderMode, "mode", "list", "markdown view for -o markdown: list|table|keypoints")
}

// readInput は引数、ファイル、標準入力の順に入力を探します。
func readInput(args []string, file string, stdin io.Reader) (string, error) {
	if len(args) > 0 && file != "" {
		return "", errors.New("specify company details either as arguments or with --file, not both")
	}
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if file != "" {
		b, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", file, err)
		}
		return string(b), nil
	}
	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(b), nil
}

func validateFormat(format string) error {
	for _, f := range cli.Formats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("unknown output format %q (want one of %s)", format, strings.Join(cli.Formats, ", "))
}
