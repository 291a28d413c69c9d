package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/gig-matcher/internal/logger"
	"github.com/spigell/gig-matcher/internal/voice"
)

var voiceCmd = &cobra.Command{
	Use:   "voice",
	Short: "Search by spoken requests, one transcript per line",
	Long: `voice reads transcripts such as "find a plumber under 50", one per line,
from stdin or --input. Every transcript updates the search filters and the
result summary is spoken back on stdout.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runVoice(cmd)
	},
}

func init() {
	rootCmd.AddCommand(voiceCmd)

	voiceCmd.Flags().StringP("input", "i", "", "read transcripts from this file instead of stdin")
	voiceCmd.Flags().Bool("ai", false, "use the configured AI provider for transcripts keywords do not explain")
}

func runVoice(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	log, config, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	roster, err := loadRoster(ctx, config, log)
	if err != nil {
		return err
	}

	var in io.Reader = cmd.InOrStdin()
	if path, _ := cmd.Flags().GetString("input"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening transcripts: %w", err)
		}
		defer f.Close()
		in = f
	}

	recognizer := voice.NewLineRecognizer(in)
	speaker := voice.NewWriterSpeaker(cmd.OutOrStdout(), "assistant> ")
	session := voice.NewSession(roster, *config.Criteria, recognizer, speaker, logger.Named(log, "voice"))

	if useAI, _ := cmd.Flags().GetBool("ai"); useAI || (config.AI != nil && config.AI.Enabled) {
		aiConfig := config.AI
		if aiConfig == nil {
			aiConfig = &AIConfig{}
		}
		aiConfig.Enabled = true

		interpreter, err := newInterpreter(ctx, aiConfig, log)
		if err != nil {
			log.Warn("skipping AI interpreter", zap.Error(err))
		} else {
			session.WithInterpreter(interpreter)
		}
	}

	results, err := session.Run(ctx)
	if err != nil {
		return err
	}
	if err := recognizer.Err(); err != nil {
		return fmt.Errorf("reading transcripts: %w", err)
	}

	log.Info("voice session finished", zap.Int("transcripts", len(results)))
	return nil
}
