package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/TommyMandex/timestomper/internal/config"
	"github.com/TommyMandex/timestomper/internal/input"
	"github.com/TommyMandex/timestomper/internal/llm"
	"github.com/TommyMandex/timestomper/internal/llm/ollama"
	"github.com/TommyMandex/timestomper/internal/output"
	"github.com/TommyMandex/timestomper/internal/preprocess"
	"github.com/TommyMandex/timestomper/internal/suggest"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// maxSuggestLines bounds how much of the file is read to pick samples from.
const maxSuggestLines = 5000

var suggestCmd = &cobra.Command{
	Use:   "suggest <file>",
	Short: "Ask a local model for the timestamp pattern of a file",
	Long: `Show a few distinct lines of a file to a model served by Ollama and ask
for a directive pattern matching their timestamps. The answer is checked
against the sample lines and sent back once for correction if it does not
fit.

Sensitive values such as addresses and keys are replaced with placeholders
before the lines leave the process unless redaction is disabled.

Examples:
  timestomper suggest dir.txt
  timestomper suggest --model qwen2.5 --samples 20 /var/log/app.log
  timestomper suggest --format json listing.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runSuggest,
}

func init() {
	addSuggestFlags(suggestCmd)
	rootCmd.AddCommand(suggestCmd)
}

func addSuggestFlags(cmd *cobra.Command) {
	cmd.Flags().String("model", "", "model to ask (default from llm.ollama.model)")
	cmd.Flags().Int("samples", 0, "number of distinct lines shown to the model")
	cmd.Flags().Bool("no-redact", false, "send sample lines without redaction")
}

func runSuggest(cmd *cobra.Command, args []string) error {
	path := args[0]
	logger := newLogger(cmd)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if model, _ := cmd.Flags().GetString("model"); model != "" {
		cfg.LLM.Ollama.Model = model
	}
	if cfg.LLM.Ollama.Model == "" {
		cfg.LLM.Ollama.Model = ollama.DefaultModel
	}
	samples, _ := cmd.Flags().GetInt("samples")
	if samples <= 0 {
		samples = cfg.LLM.SampleLines
	}
	noRedact, _ := cmd.Flags().GetBool("no-redact")

	var redactor *preprocess.Redactor
	if cfg.Redaction.Enabled && !noRedact {
		patterns, err := preprocess.LookupPatterns(cfg.Redaction.Patterns)
		if err != nil {
			return config.Invalid("redaction.patterns", err)
		}
		redactor = preprocess.NewRedactor(patterns)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	lines, err := readSuggestLines(ctx, path)
	if err != nil {
		return err
	}

	provider, err := llm.NewProvider(cfg.LLM, logger)
	if err != nil {
		return fmt.Errorf("failed to create LLM provider: %w", err)
	}
	if err := provider.Heartbeat(ctx); err != nil {
		return fmt.Errorf("cannot connect to Ollama at %s: %w\n\nStart Ollama with: ollama serve",
			cfg.LLM.Ollama.Host, err)
	}

	model := cfg.LLM.Ollama.Model
	if ok, err := provider.ModelAvailable(ctx, model); err != nil {
		return err
	} else if !ok {
		return fmt.Errorf("%w: %s\n\nPull it with: ollama pull %s", llm.ErrModelNotFound, model, model)
	}

	s := suggest.New(provider, suggest.Options{
		Model:       model,
		Temperature: cfg.LLM.Temperature,
		Samples:     samples,
		Redactor:    redactor,
		Logger:      logger,
	})

	result, err := s.Suggest(ctx, lines, []string{path})
	if err != nil {
		return err
	}

	if output.ParseFormat(viper.GetString("format")) == output.FormatJSON {
		return output.New(cmd.OutOrStdout(), output.FormatJSON).WriteJSON(result)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Pattern: %s\n", result.Pattern)
	if result.Example != "" {
		fmt.Fprintf(out, "Example: %s\n", result.Example)
	}
	fmt.Fprintf(out, "Matched: %d of %d sample lines\n", result.Matched, result.Sampled)
	fmt.Fprintf(out, "\nTry: timestomper convert -s '%s' %s\n", result.Pattern, path)
	return nil
}

func readSuggestLines(ctx context.Context, path string) ([]string, error) {
	r, err := input.Open(appFs, path)
	if err != nil {
		return nil, config.Invalid("input", err)
	}
	defer r.Close()

	var lines []string
	for len(lines) < maxSuggestLines {
		line, err := r.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		lines = append(lines, line.Text)
	}
	return lines, nil
}
