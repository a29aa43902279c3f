package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/TommyMandex/timestomper/internal/config"
	"github.com/TommyMandex/timestomper/internal/llm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// newOllamaServer fakes the endpoints the suggest command uses. Every chat
// request is answered with reply and its user turns are collected in asked.
func newOllamaServer(t *testing.T, reply string, asked *[]string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			w.Write([]byte("Ollama is running"))
		case "/api/tags":
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"models": []map[string]any{{"name": "llama3.2:latest", "model": "llama3.2:latest"}},
			})
		case "/api/chat":
			var req struct {
				Model    string `json:"model"`
				Messages []struct {
					Role    string `json:"role"`
					Content string `json:"content"`
				} `json:"messages"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			for _, m := range req.Messages {
				if m.Role == "user" && asked != nil {
					*asked = append(*asked, m.Content)
				}
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"model":   req.Model,
				"message": map[string]string{"role": "assistant", "content": reply},
				"done":    true,
			})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func newSuggestTestCmd(out io.Writer) *cobra.Command {
	cmd := &cobra.Command{Use: "suggest"}
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	addSuggestFlags(cmd)
	return cmd
}

func resetSuggestConfig(host string) {
	viper.Reset()
	setDefaults()
	viper.Set("llm.ollama.host", host)
}

const winDirReply = `{"pattern": "%d/%m/%Y  %H:%M", "example": "14/07/2009  01:14"}`

func TestSuggestText(t *testing.T) {
	server := newOllamaServer(t, winDirReply, nil)
	resetSuggestConfig(server.URL)

	file := writeTempFile(t, t.TempDir(), "dir.txt", dirListing)

	var out bytes.Buffer
	cmd := newSuggestTestCmd(&out)

	if err := runSuggest(cmd, []string{file}); err != nil {
		t.Fatalf("runSuggest() error = %v", err)
	}

	result := out.String()
	for _, want := range []string{
		"Pattern: %d/%m/%Y  %H:%M\n",
		"Example: 14/07/2009  01:14\n",
		"Matched: 2 of 3 sample lines\n",
		"Try: timestomper convert -s '%d/%m/%Y  %H:%M' " + file,
	} {
		if !strings.Contains(result, want) {
			t.Errorf("output missing %q:\n%s", want, result)
		}
	}
}

func TestSuggestJSON(t *testing.T) {
	server := newOllamaServer(t, winDirReply, nil)
	resetSuggestConfig(server.URL)
	viper.Set("format", "json")

	file := writeTempFile(t, t.TempDir(), "dir.txt", dirListing)

	var out bytes.Buffer
	cmd := newSuggestTestCmd(&out)

	if err := runSuggest(cmd, []string{file}); err != nil {
		t.Fatalf("runSuggest() error = %v", err)
	}

	var result struct {
		Pattern  string `json:"pattern"`
		Matched  int    `json:"matched"`
		Attempts int    `json:"attempts"`
	}
	if err := json.Unmarshal(out.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out.String())
	}
	if result.Pattern != "%d/%m/%Y  %H:%M" {
		t.Errorf("pattern = %q", result.Pattern)
	}
	if result.Attempts != 1 {
		t.Errorf("attempts = %d, want 1", result.Attempts)
	}
}

func TestSuggestRedactsSamples(t *testing.T) {
	var asked []string
	server := newOllamaServer(t, winDirReply, &asked)
	resetSuggestConfig(server.URL)

	file := writeTempFile(t, t.TempDir(), "dir.txt", []string{
		"14/07/2009  01:14    <DIR>          backups from 10.0.0.12",
	})

	var out bytes.Buffer
	cmd := newSuggestTestCmd(&out)

	if err := runSuggest(cmd, []string{file}); err != nil {
		t.Fatalf("runSuggest() error = %v", err)
	}

	if len(asked) == 0 {
		t.Fatal("no chat request was made")
	}
	if strings.Contains(asked[0], "10.0.0.12") {
		t.Errorf("address reached the model:\n%s", asked[0])
	}
	if !strings.Contains(asked[0], "14/07/2009  01:14") {
		t.Errorf("timestamp was lost from the sample:\n%s", asked[0])
	}
}

func TestSuggestNoRedact(t *testing.T) {
	var asked []string
	server := newOllamaServer(t, winDirReply, &asked)
	resetSuggestConfig(server.URL)

	file := writeTempFile(t, t.TempDir(), "dir.txt", []string{
		"14/07/2009  01:14    <DIR>          backups from 10.0.0.12",
	})

	var out bytes.Buffer
	cmd := newSuggestTestCmd(&out)
	setFlags(t, cmd, map[string]string{"no-redact": "true"})

	if err := runSuggest(cmd, []string{file}); err != nil {
		t.Fatalf("runSuggest() error = %v", err)
	}

	if len(asked) == 0 || !strings.Contains(asked[0], "10.0.0.12") {
		t.Errorf("expected the raw line in the prompt, got %q", asked)
	}
}

func TestSuggestModelNotFound(t *testing.T) {
	server := newOllamaServer(t, winDirReply, nil)
	resetSuggestConfig(server.URL)

	file := writeTempFile(t, t.TempDir(), "dir.txt", dirListing)

	var out bytes.Buffer
	cmd := newSuggestTestCmd(&out)
	setFlags(t, cmd, map[string]string{"model": "missing-model"})

	err := runSuggest(cmd, []string{file})
	if !errors.Is(err, llm.ErrModelNotFound) {
		t.Fatalf("runSuggest() error = %v, want ErrModelNotFound", err)
	}
	if !strings.Contains(err.Error(), "ollama pull missing-model") {
		t.Errorf("error should explain how to pull the model: %v", err)
	}
}

func TestSuggestOllamaDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()
	resetSuggestConfig(url)

	file := writeTempFile(t, t.TempDir(), "dir.txt", dirListing)

	var out bytes.Buffer
	cmd := newSuggestTestCmd(&out)

	err := runSuggest(cmd, []string{file})
	if !errors.Is(err, llm.ErrProviderUnavailable) {
		t.Fatalf("runSuggest() error = %v, want ErrProviderUnavailable", err)
	}
	if !strings.Contains(err.Error(), "ollama serve") {
		t.Errorf("error should explain how to start Ollama: %v", err)
	}
}

func TestSuggestMissingFile(t *testing.T) {
	resetSuggestConfig("http://localhost:11434")

	var out bytes.Buffer
	cmd := newSuggestTestCmd(&out)

	err := runSuggest(cmd, []string{"/nonexistent/dir.txt"})

	var cfgErr *config.ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Field != "input" {
		t.Fatalf("runSuggest() error = %v, want input ConfigError", err)
	}
}

func TestSuggestUnknownRedactionPattern(t *testing.T) {
	resetSuggestConfig("http://localhost:11434")
	viper.Set("redaction.patterns", []string{"ipv4", "shoe_size"})

	file := writeTempFile(t, t.TempDir(), "dir.txt", dirListing)

	var out bytes.Buffer
	cmd := newSuggestTestCmd(&out)

	err := runSuggest(cmd, []string{file})

	var cfgErr *config.ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Field != "redaction.patterns" {
		t.Fatalf("runSuggest() error = %v, want redaction.patterns ConfigError", err)
	}
}
