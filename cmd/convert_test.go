package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/TommyMandex/timestomper/internal/config"
	"github.com/TommyMandex/timestomper/internal/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newConvertTestCmd(out io.Writer) *cobra.Command {
	cmd := &cobra.Command{Use: "convert"}
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	addConvertFlags(cmd)
	return cmd
}

// writeTempFile writes lines to dir/name, each terminated by a newline.
func writeTempFile(t *testing.T, dir string, name string, lines []string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func setFlags(t *testing.T, cmd *cobra.Command, flags map[string]string) {
	t.Helper()
	for name, value := range flags {
		if err := cmd.Flags().Set(name, value); err != nil {
			t.Fatalf("Set(%q) error = %v", name, err)
		}
	}
}

var dirListing = []string{
	" Directory of C:\\Windows",
	"14/07/2009  01:14    <DIR>          backups",
	"03/08/2019  22:10             1,024 notes.txt",
}

func TestConvertEpoch(t *testing.T) {
	viper.Reset()

	file := writeTempFile(t, t.TempDir(), "dir.txt", dirListing)

	var out bytes.Buffer
	cmd := newConvertTestCmd(&out)
	setFlags(t, cmd, map[string]string{"search": "free-win-dir-uk", "replace": "epoch", "include": "true"})

	if err := runConvert(cmd, []string{file}); err != nil {
		t.Fatalf("runConvert() error = %v", err)
	}

	expected := strings.Join([]string{
		" Directory of C:\\Windows",
		"1247534040    <DIR>          backups",
		"1564870200             1,024 notes.txt",
	}, "\n") + "\n"
	if out.String() != expected {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

func TestConvertDefaultOutput(t *testing.T) {
	viper.Reset()

	file := writeTempFile(t, t.TempDir(), "dir.txt", dirListing[1:2])

	var out bytes.Buffer
	cmd := newConvertTestCmd(&out)
	setFlags(t, cmd, map[string]string{"search": "%d/%m/%Y  %H:%M"})

	if err := runConvert(cmd, []string{file}); err != nil {
		t.Fatalf("runConvert() error = %v", err)
	}

	if out.String() != "2009-07-14 01:14:00    <DIR>          backups\n" {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestConvertConfigFileReplace(t *testing.T) {
	viper.Reset()
	viper.Set("convert.replace", "%Y%m%d")

	file := writeTempFile(t, t.TempDir(), "dir.txt", dirListing[1:2])

	var out bytes.Buffer
	cmd := newConvertTestCmd(&out)
	setFlags(t, cmd, map[string]string{"search": "free-win-dir-uk"})

	if err := runConvert(cmd, []string{file}); err != nil {
		t.Fatalf("runConvert() error = %v", err)
	}

	if out.String() != "20090714    <DIR>          backups\n" {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestConvertMultipleFilesInOrder(t *testing.T) {
	viper.Reset()

	dir := t.TempDir()
	first := writeTempFile(t, dir, "b.log", []string{"2019-08-03 22:10:00 second file"})
	second := writeTempFile(t, dir, "a.log", []string{"2009-07-14 01:14:00 first file"})

	var out bytes.Buffer
	cmd := newConvertTestCmd(&out)
	setFlags(t, cmd, map[string]string{"search": "iso8601", "replace": "epoch"})

	if err := runConvert(cmd, []string{first, second}); err != nil {
		t.Fatalf("runConvert() error = %v", err)
	}

	expected := "1564870200 second file\n1247534040 first file\n"
	if out.String() != expected {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

func TestConvertStdin(t *testing.T) {
	viper.Reset()

	var out bytes.Buffer
	cmd := newConvertTestCmd(&out)
	cmd.SetIn(strings.NewReader("Jul  4 01:14:00 host sshd: ok\r\n"))
	setFlags(t, cmd, map[string]string{"search": "syslog", "replace": "iso", "year": "2019"})

	if err := runConvert(cmd, nil); err != nil {
		t.Fatalf("runConvert() error = %v", err)
	}

	if out.String() != "2019-07-04 01:14:00 host sshd: ok\r\n" {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestConvertIndex(t *testing.T) {
	viper.Reset()

	file := writeTempFile(t, t.TempDir(), "two.txt", []string{"2009-07-14 01:14:00 to 2019-08-03 22:10:00"})

	var out bytes.Buffer
	cmd := newConvertTestCmd(&out)
	setFlags(t, cmd, map[string]string{"search": "iso8601", "replace": "epoch", "index": "-1"})

	if err := runConvert(cmd, []string{file}); err != nil {
		t.Fatalf("runConvert() error = %v", err)
	}

	if out.String() != "2009-07-14 01:14:00 to 1564870200\n" {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestConvertCut(t *testing.T) {
	viper.Reset()

	file := writeTempFile(t, t.TempDir(), "two.txt", []string{"2009-07-14 01:14:00 to 2019-08-03 22:10:00"})

	var out bytes.Buffer
	cmd := newConvertTestCmd(&out)
	setFlags(t, cmd, map[string]string{"search": "iso8601", "replace": "epoch", "cut": "20-"})

	if err := runConvert(cmd, []string{file}); err != nil {
		t.Fatalf("runConvert() error = %v", err)
	}

	if out.String() != "2009-07-14 01:14:00 to 1564870200\n" {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestConvertAbortsOnUnmatchedLine(t *testing.T) {
	viper.Reset()

	file := writeTempFile(t, t.TempDir(), "dir.txt", dirListing)

	var out bytes.Buffer
	cmd := newConvertTestCmd(&out)
	setFlags(t, cmd, map[string]string{"search": "free-win-dir-uk"})

	err := runConvert(cmd, []string{file})

	var lineErr *pipeline.LineError
	if !errors.As(err, &lineErr) {
		t.Fatalf("runConvert() error = %v, want *pipeline.LineError", err)
	}
	if lineErr.Ordinal != 1 {
		t.Errorf("LineError.Ordinal = %d, want 1", lineErr.Ordinal)
	}
	if out.Len() != 0 {
		t.Errorf("expected no output, got %q", out.String())
	}
}

func TestConvertIgnoreDropsLines(t *testing.T) {
	viper.Reset()

	file := writeTempFile(t, t.TempDir(), "dir.txt", dirListing)

	var out bytes.Buffer
	cmd := newConvertTestCmd(&out)
	setFlags(t, cmd, map[string]string{"search": "free-win-dir-uk", "replace": "epoch", "ignore": "true"})

	if err := runConvert(cmd, []string{file}); err != nil {
		t.Fatalf("runConvert() error = %v", err)
	}

	expected := "1247534040    <DIR>          backups\n1564870200             1,024 notes.txt\n"
	if out.String() != expected {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

func TestConvertHighlight(t *testing.T) {
	viper.Reset()

	file := writeTempFile(t, t.TempDir(), "dir.txt", dirListing[1:2])

	var out bytes.Buffer
	cmd := newConvertTestCmd(&out)
	setFlags(t, cmd, map[string]string{"search": "free-win-dir-uk", "replace": "epoch"})
	if err := cmd.ParseFlags([]string{"--highlight"}); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}

	if err := runConvert(cmd, []string{file}); err != nil {
		t.Fatalf("runConvert() error = %v", err)
	}

	if out.String() != "\033[1;41m1247534040\033[0m    <DIR>          backups\n" {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestConvertOutfile(t *testing.T) {
	viper.Reset()

	dir := t.TempDir()
	file := writeTempFile(t, dir, "dir.txt", dirListing[1:])
	outfile := filepath.Join(dir, "out.txt")

	var out bytes.Buffer
	cmd := newConvertTestCmd(&out)
	setFlags(t, cmd, map[string]string{"search": "free-win-dir-uk", "replace": "us", "outfile": outfile})

	if err := runConvert(cmd, []string{file}); err != nil {
		t.Fatalf("runConvert() error = %v", err)
	}

	if out.Len() != 0 {
		t.Errorf("expected nothing on stdout, got %q", out.String())
	}
	data, err := os.ReadFile(outfile)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	expected := "07/14/09 01:14    <DIR>          backups\n08/03/19 22:10             1,024 notes.txt\n"
	if string(data) != expected {
		t.Fatalf("unexpected file content:\n%s", data)
	}
}

func TestConvertCatalog(t *testing.T) {
	viper.Reset()

	dir := t.TempDir()
	catalog := filepath.Join(dir, "catalog.yaml")
	yaml := "profiles:\n  stamp:\n    specs:\n      - format: \"@%Y%m%d-%H%M\"\noutputs:\n  day: \"%d %b %Y\"\n"
	if err := os.WriteFile(catalog, []byte(yaml), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	file := writeTempFile(t, dir, "app.log", []string{"build @20190803-2210 ok"})

	var out bytes.Buffer
	cmd := newConvertTestCmd(&out)
	setFlags(t, cmd, map[string]string{"search": "stamp", "replace": "day", "catalog": catalog})

	if err := runConvert(cmd, []string{file}); err != nil {
		t.Fatalf("runConvert() error = %v", err)
	}

	if out.String() != "build 03 Aug 2019 ok\n" {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestConvertConfigErrors(t *testing.T) {
	dir := t.TempDir()
	file := writeTempFile(t, dir, "dir.txt", dirListing)
	other := writeTempFile(t, dir, "other.txt", dirListing)

	tests := []struct {
		name  string
		flags map[string]string
		args  []string
		field string
	}{
		{"missing search", map[string]string{}, []string{file}, "search"},
		{"unknown profile", map[string]string{"search": "nope"}, []string{file}, "search"},
		{"unsupported directive", map[string]string{"search": "%Q"}, []string{file}, "search"},
		{"unknown output", map[string]string{"search": "syslog", "replace": "nope"}, []string{file}, "replace"},
		{"bad cut", map[string]string{"search": "syslog", "cut": "15-10"}, []string{file}, "cut"},
		{"bad year", map[string]string{"search": "syslog", "year": "-1"}, []string{file}, "year"},
		{"zero year", map[string]string{"search": "syslog", "year": "0"}, []string{file}, "year"},
		{"five digit year", map[string]string{"search": "syslog", "year": "10000"}, []string{file}, "year"},
		{"bad highlight", map[string]string{"search": "syslog", "highlight": "sometimes"}, []string{file}, "highlight"},
		{"missing input", map[string]string{"search": "syslog"}, []string{filepath.Join(dir, "missing.txt")}, "input"},
		{"follow two files", map[string]string{"search": "syslog", "follow": "true"}, []string{file, other}, "follow"},
		{"follow stdin", map[string]string{"search": "syslog", "follow-rotate": "true"}, nil, "follow"},
		{"missing catalog", map[string]string{"search": "syslog", "catalog": filepath.Join(dir, "none.yaml")}, []string{file}, "catalog"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()

			var out bytes.Buffer
			cmd := newConvertTestCmd(&out)
			setFlags(t, cmd, tt.flags)

			err := runConvert(cmd, tt.args)

			var cfgErr *config.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("runConvert() error = %v, want *config.ConfigError", err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("ConfigError.Field = %q, want %q", cfgErr.Field, tt.field)
			}
			if out.Len() != 0 {
				t.Errorf("expected no output, got %q", out.String())
			}
		})
	}
}

func TestConvertGlobMatchingDirectory(t *testing.T) {
	viper.Reset()

	dir := t.TempDir()
	writeTempFile(t, dir, "a.txt", []string{"2020-01-01 00:00:00 x"})
	if err := os.Mkdir(filepath.Join(dir, "b.d"), 0o755); err != nil {
		t.Fatalf("Mkdir() error = %v", err)
	}

	var out bytes.Buffer
	cmd := newConvertTestCmd(&out)
	setFlags(t, cmd, map[string]string{"search": "%Y-%m-%d %H:%M:%S", "replace": "epoch"})

	err := runConvert(cmd, []string{filepath.Join(dir, "*")})

	var cfgErr *config.ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Field != "input" {
		t.Fatalf("runConvert() error = %v, want input ConfigError", err)
	}
	if out.Len() != 0 {
		t.Errorf("expected no output, got %q", out.String())
	}
}

func TestConvertIncludeStillAbortsOnMissingYear(t *testing.T) {
	viper.Reset()

	file := writeTempFile(t, t.TempDir(), "ls.txt", []string{
		"total 8",
		"-rw-r--r--  1 root  wheel  0 14 Jul 01:14 notes.txt",
	})

	var out bytes.Buffer
	cmd := newConvertTestCmd(&out)
	setFlags(t, cmd, map[string]string{"search": "free-osx-ls", "include": "true"})

	err := runConvert(cmd, []string{file})

	var lineErr *pipeline.LineError
	if !errors.As(err, &lineErr) {
		t.Fatalf("runConvert() error = %v, want *pipeline.LineError", err)
	}
	if lineErr.Ordinal != 2 {
		t.Errorf("LineError.Ordinal = %d, want 2", lineErr.Ordinal)
	}
}

// syncBuffer lets the test read output while the command is still writing.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitForOutput(t *testing.T, out *syncBuffer, want string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(out.String(), want) {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %q, got %q", want, out.String())
}

func TestConvertFollow(t *testing.T) {
	viper.Reset()

	file := writeTempFile(t, t.TempDir(), "app.log", []string{"2009-07-14 01:14:00 started"})

	out := &syncBuffer{}
	cmd := newConvertTestCmd(out)
	setFlags(t, cmd, map[string]string{"search": "iso8601", "replace": "epoch", "follow": "true"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cmd.SetContext(ctx)

	done := make(chan error, 1)
	go func() {
		done <- runConvert(cmd, []string{file})
	}()

	waitForOutput(t, out, "1247534040 started\n")

	f, err := os.OpenFile(file, os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	if _, err := f.WriteString("2019-08-03 22:10:00 appended\n"); err != nil {
		t.Fatalf("WriteString() error = %v", err)
	}
	f.Close()

	waitForOutput(t, out, "1564870200 appended\n")

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("runConvert() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("convert did not stop after cancellation")
	}
}
