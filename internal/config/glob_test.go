package config

import (
	"reflect"
	"testing"

	"github.com/spf13/afero"
)

func newFs(t *testing.T, paths ...string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, path := range paths {
		if err := afero.WriteFile(fs, path, []byte("test"), 0o600); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
	}
	return fs
}

func TestExpandGlobs(t *testing.T) {
	fs := newFs(t, "/logs/a.txt", "/logs/b.txt", "/logs/c.csv")

	tests := []struct {
		name     string
		patterns []string
		want     []string
	}{
		{"glob", []string{"/logs/*.txt"}, []string{"/logs/a.txt", "/logs/b.txt"}},
		{"duplicates removed", []string{"/logs/a.txt", "/logs/*.txt"}, []string{"/logs/a.txt", "/logs/b.txt"}},
		{"argument order kept", []string{"/logs/c.csv", "/logs/a.txt"}, []string{"/logs/c.csv", "/logs/a.txt"}},
		{"stdin passes through", []string{"-", "/logs/c.csv"}, []string{"-", "/logs/c.csv"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandGlobs(fs, tt.patterns)
			if err != nil {
				t.Fatalf("ExpandGlobs() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExpandGlobs(%q) = %q, want %q", tt.patterns, got, tt.want)
			}
		})
	}
}

func TestExpandGlobsErrors(t *testing.T) {
	fs := newFs(t, "/logs/a.txt", "/logs/sub/b.txt")

	tests := []struct {
		name     string
		patterns []string
	}{
		{"no patterns", nil},
		{"glob matches a directory", []string{"/logs/*"}},
		{"unmatched glob", []string{"/logs/*.missing"}},
		{"missing file", []string{"/logs/nope.txt"}},
		{"directory", []string{"/logs"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ExpandGlobs(fs, tt.patterns); err == nil {
				t.Errorf("ExpandGlobs(%q) expected error", tt.patterns)
			}
		})
	}
}
