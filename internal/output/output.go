// Package output provides the sinks converted lines are written to and the
// formatted rendering of preset listings. Listings support text, JSON, and
// table formats.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/TommyMandex/timestomper/internal/presets"
	"github.com/TommyMandex/timestomper/internal/strftime"
)

// Format represents an output format type.
type Format string

const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatTable Format = "table"
)

// ParseFormat converts a string to a Format, defaulting to text.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON
	case "table":
		return FormatTable
	default:
		return FormatText
	}
}

// Listing is everything the formats command shows.
type Listing struct {
	Profiles   []presets.ProfileEntry   `json:"profiles"`
	Outputs    []presets.OutputEntry    `json:"outputs"`
	Directives []strftime.DirectiveInfo `json:"directives,omitempty"`
}

// Writer handles writing formatted output.
type Writer struct {
	w      io.Writer
	format Format
}

// New creates a new output Writer.
func New(w io.Writer, format Format) *Writer {
	return &Writer{w: w, format: format}
}

// WriteListing outputs the listing in the configured format.
func (wr *Writer) WriteListing(l Listing) error {
	switch wr.format {
	case FormatJSON:
		return wr.WriteJSON(l)
	case FormatTable:
		return wr.writeTable(l)
	default:
		return wr.writeText(l)
	}
}

// WriteJSON outputs any value as indented JSON.
func (wr *Writer) WriteJSON(v interface{}) error {
	enc := json.NewEncoder(wr.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (wr *Writer) writeText(l Listing) error {
	fmt.Fprintln(wr.w, "Search formats:")
	for _, p := range l.Profiles {
		fmt.Fprintf(wr.w, "%17s:", p.Name)
		if p.Description != "" {
			fmt.Fprintf(wr.w, " %s", p.Description)
		}
		fmt.Fprintln(wr.w)
		for _, s := range p.Specs {
			if s.Regex != "" {
				fmt.Fprintf(wr.w, "%15s Regex: %q\n", "", s.Regex)
			}
			fmt.Fprintf(wr.w, "%15s Format: %q\n", "", s.Format)
		}
	}

	fmt.Fprintln(wr.w)
	fmt.Fprintln(wr.w, "Output formats:")
	for _, o := range l.Outputs {
		fmt.Fprintf(wr.w, "%17s: %q\n", o.Name, o.Pattern)
	}

	if len(l.Directives) == 0 {
		return nil
	}

	fmt.Fprintln(wr.w)
	fmt.Fprintln(wr.w, "Directives:")
	fmt.Fprintln(wr.w)
	return wr.writeDirectives(l.Directives)
}

func (wr *Writer) writeTable(l Listing) error {
	tw := tabwriter.NewWriter(wr.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tNAME\tFORMAT\tREGEX")
	fmt.Fprintln(tw, "----\t----\t------\t-----")

	for _, p := range l.Profiles {
		for _, s := range p.Specs {
			regex := s.Regex
			if regex == "" {
				regex = "(compiled)"
			}
			fmt.Fprintf(tw, "search\t%s\t%s\t%s\n", p.Name, s.Format, regex)
		}
	}
	for _, o := range l.Outputs {
		fmt.Fprintf(tw, "output\t%s\t%s\t\n", o.Name, o.Pattern)
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	if len(l.Directives) == 0 {
		return nil
	}
	fmt.Fprintln(wr.w)
	return wr.writeDirectives(l.Directives)
}

func (wr *Writer) writeDirectives(directives []strftime.DirectiveInfo) error {
	tw := tabwriter.NewWriter(wr.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tMEANING\tEXAMPLE")
	for _, d := range directives {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", d.Directive, d.Meaning, d.Example)
	}
	return tw.Flush()
}
