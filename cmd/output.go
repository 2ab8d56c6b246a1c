package cmd

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/PaesslerAG/jsonpath"
	"github.com/charmbracelet/glamour"
)

// printMarkdown renders md for the terminal, or prints it raw if it cannot.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// printJSON writes v as indented JSON to w. When selector is set, only the
// values matched by this JSONPath expression are written.
func printJSON(w io.Writer, v any, selector string) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var out any = json.RawMessage(data)
	if selector != "" {
		var doc any
		dec := json.NewDecoder(bytes.NewReader(data))
		// keep amounts as written.
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return err
		}
		if out, err = jsonpath.Get(selector, doc); err != nil {
			return fmt.Errorf("error selecting %q: %w", selector, err)
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// jsonFlags are the output flags shared by the reports.
type jsonFlags struct {
	json     bool
	selector string
}

func (j *jsonFlags) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&j.json, "json", false, "Print the report as JSON instead of markdown")
	f.StringVar(&j.selector, "select", "", "JSONPath expression selecting part of the JSON output (implies -json)")
}

// enabled reports whether the JSON output is requested.
func (j *jsonFlags) enabled() bool { return j.json || j.selector != "" }

// print writes v as JSON to stdout.
func (j *jsonFlags) print(v any) error { return printJSON(os.Stdout, v, j.selector) }
