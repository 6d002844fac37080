package report

import (
	"encoding/json"
	"io"
)

// jsonFinding is the wire shape for --output json: the plain text every
// writer must carry, plus the rule name and severity the console writer
// leaves implicit.
type jsonFinding struct {
	Rule     string `json:"rule"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// JSONWriter renders a finding list as a JSON array, the alternative
// to ConsoleWriter selected by `--output json`. An empty list still
// encodes as `[]`, never `null`, so downstream tooling can always
// unmarshal into a slice without a nil check.
type JSONWriter struct {
	writer io.Writer
}

// NewJSONWriter creates a JSON writer targeting the given writer.
func NewJSONWriter(w io.Writer) *JSONWriter {
	return &JSONWriter{writer: w}
}

// Write encodes findings as an indented JSON array.
func (j *JSONWriter) Write(findings List) error {
	out := make([]jsonFinding, len(findings))
	for i, f := range findings {
		out[i] = jsonFinding{Rule: f.Rule, Severity: f.Severity.String(), Message: f.Text}
	}

	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
