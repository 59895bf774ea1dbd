package audit

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/hwcompat/hwcompat/internal/compatdb"
)

const indent = "    "

// PrintOptions controls which optional fields the printers emit.
type PrintOptions struct {
	ShowReason  bool
	ShowEntries bool
}

// PrintPlain writes one line per finding, with an indented reason line and
// database entry dump when requested.
func PrintPlain(w io.Writer, findings []Finding, opts PrintOptions) error {
	for _, f := range findings {
		fmt.Fprintf(w, "%-6s %-12s %s\n", f.Kind, f.Status, f.Subject)
		if opts.ShowReason && f.Reason != "" {
			fmt.Fprintf(w, "%s%s\n", indent, f.Reason)
		}
		if opts.ShowEntries {
			if err := printEntry(w, f.Entry); err != nil {
				return err
			}
		}
	}
	return nil
}

func printEntry(w io.Writer, ent *compatdb.Entry) error {
	data, err := json.MarshalIndent(ent, indent, "  ")
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s%s\n", indent, data)
	return nil
}

// jsonFinding is the machine-readable projection of a Finding. Reason and
// Entry are emitted only when the corresponding flag asks for them.
type jsonFinding struct {
	Type   string `json:"type"`
	Object string `json:"object"`
	Status Status `json:"status"`
	Reason any    `json:"reason,omitempty"`
	Entry  any    `json:"entry,omitempty"`
}

// PrintJSON writes the findings as a JSON array.
func PrintJSON(w io.Writer, findings []Finding, opts PrintOptions) error {
	out := make([]jsonFinding, 0, len(findings))
	for _, f := range findings {
		jf := jsonFinding{
			Type:   f.Kind,
			Object: f.Subject,
			Status: f.Status,
		}
		if opts.ShowReason {
			jf.Reason = f.Reason
		}
		if opts.ShowEntries {
			jf.Entry = f.Entry
		}
		out = append(out, jf)
	}
	return json.NewEncoder(w).Encode(out)
}
