package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/roach88/atelier/internal/remote"
)

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// Success outputs a result in the configured format. For text, rows are
// rendered through a tabwriter; for JSON, data is encoded as-is.
func (f *OutputFormatter) Success(data any, rows [][]string) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(data)
	}

	tw := tabwriter.NewWriter(f.Writer, 0, 4, 2, ' ', 0)
	for _, row := range rows {
		for i, cell := range row {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, cell)
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

// userMessage maps an error to the text shown to the user. Remote failures
// already carry their single generic per-operation message; everything
// else prints as-is.
func userMessage(err error) string {
	var re *remote.Error
	if errors.As(err, &re) {
		return re.Message
	}
	return err.Error()
}
