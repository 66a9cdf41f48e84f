package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"catalog-kit/internal/tabular"
)

// getOutputFormat returns the effective output format from the root command's persistent flags.
func getOutputFormat(cmd *cobra.Command) string {
	v, _ := cmd.Root().PersistentFlags().GetString("output")
	return v
}

func validateOutputFormat(output string) error {
	if output != "" && output != "table" && output != "json" {
		return fmt.Errorf("unsupported output format %q: use 'table' or 'json'", output)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printTable writes the frame as aligned columns with an upper-case header.
// Lines are cut to the terminal width when w is a terminal.
func printTable(w io.Writer, f *tabular.Frame) error {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	header := make([]string, len(f.Columns))
	for i, c := range f.Columns {
		header[i] = strings.ToUpper(c)
	}
	_, _ = fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range f.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = formatCell(v)
		}
		_, _ = fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	width := terminalWidth(w)
	for _, line := range strings.SplitAfter(buf.String(), "\n") {
		if line == "" {
			continue
		}
		if _, err := io.WriteString(w, truncateLine(line, width)); err != nil {
			return err
		}
	}
	return nil
}

// printTitled writes a "== title ==" heading followed by the table.
func printTitled(w io.Writer, title string, f *tabular.Frame) error {
	if _, err := fmt.Fprintf(w, "== %s ==\n", title); err != nil {
		return err
	}
	if err := printTable(w, f); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

func formatCell(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case time.Time:
		return c.Format(time.RFC3339)
	case []byte:
		return string(c)
	case fmt.Stringer:
		return c.String()
	case map[string]any, []any:
		data, err := json.Marshal(c)
		if err != nil {
			return fmt.Sprint(c)
		}
		return string(data)
	default:
		return fmt.Sprint(c)
	}
}

// terminalWidth returns the column count of w, or 0 when w is not a terminal.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) { //nolint:gosec // fd fits in int
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd())) //nolint:gosec // fd fits in int
	if err != nil {
		return 0
	}
	return width
}

func truncateLine(line string, width int) string {
	body := strings.TrimSuffix(line, "\n")
	runes := []rune(body)
	if width <= 1 || len(runes) <= width {
		return line
	}
	return string(runes[:width-1]) + "…\n"
}
