package outputters

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/praetorian-inc/ssmhosts/pkg/types"
)

// CellWidth is the maximum number of characters shown per table cell.
const CellWidth = 40

type Format string

const (
	FormatTable Format = "table"
	FormatIDs   Format = "ids"
	FormatPlain Format = "plain"
	FormatJSON  Format = "json"
)

// Formats lists every supported --output value.
var Formats = []Format{FormatTable, FormatIDs, FormatPlain, FormatJSON}

// ParseFormat validates an --output value.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == strings.ToLower(s) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q (want one of %v)", s, Formats)
}

type Options struct {
	Format Format
	// Wide adds platform type, ping status and agent version columns.
	Wide  bool
	Color bool
}

var (
	headers     = []string{"NAME", "INSTANCE ID", "IP ADDRESS", "AGENT CURRENT", "PLATFORM"}
	wideHeaders = []string{"PLATFORM TYPE", "PING", "AGENT VERSION"}

	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	plainStyle  = lipgloss.NewStyle().PaddingRight(2)
)

// WriteInstances renders records to w in the requested format.
func WriteInstances(w io.Writer, records []types.InstanceRecord, opts Options) error {
	switch opts.Format {
	case FormatIDs:
		for _, r := range records {
			if _, err := fmt.Fprintln(w, r.InstanceID); err != nil {
				return err
			}
		}
		return nil
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if records == nil {
			records = []types.InstanceRecord{}
		}
		return enc.Encode(records)
	case FormatPlain:
		return writeTable(w, plainTable(rows(records, opts.Wide, false)))
	case FormatTable, "":
		return writeTable(w, borderedTable(records, opts))
	default:
		return fmt.Errorf("unknown output format %q", opts.Format)
	}
}

func writeTable(w io.Writer, t *table.Table) error {
	_, err := fmt.Fprintln(w, t.String())
	return err
}

func borderedTable(records []types.InstanceRecord, opts Options) *table.Table {
	hdr := headers
	if opts.Wide {
		hdr = append(append([]string{}, headers...), wideHeaders...)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(hdr...).
		Rows(rows(records, opts.Wide, true)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow && opts.Color {
				return headerStyle
			}
			return cellStyle
		})
	return t
}

func plainTable(rows [][]string) *table.Table {
	return table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			return plainStyle
		})
}

func rows(records []types.InstanceRecord, wide bool, truncated bool) [][]string {
	out := make([][]string, 0, len(records))
	for _, r := range records {
		row := []string{
			r.DisplayName,
			r.InstanceID,
			r.IPAddress,
			strconv.FormatBool(r.AgentUpToDate),
			r.PlatformName,
		}
		if wide {
			row = append(row, r.PlatformType, r.PingStatus, r.AgentVersion)
		}
		if truncated {
			for i := range row {
				row[i] = Truncate(row[i], CellWidth)
			}
		}
		out = append(out, row)
	}
	return out
}

// Truncate shortens s to at most n characters.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
