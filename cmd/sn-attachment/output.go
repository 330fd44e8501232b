package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/olekukonko/tablewriter"

	"github.com/input-output-hk/catalyst-forge-libs/itsm/attachment/attachmenttypes"
	"github.com/input-output-hk/catalyst-forge-libs/itsm/attachment/errors"
)

const (
	formatJSON  = "json"
	formatTable = "table"
)

// failure is the flat result printed when a transfer fails.
type failure struct {
	Failed     bool             `json:"failed"`
	Msg        string           `json:"msg"`
	Code       errors.ErrorCode `json:"code"`
	StatusCode int              `json:"status_code,omitempty"`
}

func newFailure(err error) failure {
	f := failure{Failed: true, Msg: err.Error(), Code: errors.Code(err)}
	if status, ok := errors.StatusCode(err); ok {
		f.StatusCode = status
	}
	return f
}

// writeReport renders a successful report in the requested format.
func writeReport(w io.Writer, format string, report *attachmenttypes.TransferReport) error {
	switch format {
	case formatJSON:
		return writeJSON(w, report)
	case formatTable:
		fields := report.Fields()
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		rows := make([][]string, 0, len(keys))
		for _, k := range keys {
			rows = append(rows, []string{k, fmt.Sprint(fields[k])})
		}
		writeTable(w, rows)
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// writeFailure renders a failed transfer in the requested format.
func writeFailure(w io.Writer, format string, err error) error {
	f := newFailure(err)
	if format == formatTable {
		rows := [][]string{
			{"failed", "true"},
			{"msg", f.Msg},
			{"code", string(f.Code)},
		}
		if f.StatusCode != 0 {
			rows = append(rows, []string{"status_code", fmt.Sprint(f.StatusCode)})
		}
		writeTable(w, rows)
		return nil
	}
	return writeJSON(w, f)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTable(w io.Writer, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Field", "Value"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.AppendBulk(rows)
	table.Render()
}
