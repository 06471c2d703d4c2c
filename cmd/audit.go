// Copyright (c) 2026 John Dewey

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to
// deal in the Software without restriction, including without limitation the
// rights to use, copy, modify, merge, publish, distribute, sublicense, and/or
// sell copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER
// DEALINGS IN THE SOFTWARE.

package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/cavakil/backoffice/internal/audit"
	"github.com/cavakil/backoffice/internal/audit/export"
	"github.com/cavakil/backoffice/internal/cli"
	"github.com/cavakil/backoffice/internal/permission"
)

// auditCmd represents the audit command.
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Work with the administrative audit log",
}

// auditTable lays out entries newest first for the terminal.
func auditTable(
	entries []audit.Entry,
	total int,
	offset int,
) cli.Table {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.Timestamp.UTC().Format(time.RFC3339),
			e.Role,
			e.ActorID,
			e.Method,
			e.Path,
			strconv.Itoa(e.ResponseCode),
			strconv.FormatInt(e.DurationMs, 10) + "ms",
		})
	}

	return cli.Table{
		Title: fmt.Sprintf(
			"Audit entries %d-%d of %d",
			min(offset+1, total),
			offset+len(entries),
			total,
		),
		Headers: []string{"time", "role", "actor", "method", "path", "status", "duration"},
		Rows:    rows,
	}
}

// auditListCmd represents the auditList command.
var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent audit entries",
	Run: func(cmd *cobra.Command, _ []string) {
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")

		b := connectNATSStores(logger)
		defer b.close()

		entries, total, err := b.audit.List(cmd.Context(), limit, offset)
		if err != nil {
			logFatal("failed to list audit entries", err)
		}

		if jsonOutput {
			printJSON(map[string]any{"total": total, "entries": entries})
			return
		}

		cli.PrintTable(os.Stdout, auditTable(entries, total, offset))
	},
}

// auditExportCmd represents the auditExport command.
var auditExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export audit entries as JSON lines",
	Long: `Export audit entries, newest first, to a JSON lines file. Use
--since to bound the export and --role to keep one role's activity.
`,
	Run: func(cmd *cobra.Command, _ []string) {
		output, _ := cmd.Flags().GetString("output")
		overwrite, _ := cmd.Flags().GetBool("overwrite")
		since, _ := cmd.Flags().GetDuration("since")
		roleFlag, _ := cmd.Flags().GetString("role")
		batchSize, _ := cmd.Flags().GetInt("batch-size")

		opts := export.Options{BatchSize: batchSize}
		if since > 0 {
			opts.Since = time.Now().Add(-since)
		}
		if roleFlag != "" {
			role, err := permission.ParseRole(roleFlag)
			if err != nil {
				logFatal("invalid role", err, "allowed", permission.AllRoles)
			}
			opts.Role = string(role)
		}
		if !jsonOutput {
			opts.OnProgress = func(exported int, total int) {
				logger.Debug(
					"export progress",
					slog.Int("exported", exported),
					slog.Int("total", total),
				)
			}
		}

		b := connectNATSStores(logger)
		defer b.close()

		result, err := export.Run(
			cmd.Context(),
			logger,
			b.audit.List,
			export.NewFileExporter(appFs, output, overwrite),
			opts,
		)
		if err != nil {
			logFatal("audit export failed", err, "output", output)
		}

		if jsonOutput {
			printJSON(result)
			return
		}

		fmt.Printf(
			"\n  Exported %d of %d entries to %s (%d skipped)\n",
			result.ExportedEntries,
			result.TotalEntries,
			output,
			result.SkippedEntries,
		)
	},
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditListCmd)
	auditCmd.AddCommand(auditExportCmd)

	auditListCmd.PersistentFlags().IntP("limit", "l", 20, "Entries to show")
	auditListCmd.PersistentFlags().Int("offset", 0, "Entries to skip")

	auditExportCmd.PersistentFlags().StringP("output", "o", "", "Destination file")
	auditExportCmd.PersistentFlags().Bool("overwrite", false, "Replace an existing file")
	auditExportCmd.PersistentFlags().
		Duration("since", 0, "Only entries newer than this, e.g. 168h")
	auditExportCmd.PersistentFlags().String("role", "", "Only entries made by this role")
	auditExportCmd.PersistentFlags().
		Int("batch-size", export.DefaultBatchSize, "Entries fetched per page")

	_ = auditExportCmd.MarkPersistentFlagRequired("output")
}
