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
	"time"

	"github.com/spf13/cobra"

	"github.com/cavakil/backoffice/internal/actor"
	"github.com/cavakil/backoffice/internal/cli"
)

// actorRows renders actors as table rows.
func actorRows(
	views []actor.View,
	now time.Time,
) [][]string {
	rows := make([][]string, 0, len(views))
	for _, v := range views {
		contact := v.Email
		if v.Phone != "" {
			contact = v.Phone
		}
		perms := "-"
		if len(v.Permissions) > 0 {
			perms = cli.FormatPermissions(v.Permissions)
		}
		rows = append(rows, []string{
			v.ID,
			string(v.Role),
			contact,
			v.Name,
			perms,
			cli.FormatAge(now.Sub(v.CreatedAt)),
		})
	}
	return rows
}

// actorListCmd represents the actorList command.
var actorListCmd = &cobra.Command{
	Use:   "list",
	Short: "List actors, newest first",
	Run: func(cmd *cobra.Command, _ []string) {
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")

		b := connectNATSStores(logger)
		defer b.close()

		actors, total, err := b.actors.List(cmd.Context(), limit, offset)
		if err != nil {
			logFatal("failed to list actors", err)
		}

		views := make([]actor.View, 0, len(actors))
		for i := range actors {
			views = append(views, actors[i].View())
		}

		if jsonOutput {
			printJSON(map[string]any{"total_items": total, "items": views})
			return
		}

		printStyledTable([]section{{
			Title:   fmt.Sprintf("Actors (%d of %d)", len(views), total),
			Headers: []string{"ID", "ROLE", "CONTACT", "NAME", "PERMISSIONS", "AGE"},
			Rows:    actorRows(views, time.Now()),
		}})
	},
}

func init() {
	actorCmd.AddCommand(actorListCmd)

	actorListCmd.PersistentFlags().IntP("limit", "l", 50, "Maximum actors to list")
	actorListCmd.PersistentFlags().IntP("offset", "o", 0, "Actors to skip")
}
