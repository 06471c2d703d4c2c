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

	"github.com/spf13/cobra"

	"github.com/cavakil/backoffice/internal/cli"
	"github.com/cavakil/backoffice/internal/permission"
)

// actorGrantCmd represents the actorGrant command.
var actorGrantCmd = &cobra.Command{
	Use:   "grant",
	Short: "Replace a sub-admin's permissions",
	Long: `Replace the permission map of a sub-admin. The change applies to
sessions issued after it; existing sessions keep their snapshot.
`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()
		id, _ := cmd.Flags().GetString("id")
		grants, _ := cmd.Flags().GetStringSlice("permissions")

		perms, err := parseGrants(grants)
		if err != nil {
			logFatal("invalid permissions", err, "resources", permission.ResourceNames())
		}

		b := connectNATSStores(logger)
		defer b.close()

		a, err := b.actors.Get(ctx, id)
		if err != nil {
			logFatal("failed to load actor", err, "id", id)
		}
		if a.Role != permission.RoleSubAdmin {
			logFatal("permissions apply to sub-admins only", nil, "role", a.Role)
		}

		a.Permissions = perms.Normalize()
		if err := b.actors.Update(ctx, a); err != nil {
			logFatal("failed to update actor", err)
		}

		if jsonOutput {
			printJSON(a.View())
			return
		}

		logger.Info("permissions updated", slog.String("id", a.ID))
		fmt.Println()
		cli.PrintKV("Permissions", cli.FormatPermissions(a.Permissions))
	},
}

func init() {
	actorCmd.AddCommand(actorGrantCmd)

	actorGrantCmd.PersistentFlags().StringP("id", "i", "", "Sub-admin id")
	actorGrantCmd.PersistentFlags().
		StringSliceP("permissions", "p", []string{},
			"Grants as resource:action[+action]; omit to revoke everything")

	_ = actorGrantCmd.MarkPersistentFlagRequired("id")
}
