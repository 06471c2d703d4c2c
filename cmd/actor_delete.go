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
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cavakil/backoffice/internal/actor"
)

// actorDeleteCmd represents the actorDelete command.
var actorDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete an actor",
	Long: `Delete an actor and its login indexes. Sessions already issued to
the actor stay valid until they expire.
`,
	Run: func(cmd *cobra.Command, _ []string) {
		id, _ := cmd.Flags().GetString("id")

		b := connectNATSStores(logger)
		defer b.close()

		err := b.actors.Delete(cmd.Context(), id)
		if errors.Is(err, actor.ErrNotFound) {
			logFatal("actor not found", err, "id", id)
		}
		if err != nil {
			logFatal("failed to delete actor", err)
		}

		logger.Info("actor deleted", slog.String("id", id))
	},
}

func init() {
	actorCmd.AddCommand(actorDeleteCmd)

	actorDeleteCmd.PersistentFlags().StringP("id", "i", "", "Actor id")

	_ = actorDeleteCmd.MarkPersistentFlagRequired("id")
}
