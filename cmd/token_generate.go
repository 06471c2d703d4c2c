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

	"github.com/cavakil/backoffice/internal/authtoken"
	"github.com/cavakil/backoffice/internal/permission"
)

// TokenGenerator generates signed session tokens.
type TokenGenerator interface {
	Generate(
		signingKey string,
		subject string,
		role permission.Role,
		contact string,
		perms permission.Map,
	) (string, *authtoken.CustomClaims, error)
}

// tokenGenerateCmd represents the tokenGenerate command.
var tokenGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a session token",
	Long: `Generate a session token for an actor without logging in. Useful
for scripting against the administrative API.
`,
	Run: func(cmd *cobra.Command, _ []string) {
		roleFlag, _ := cmd.Flags().GetString("role")
		subject, _ := cmd.Flags().GetString("subject")
		contact, _ := cmd.Flags().GetString("contact")
		grants, _ := cmd.Flags().GetStringSlice("permissions")

		role, err := permission.ParseRole(roleFlag)
		if err != nil {
			logFatal("invalid role", err, "allowed", permission.AllRoles)
		}

		perms, err := parseGrants(grants)
		if err != nil {
			logFatal("invalid permissions", err, "resources", permission.ResourceNames())
		}

		var tm TokenGenerator = authtoken.New(logger)
		signed, claims, err := tm.Generate(
			appConfig.API.Server.Security.SigningKey,
			subject,
			role,
			contact,
			perms,
		)
		if err != nil {
			logFatal("failed to generate token", err)
		}

		if jsonOutput {
			printJSON(map[string]any{
				"token":      signed,
				"subject":    subject,
				"role":       role,
				"expires_at": claims.ExpiresAt.Time,
			})
			return
		}

		logger.Info(
			"generated token",
			slog.String("token", signed),
			slog.String("subject", subject),
			slog.String("role", string(role)),
			slog.Time("expires_at", claims.ExpiresAt.Time),
		)
	},
}

func init() {
	tokenCmd.AddCommand(tokenGenerateCmd)

	tokenGenerateCmd.PersistentFlags().
		StringP("role", "r", "", fmt.Sprintf("Role for the token (allowed: %v)", permission.AllRoles))
	tokenGenerateCmd.PersistentFlags().
		StringP("subject", "u", "", "Actor id carried as the token subject")
	tokenGenerateCmd.PersistentFlags().
		StringP("contact", "c", "", "Email or phone carried in the token")
	tokenGenerateCmd.PersistentFlags().
		StringSliceP("permissions", "p", []string{},
			"Sub-admin grants as resource:action[+action], e.g. blogs:view+add")

	_ = tokenGenerateCmd.MarkPersistentFlagRequired("role")
	_ = tokenGenerateCmd.MarkPersistentFlagRequired("subject")
	_ = tokenGenerateCmd.MarkPersistentFlagRequired("contact")
}
