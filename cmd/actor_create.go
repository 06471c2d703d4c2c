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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/cavakil/backoffice/internal/actor"
	"github.com/cavakil/backoffice/internal/permission"
	"github.com/cavakil/backoffice/internal/session"
)

// readPassword prompts on the terminal without echo.
func readPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("no terminal to prompt for a password; use --password")
	}

	fmt.Fprint(os.Stderr, "Password: ")
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}

// newActor builds an actor from command input, applying the same
// credential rules as the API: administrative roles log in by email and
// password, end users by phone.
func newActor(
	role permission.Role,
	name string,
	email string,
	phone string,
	password string,
	perms permission.Map,
) (*actor.Actor, error) {
	a := &actor.Actor{
		Name: name,
		Role: role,
	}

	if role.IsAdministrative() {
		if email == "" {
			return nil, fmt.Errorf("%s requires --email", role)
		}
		if len(password) < 8 {
			return nil, fmt.Errorf("password must be at least 8 characters")
		}
		hash, err := session.HashPassword(password)
		if err != nil {
			return nil, err
		}
		a.Email = email
		a.PasswordHash = hash
	} else {
		if phone == "" {
			return nil, fmt.Errorf("%s requires --phone", role)
		}
		a.Phone = phone
	}

	if role == permission.RoleSubAdmin {
		a.Permissions = perms.Normalize()
	}

	return a, nil
}

// actorCreateCmd represents the actorCreate command.
var actorCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an actor",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()

		roleFlag, _ := cmd.Flags().GetString("role")
		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		phone, _ := cmd.Flags().GetString("phone")
		password, _ := cmd.Flags().GetString("password")
		grants, _ := cmd.Flags().GetStringSlice("permissions")

		role, err := permission.ParseRole(roleFlag)
		if err != nil {
			logFatal("invalid role", err, "allowed", permission.AllRoles)
		}

		perms, err := parseGrants(grants)
		if err != nil {
			logFatal("invalid permissions", err, "resources", permission.ResourceNames())
		}

		if role.IsAdministrative() && password == "" {
			if password, err = readPassword(); err != nil {
				logFatal("failed to read password", err)
			}
		}

		a, err := newActor(role, strings.TrimSpace(name), email, phone, password, perms)
		if err != nil {
			logFatal("invalid actor", err)
		}

		b := connectNATSStores(logger)
		defer b.close()

		if err := createActor(ctx, b.actors, a); err != nil {
			logFatal("failed to create actor", err)
		}

		if jsonOutput {
			printJSON(a.View())
			return
		}

		logger.Info(
			"actor created",
			slog.String("id", a.ID),
			slog.String("role", string(a.Role)),
			slog.String("contact", a.Contact()),
		)
	},
}

// createActor maps a uniqueness conflict to a readable error.
func createActor(
	ctx context.Context,
	store actor.Store,
	a *actor.Actor,
) error {
	err := store.Create(ctx, a)
	if errors.Is(err, actor.ErrDuplicate) {
		return fmt.Errorf("an actor with contact %s already exists", a.Contact())
	}
	return err
}

func init() {
	actorCmd.AddCommand(actorCreateCmd)

	actorCreateCmd.PersistentFlags().
		StringP("role", "r", "", fmt.Sprintf("Role (allowed: %v)", permission.AllRoles))
	actorCreateCmd.PersistentFlags().StringP("name", "n", "", "Display name")
	actorCreateCmd.PersistentFlags().StringP("email", "e", "", "Login email for admin and sub-admin")
	actorCreateCmd.PersistentFlags().String("phone", "", "10-digit phone for end users")
	actorCreateCmd.PersistentFlags().
		String("password", "", "Password; prompted on the terminal when omitted")
	actorCreateCmd.PersistentFlags().
		StringSliceP("permissions", "p", []string{},
			"Sub-admin grants as resource:action[+action]")

	_ = actorCreateCmd.MarkPersistentFlagRequired("role")
}
