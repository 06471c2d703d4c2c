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

	"github.com/cavakil/backoffice/internal/validation"
)

// otpCmd represents the otp command.
var otpCmd = &cobra.Command{
	Use:   "otp",
	Short: "One-time login codes",
}

// otpIssueCmd represents the otpIssue command.
var otpIssueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Issue a one-time code for a phone",
	Long: `Issue a one-time login code for a phone number and print it. Any
pending code for the phone is replaced. Delivery to the phone is out of
scope; this is for operators and testing.
`,
	Run: func(cmd *cobra.Command, _ []string) {
		phone, _ := cmd.Flags().GetString("phone")

		if msg, ok := validation.Var(phone, "required,phone"); !ok {
			logFatal("invalid phone", fmt.Errorf("%s", msg), "phone", phone)
		}

		b := &backends{}
		connectRedis(logger, b)
		defer b.close()

		code, err := b.otp.Issue(cmd.Context(), phone)
		if err != nil {
			logFatal("failed to issue code", err)
		}

		if jsonOutput {
			printJSON(map[string]string{"phone": phone, "code": code})
			return
		}

		logger.Info("code issued", slog.String("phone", phone), slog.String("code", code))
	},
}

func init() {
	rootCmd.AddCommand(otpCmd)
	otpCmd.AddCommand(otpIssueCmd)

	otpIssueCmd.PersistentFlags().String("phone", "", "10-digit phone number")

	_ = otpIssueCmd.MarkPersistentFlagRequired("phone")
}
