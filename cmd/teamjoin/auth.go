package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	teamjoin "github.com/teamjoin/go-teamjoin"
	"github.com/teamjoin/go-teamjoin/pkg/auth"
	"github.com/teamjoin/go-teamjoin/pkg/prompt"
	"github.com/teamjoin/go-teamjoin/pkg/submit"
)

// authPage builds the auth forms and binds them against the configured
// backend.
func (a *app) authPage(cmd *cobra.Command) (*auth.Page, auth.Bindings, error) {
	page, err := teamjoin.LoadAuthPage(cmd.Context(), a.cfg.AuthForms)
	if err != nil {
		return nil, auth.Bindings{}, err
	}
	flows := auth.New(a.ctrl,
		auth.WithNotifier(a.slot),
		auth.WithStore(a.store),
		auth.WithLogger(a.logger.Named("auth")),
		auth.WithNavigator(auth.NavigatorFunc(func(path string) {
			a.logger.Debug("teamjoin: navigate", zap.String("path", path))
		})),
	)
	return page, flows.Bind(page), nil
}

// fillAndSubmit prompts for the binding's form and submits it once. Field
// errors from validation or the server are listed before returning errSilent.
func (a *app) fillAndSubmit(cmd *cobra.Command, b *submit.Binding) error {
	ctx := cmd.Context()
	f := b.Form()
	if err := prompt.Fill(ctx, a.driver, f); err != nil {
		return err
	}

	outcome, err := b.Submit(ctx)
	if err != nil {
		return err
	}
	switch outcome {
	case submit.OutcomeSucceeded:
		return nil
	case submit.OutcomeInvalid, submit.OutcomeRejected:
		if _, err := prompt.ReportErrors(ctx, a.driver, f); err != nil {
			return err
		}
	}
	return errSilent
}

func loginCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Log in and save the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, bindings, err := a.authPage(cmd)
			if err != nil {
				return err
			}
			return a.fillAndSubmit(cmd, bindings.Login)
		},
	}
}

func signupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "signup",
		Short: "Create an account and verify it with the emailed OTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, bindings, err := a.authPage(cmd)
			if err != nil {
				return err
			}
			if err := a.fillAndSubmit(cmd, bindings.Signup); err != nil {
				return err
			}
			if !page.VerifyOTP.Visible() {
				return nil
			}
			return a.fillAndSubmit(cmd, bindings.VerifyOTP)
		},
	}
}

func verifyOTPCmd(a *app) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "verify-otp",
		Short: "Verify an email address with the OTP from signup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, bindings, err := a.authPage(cmd)
			if err != nil {
				return err
			}
			page.VerifyOTP.Show()
			if email != "" {
				if err := page.VerifyOTP.SetValue(auth.OTPEmailFieldID, email); err != nil {
					return err
				}
			}
			return a.fillAndSubmit(cmd, bindings.VerifyOTP)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email the OTP was sent to")
	return cmd
}

func forgotPasswordCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "forgot-password",
		Short: "Request a password reset link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, bindings, err := a.authPage(cmd)
			if err != nil {
				return err
			}
			return a.fillAndSubmit(cmd, bindings.Forgot)
		},
	}
}

func logoutCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				ok, err := a.driver.Confirm(cmd.Context(), prompt.ConfirmConfig{Message: "Log out?", Default: true})
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
			}
			if err := a.client.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}
