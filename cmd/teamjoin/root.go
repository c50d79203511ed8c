package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "teamjoin",
		Short: "Find teammates and join project ideas from the terminal",
		Long: `teamjoin is a command-line client for the TeamJoin backend.

Sign up, verify your email, log in, browse the idea feed, publish ideas
and request to join other people's teams.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.setup(cmd)
		},
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/teamjoin/config.yaml)")
	flags.StringVar(&a.apiURL, "api", "", "backend base URL, overrides the config file")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	flags.BoolVar(&a.metrics, "metrics", false, "print submission metrics to stderr on exit")

	root.AddCommand(
		loginCmd(a),
		signupCmd(a),
		verifyOTPCmd(a),
		forgotPasswordCmd(a),
		logoutCmd(a),
		feedCmd(a),
		ideaCmd(a),
		searchCmd(a),
		profileCmd(a),
		versionCmd(),
	)
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "teamjoin %s (%s)\n", version, commit)
			fmt.Fprintf(out, "Go version: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
