package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teamjoin/go-teamjoin/pkg/api"
	"github.com/teamjoin/go-teamjoin/pkg/toast"
)

func profileCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show the logged-in user's profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := a.client.FetchUserProfile(cmd.Context())
			if err != nil {
				return a.apiErr(err)
			}
			printProfile(cmd.OutOrStdout(), p)
			return nil
		},
	}
	cmd.AddCommand(profileUpdateCmd(a), profileIdeasCmd(a), profileTeamsCmd(a))
	return cmd
}

func profileUpdateCmd(a *app) *cobra.Command {
	var data, skills []string
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Set profile fields and skills",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			update := api.ProfileUpdate{}
			var err error
			if update.UserData, err = parsePairs(data); err != nil {
				return err
			}
			if update.Skills, err = parsePairs(skills); err != nil {
				return err
			}
			if len(update.UserData) == 0 && len(update.Skills) == 0 {
				return fmt.Errorf("nothing to update: pass --set or --skill")
			}
			p, err := a.client.UpdateUserProfile(cmd.Context(), update)
			if err != nil {
				return a.apiErr(err)
			}
			a.slot.Show("Profile updated.", toast.KindSuccess)
			printProfile(cmd.OutOrStdout(), p)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&data, "set", nil, "profile field as key=value (repeatable)")
	cmd.Flags().StringArrayVar(&skills, "skill", nil, "skill as name=level (repeatable)")
	return cmd
}

func profileIdeasCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ideas",
		Short: "Show ideas you created or joined",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := a.client.FetchUserIdeas(cmd.Context())
			if err != nil {
				return a.apiErr(err)
			}
			var pretty map[string]any
			if json.Unmarshal(raw, &pretty) != nil {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(raw))
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(pretty)
		},
	}
}

func profileTeamsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "teams",
		Short: "Show the teams you lead",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ideas, err := a.client.FetchUserTeams(cmd.Context())
			if err != nil {
				return a.apiErr(err)
			}
			return printIdeas(cmd.OutOrStdout(), ideas)
		},
	}
}

// parsePairs turns key=value arguments into a map. Values that parse as JSON
// numbers or booleans keep that type.
func parsePairs(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid pair %q: want key=value", pair)
		}
		var typed any
		if err := json.Unmarshal([]byte(value), &typed); err == nil {
			switch typed.(type) {
			case float64, bool:
				out[key] = typed
				continue
			}
		}
		out[key] = value
	}
	return out, nil
}

func printProfile(out io.Writer, p api.Profile) {
	fmt.Fprintf(out, "Email: %s\n", p.Email)
	if p.UUID != "" {
		fmt.Fprintf(out, "ID:    %s\n", p.UUID)
	}
	printSection(out, "Profile", p.UserData)
	printSection(out, "Skills", p.Skills)
}

func printSection(out io.Writer, title string, values map[string]any) {
	if len(values) == 0 {
		return
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Fprintf(out, "\n%s:\n", title)
	for _, k := range keys {
		fmt.Fprintf(out, "  %s: %v\n", k, values[k])
	}
}
