package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/teamjoin/go-teamjoin/pkg/api"
	"github.com/teamjoin/go-teamjoin/pkg/prompt"
	"github.com/teamjoin/go-teamjoin/pkg/toast"
)

func feedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "feed",
		Short: "List every idea",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ideas, err := a.client.FetchFeed(cmd.Context())
			if err != nil {
				return a.apiErr(err)
			}
			return printIdeas(cmd.OutOrStdout(), ideas)
		},
	}
}

func ideaCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "idea",
		Short: "Show, publish or join ideas",
	}
	cmd.AddCommand(ideaShowCmd(a), ideaCreateCmd(a), ideaJoinCmd(a))
	return cmd
}

func ideaShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one idea and its members",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idea, err := a.client.FetchIdeaByID(cmd.Context(), args[0])
			if err != nil {
				return a.apiErr(err)
			}
			printIdea(cmd.OutOrStdout(), idea)
			return nil
		},
	}
}

func ideaCreateCmd(a *app) *cobra.Command {
	var in api.NewIdea
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Publish a new idea",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			ask := func(dst *string, label string) error {
				if *dst != "" {
					return nil
				}
				v, err := a.driver.Input(ctx, prompt.InputConfig{Message: label + ":", Validator: required(label)})
				*dst = v
				return err
			}
			if err := ask(&in.Title, "Title"); err != nil {
				return err
			}
			if err := ask(&in.SubTitle, "Subtitle"); err != nil {
				return err
			}
			if in.FullExplainedIdea == "" {
				text, err := a.driver.TextArea(ctx, prompt.TextAreaConfig{Message: "Explain the idea:"})
				if err != nil {
					return err
				}
				in.FullExplainedIdea = text
			}

			idea, err := a.client.CreateIdea(ctx, in)
			if err != nil {
				return a.apiErr(err)
			}
			a.slot.Show(fmt.Sprintf("Idea %q published.", idea.Title), toast.KindSuccess)
			fmt.Fprintln(cmd.OutOrStdout(), idea.ID)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&in.Title, "title", "", "idea title")
	flags.StringVar(&in.SubTitle, "subtitle", "", "one-line summary")
	flags.StringVar(&in.FullExplainedIdea, "description", "", "full explanation")
	flags.StringVar(&in.ImageURL, "image-url", "", "cover image URL")
	return cmd
}

func ideaJoinCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "join <id>",
		Short: "Request to join an idea's team",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.client.RequestToJoinIdea(cmd.Context(), args[0]); err != nil {
				return a.apiErr(err)
			}
			a.slot.Show("Join request sent.", toast.KindSuccess)
			return nil
		},
	}
}

func searchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search ideas and users",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := a.client.Search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return a.apiErr(err)
			}
			return printSearch(cmd.OutOrStdout(), results)
		},
	}
}

func required(label string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", label)
		}
		return nil
	}
}

func printIdeas(out io.Writer, ideas []api.Idea) error {
	if len(ideas) == 0 {
		_, err := fmt.Fprintln(out, "No ideas yet.")
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tSUMMARY\tMEMBERS")
	for _, idea := range ideas {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", idea.ID, idea.Title, idea.SubTitle, len(idea.Members))
	}
	return tw.Flush()
}

func printIdea(out io.Writer, idea api.Idea) {
	fmt.Fprintf(out, "%s\n%s\n\n%s\n", idea.Title, idea.SubTitle, idea.FullExplainedIdea)
	if idea.ImageURL != "" {
		fmt.Fprintf(out, "\nImage: %s\n", idea.ImageURL)
	}
	if len(idea.Members) == 0 {
		return
	}
	fmt.Fprintln(out, "\nMembers:")
	for _, m := range idea.Members {
		fmt.Fprintf(out, "  %s  %s\n", m.UserID, m.Status)
	}
}

func printSearch(out io.Writer, results []api.SearchResult) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(out, "No results.")
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tID\tNAME")
	for _, r := range results {
		var rec struct {
			ID    string `json:"id"`
			UUID  string `json:"uuid"`
			Title string `json:"title"`
			Email string `json:"email"`
		}
		_ = json.Unmarshal(r.Data, &rec)
		id, name := rec.ID, rec.Title
		if r.Type == "user" {
			id, name = rec.UUID, rec.Email
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Type, id, name)
	}
	return tw.Flush()
}
