package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"CommandCore/internal/api/command"
	"CommandCore/pkg/handlerUtil"
	"CommandCore/pkg/resolver"
)

func newResolveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <text>",
		Short: "Rank every candidate operation for an utterance",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			resp, err := s.service.Explain(context.Background(), command.CommandRequest{Text: strings.Join(args, " ")})
			if err != nil {
				return err
			}

			writeCandidates(cmd.OutOrStdout(), resp.Candidates)
			if resp.Accepted {
				fmt.Fprintf(cmd.OutOrStdout(), "\naccepted: %s\n", resp.Candidates[0].Operation)
				return nil
			}

			failure := &resolver.Failure{Code: resolver.FailureCode(resp.Code), Parameter: resp.Parameter, Input: resp.Input}
			_, body := handlerUtil.New(s.log).Body("commandctl", failure, "resolve", "resolve_command")
			fmt.Fprintf(cmd.OutOrStdout(), "\nrejected: %s (%s)\n", body.Error, body.Code)
			return nil
		},
	}
}

func writeCandidates(out io.Writer, candidates []command.CandidateResponse) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tOPERATION\tSCORE\tTEMPLATE\tARGUMENTS\tNOTE")
	for i, c := range candidates {
		note := ""
		if c.Discarded {
			note = c.Reason
		} else if len(c.Missing) > 0 {
			note = "missing " + strings.Join(c.Missing, ", ")
		}
		fmt.Fprintf(w, "%d\t%s\t%.3f\t%s\t%s\t%s\n", i+1, c.Operation, c.Score, c.Template, formatArguments(c.Arguments), note)
	}
	w.Flush()
}

func formatArguments(args []command.ArgumentResponse) string {
	if len(args) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(args))
	for _, a := range args {
		value := fmt.Sprintf("%v", a.Value)
		if a.Pronoun {
			value += " (pronoun)"
		}
		parts = append(parts, fmt.Sprintf("%s=%s [%.2f]", a.Name, value, a.Score))
	}
	sort.Strings(parts)
	return strings.Join(parts, " ")
}
