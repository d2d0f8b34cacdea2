package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"CommandCore/internal/api/command"
	"CommandCore/pkg/handlerUtil"
)

func newReplCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Execute utterances read line by line, keeping history for pronouns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			errHandler := handlerUtil.New(s.log)

			out := cmd.OutOrStdout()
			scanner := bufio.NewScanner(cmd.InOrStdin())
			fmt.Fprint(out, "> ")
			for scanner.Scan() {
				text := strings.TrimSpace(scanner.Text())
				switch text {
				case "":
				case "quit", "exit":
					return nil
				default:
					resp, err := s.service.Execute(context.Background(), command.CommandRequest{Text: text})
					if err != nil {
						_, body := errHandler.Body("commandctl", err, "repl", "execute_command")
						fmt.Fprintln(out, body.Error)
					} else {
						fmt.Fprintf(out, "%s  [%s %.3f]\n", resp.Reply, resp.Operation, resp.Score)
					}
				}
				fmt.Fprint(out, "> ")
			}
			return scanner.Err()
		},
	}
}
