package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func newEvalCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "eval [json-body]",
		Short: "Run one request body through the dispatcher and print status and envelope",
		Long:  "Run one request body through the dispatcher. The body is read from stdin when no argument is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			var body []byte
			if len(args) == 1 {
				body = []byte(args[0])
			} else {
				body, err = io.ReadAll(io.LimitReader(cmd.InOrStdin(), cfg.MaxBodyBytes))
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
			}

			d, err := newDispatcher(cfg, log)
			if err != nil {
				return err
			}
			status, env := d.Dispatch(cmd.Context(), []byte(strings.TrimSpace(string(body))))

			out, err := json.MarshalIndent(env, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d\n%s\n", status, out)
			return nil
		},
	}
}
