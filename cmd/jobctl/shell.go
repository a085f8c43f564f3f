package main

import (
	"bufio"
	"errors"
	"fmt"

	"github.com/google/shlex"
	"github.com/nixpig/jobconsole/internal/jobcontrol"
	"github.com/spf13/cobra"
)

const prompt = "jobctl > "

func (c *cli) shellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive job console",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.connect(cmd); err != nil {
				return err
			}

			return c.shell(cmd)
		},
	}
}

// shell reads console lines until EOF or exit. Lines are split with shell
// quoting rules, so `rename_job 0 "new name"` keeps the name whole.
func (c *cli) shell(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	scanner := bufio.NewScanner(cmd.InOrStdin())

	for {
		fmt.Fprint(out, prompt)

		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		words, err := shlex.Split(scanner.Text())
		if err != nil {
			fmt.Fprintf(errOut, "%s%v\n", jobcontrol.LevelError.Prefix(), err)
			continue
		}

		if len(words) == 0 {
			continue
		}

		command, args := words[0], words[1:]

		switch command {
		case "exit", "quit":
			return nil

		case "help", "?":
			topic := ""
			if len(args) > 0 {
				topic = args[0]
			}

			writeHelp(out, topic)

		case "run":
			if len(args) == 0 {
				fmt.Fprintf(errOut, "%sUsage: run PROGRAM [ARGS]\n", jobcontrol.LevelError.Prefix())
				continue
			}

			if err := c.runJob(cmd, "", args); err != nil {
				fmt.Fprintf(errOut, "%s%v\n", jobcontrol.LevelError.Prefix(), err)
			}

		default:
			if jobcontrol.Help(command) == "" {
				fmt.Fprintf(errOut, "%sUnknown command: %s\n", jobcontrol.LevelError.Prefix(), command)
				continue
			}

			err := c.exec(cmd, command, args)
			if err != nil && !errors.Is(err, errCommandFailed) {
				fmt.Fprintf(errOut, "%s%v\n", jobcontrol.LevelError.Prefix(), err)
			}
		}

		if err := cmd.Context().Err(); err != nil {
			return nil
		}
	}
}
