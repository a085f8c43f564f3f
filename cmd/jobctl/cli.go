package main

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"

	"github.com/nixpig/jobconsole/internal/api"
	"github.com/nixpig/jobconsole/internal/jobcontrol"
	"github.com/nixpig/jobconsole/internal/tlsconfig"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

const version = "0.1.0"

// errCommandFailed is returned when a console command reports failure. Its
// output has already been written.
var errCommandFailed = errors.New("command failed")

type cli struct {
	client api.ConsoleServiceClient
	conn   *grpc.ClientConn
	v      *viper.Viper
}

func newCLI() *cli {
	return &cli{v: viper.New()}
}

func (c *cli) rootCmd() *cobra.Command {
	command := &cobra.Command{
		Use:           "jobctl",
		Short:         "CLI for the jobserver job console",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if c.conn == nil {
				return nil
			}

			// Connection needs to remain open for duration of any child commands.
			return c.conn.Close()
		},
	}

	bindFlags(command.PersistentFlags())

	for _, cc := range jobcontrol.Commands() {
		command.AddCommand(c.consoleCmd(cc))
	}

	command.AddCommand(
		c.runCmd(),
		c.shellCmd(),
	)

	command.CompletionOptions.HiddenDefaultCmd = true

	return command
}

// connect dials the server on first use. A preset client is used as-is.
func (c *cli) connect(cmd *cobra.Command) error {
	if c.client != nil {
		return nil
	}

	cfg, err := loadConfig(c.v, cmd.Root().PersistentFlags())
	if err != nil {
		return err
	}

	creds := insecure.NewCredentials()
	if !cfg.insecure {
		tlsConfig, err := tlsconfig.SetupTLS(&tlsconfig.Config{
			CertPath:   cfg.certPath,
			KeyPath:    cfg.keyPath,
			CACertPath: cfg.caCertPath,
			ServerName: cfg.serverHostname,
		})
		if err != nil {
			return err
		}

		creds = credentials.NewTLS(tlsConfig)
	}

	c.conn, err = grpc.NewClient(
		net.JoinHostPort(cfg.serverHostname, cfg.serverPort),
		grpc.WithTransportCredentials(creds),
	)
	if err != nil {
		return err
	}

	c.client = api.NewConsoleServiceClient(c.conn)

	return nil
}

// consoleCmd forwards a console command and its raw arguments to the server,
// which parses them.
func (c *cli) consoleCmd(cc jobcontrol.Command) *cobra.Command {
	return &cobra.Command{
		Use:                cc.Name + " [ARGS]",
		Short:              cc.Description,
		Long:               jobcontrol.Help(cc.Name),
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			args, err := splitConnFlags(cmd.Root().PersistentFlags(), args)
			if err != nil {
				return err
			}

			if err := c.connect(cmd); err != nil {
				return err
			}

			return c.exec(cmd, cc.Name, args)
		},
		ValidArgsFunction: func(
			cmd *cobra.Command,
			args []string,
			toComplete string,
		) ([]cobra.Completion, cobra.ShellCompDirective) {
			if err := c.connect(cmd); err != nil {
				return nil, cobra.ShellCompDirectiveError
			}

			resp, err := c.client.Complete(cmd.Context(), &api.CompleteRequest{
				Command: cc.Name,
				Words:   append([]string{cc.Name}, args...),
			})
			if err != nil {
				return nil, cobra.ShellCompDirectiveError
			}

			var candidates []cobra.Completion
			for _, candidate := range resp.Candidates {
				if strings.HasPrefix(candidate, toComplete) {
					candidates = append(candidates, candidate)
				}
			}

			return candidates, cobra.ShellCompDirectiveNoFileComp
		},
	}
}

func (c *cli) exec(cmd *cobra.Command, command string, args []string) error {
	resp, err := c.client.Exec(cmd.Context(), &api.ExecRequest{
		Command: command,
		Args:    args,
	})
	if err != nil {
		return mapError(err)
	}

	if _, err := resp.Result().WriteTo(cmd.OutOrStdout()); err != nil {
		return err
	}

	if resp.Error != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s%s\n", jobcontrol.LevelError.Prefix(), resp.Error)
	}

	if !resp.OK {
		return errCommandFailed
	}

	return nil
}

func (c *cli) runCmd() *cobra.Command {
	var name string

	command := &cobra.Command{
		Use:     "run [flags] JOB_PROGRAM [JOB_ARGS]",
		Short:   "Run a program as a new job",
		Example: "  jobctl run --name logs tail -f server.log",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.connect(cmd); err != nil {
				return err
			}

			return c.runJob(cmd, name, args)
		},
	}

	command.Flags().StringVar(&name, "name", "", "Job name (defaults to the module name)")

	// Stop parsing args after first position so that flags passed to the program
	// to run are not interpreted by the jobctl CLI and are passed as-is,
	// e.g. `-f` is an argument to `tail` _not_ to `jobctl run`:
	//	`jobctl run tail -f server.log`
	command.Flags().SetInterspersed(false)

	return command
}

func (c *cli) runJob(cmd *cobra.Command, name string, args []string) error {
	resp, err := c.client.RunJob(cmd.Context(), &api.RunJobRequest{
		Name:    name,
		Program: args[0],
		Args:    args[1:],
	})
	if err != nil {
		return mapError(err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), strconv.Itoa(resp.ID))

	return nil
}

// mapError translates gRPC errors to human-readable messages.
func mapError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	switch st.Code() {
	case codes.NotFound:
		return errors.New("not found")
	case codes.PermissionDenied:
		return errors.New("permission denied")
	case codes.Unauthenticated:
		return errors.New("not authenticated")
	case codes.InvalidArgument:
		return fmt.Errorf("%s", st.Message())
	case codes.Unavailable:
		return errors.New("server unavailable")
	default:
		return fmt.Errorf("%s", st.Message())
	}
}

func writeHelp(w io.Writer, command string) {
	if command != "" {
		if help := jobcontrol.Help(command); help != "" {
			fmt.Fprint(w, help)
			return
		}

		fmt.Fprintf(w, "%sUnknown command: %s\n", jobcontrol.LevelError.Prefix(), command)
		return
	}

	fmt.Fprintln(w, "Commands:")
	for _, cc := range jobcontrol.Commands() {
		fmt.Fprintf(w, "  %-12s %s\n", cc.Name, cc.Description)
	}
	fmt.Fprintf(w, "  %-12s %s\n", "run", "Run a program as a new job")
	fmt.Fprintf(w, "  %-12s %s\n", "help", "Show help for a command")
	fmt.Fprintf(w, "  %-12s %s\n", "exit", "Leave the shell")
}
