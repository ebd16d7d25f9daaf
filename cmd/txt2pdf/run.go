package main

import (
	"context"
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"
)

// run dispatches args[1] to its command. args[0] is the program name.
func run(ctx context.Context, args []string, env *Environment) error {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return fmt.Errorf("%w: no command given", ErrUsage)
	}

	cmd, rest := args[1], args[2:]
	var err error
	switch cmd {
	case "convert":
		err = runConvertCmd(ctx, rest, env)
	case "title":
		err = runTitleCmd(rest, env)
	case "serve":
		err = runServeCmd(ctx, rest, env)
	case "mcp":
		err = runMCPCmd(ctx, rest, env)
	case "doctor":
		err = runDoctorCmd(rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "txt2pdf %s\n", Version)
	case "help", "-h", "--help":
		err = runHelp(rest, env)
	default:
		printUsage(env.Stderr)
		return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}

	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	return err
}

// usageError marks a flag parsing failure as a usage error. Help requests
// pass through so run can treat them as success.
func usageError(err error) error {
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrUsage, err)
}
