package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	versioncall "github.com/kmalakoff/node-version-call-local"
	"github.com/kmalakoff/node-version-call-local/internal/wire"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "nvcall",
		Short:         "Invoke workers under a version-matched runtime",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newCallCmd())
	root.AddCommand(newWhichCmd())
	return root
}

func newCallCmd() *cobra.Command {
	var (
		sync        bool
		callback    bool
		noSpawnEnv  bool
		envOverride []string
		pollEvery   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "call <constraint> <worker> [json-arg...]",
		Short: "Invoke a registered worker under a matching runtime version",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := versioncall.Options{
				CallbackStyleWorker: callback,
				PollInterval:        pollEvery,
			}
			if noSpawnEnv {
				opts.UseSpawnEnvironment = boolPtr(false)
			}
			if len(envOverride) > 0 {
				env, err := parseEnvFlags(envOverride)
				if err != nil {
					return err
				}
				opts.Env = env
			}

			callArgs, err := parseJSONArgs(args[2:])
			if err != nil {
				return err
			}

			var result any
			if sync {
				result, err = versioncall.CallSync(args[0], args[1], opts, callArgs...)
			} else {
				result, err = versioncall.Call(args[0], args[1], opts, callArgs...).Await()
			}
			if err != nil {
				return err
			}
			return printResult(cmd, result)
		},
	}

	cmd.Flags().BoolVar(&sync, "sync", false, "Block the calling thread instead of awaiting a future")
	cmd.Flags().BoolVar(&callback, "callback-style", false, "Invoke the worker through its callback-style registration")
	cmd.Flags().BoolVar(&noSpawnEnv, "no-spawn-env", false, "Skip spawn environment overrides for remote execution")
	cmd.Flags().StringArrayVar(&envOverride, "env", nil, "Environment override KEY=VALUE (replaces the inherited environment)")
	cmd.Flags().DurationVar(&pollEvery, "poll-interval", 0, "Subprocess completion poll interval")
	return cmd
}

func newWhichCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "which <constraint>",
		Short: "Print the executable a constraint resolves to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := versioncall.Which(args[0])
			if err != nil {
				return err
			}
			cmd.Println(path)
			return nil
		},
	}
}

// parseJSONArgs interprets each positional argument as a JSON value, falling
// back to a plain string when it does not parse.
func parseJSONArgs(raw []string) ([]any, error) {
	out := make([]any, len(raw))
	for i, arg := range raw {
		dec := json.NewDecoder(strings.NewReader(arg))
		dec.UseNumber()
		var v any
		if err := dec.Decode(&v); err != nil {
			out[i] = arg
			continue
		}
		out[i] = v
	}
	return out, nil
}

func parseEnvFlags(pairs []string) (map[string]string, error) {
	env := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --env value %q, want KEY=VALUE", pair)
		}
		env[key] = value
	}
	return env, nil
}

// printResult renders the worker result in its wire form so output is
// stable across local and remote resolution.
func printResult(cmd *cobra.Command, result any) error {
	encoded, err := wire.EncodeValue(result)
	if err != nil {
		return err
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, encoded, "", "  "); err != nil {
		cmd.Println(string(encoded))
		return nil
	}
	cmd.Println(pretty.String())
	return nil
}

func boolPtr(v bool) *bool {
	return &v
}
