package main

import (
	"fmt"

	"github.com/guise-dev/guise/internal/demo"
	"github.com/guise-dev/guise/internal/errors"
	"github.com/spf13/cobra"
)

func demoCmd() *cobra.Command {
	var (
		configPath string
		clicks     int
		todos      int
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "demo <counter|todo>",
		Short: "Replay a scripted session against a demo component",
		Long: `Replay a scripted user session and print the document after
every step.

Examples:
  guise demo counter
  guise demo counter --clicks=5
  guise demo todo --todos=2`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"counter", "todo"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("clicks") {
				cfg.Demo.Clicks = clicks
			}
			if cmd.Flags().Changed("todos") {
				cfg.Demo.Todos = todos
			}
			if cfg.Demo.Clicks < 0 || cfg.Demo.Todos < 0 {
				return errors.New(errors.InvalidFlag).
					WithDetail("--clicks and --todos must not be negative")
			}

			var steps []demo.Step
			opts := demo.Options{Logger: newLogger(cmd.ErrOrStderr(), verbose)}
			switch args[0] {
			case "counter":
				steps = demo.CounterScript(cfg.Demo.Clicks)
			case "todo":
				steps = demo.TodoScript()
				opts.Todos = cfg.Demo.Todos
			default:
				return errors.New(errors.UnknownDemo).
					WithDetail(fmt.Sprintf("%q is not a demo. The available demos are counter and todo.", args[0]))
			}

			s, err := demo.NewSession(opts)
			if err != nil {
				return errors.FromError(err, errors.DefinitionRefused)
			}
			defer s.Close()

			w := cmd.OutOrStdout()
			return s.Play(steps, func(step demo.Step, html string) {
				fmt.Fprintf(w, "# %s\n%s\n\n", step.Name, html)
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to guise.json or guise.yaml")
	cmd.Flags().IntVar(&clicks, "clicks", 0, "Number of clicks in the counter demo (default from config)")
	cmd.Flags().IntVar(&todos, "todos", 0, "Number of seeded todos (default from config)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log scheduler and commit details")

	return cmd
}
