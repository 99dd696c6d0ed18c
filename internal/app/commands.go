package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"shiftboard/internal/core"
	"shiftboard/internal/holidays"
	"shiftboard/internal/pattern"
	"shiftboard/internal/timeboard"

	"github.com/urfave/cli/v2"
)

var logger = core.NewDefaultLogger()

func buildCommand() *cli.Command {
	return &cli.Command{
		Name:  "build",
		Usage: "Build a timeboard from config and report its shape",
		Flags: []cli.Flag{
			&cli.PathFlag{Name: fOutDir, Usage: "write a text report of the timeboard to this directory"},
		},
		Action: func(c *cli.Context) error {
			spinner := core.NewSpinner("building timeboard", core.IsSilent())
			spinner.Start()
			tb, _, err := loadTimeboard(c.StringSlice(fConfig))
			spinner.Stop(err == nil)
			if err != nil {
				return fmt.Errorf("build: %w", err)
			}

			if !core.IsSilent() {
				fmt.Println(core.BoldText("shiftboard build"))
				fmt.Printf("%s %s\n", core.Success("ok"), tb)
			}

			if outDir := c.Path(fOutDir); outDir != "" {
				if err := writeReport(tb, outDir); err != nil {
					return fmt.Errorf("build: write report: %w", err)
				}
				logger.Info("wrote timeboard report to %s", outDir)
			}
			return nil
		},
	}
}

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:  "inspect",
		Usage: "Print every workshift on the timeline as a table",
		Action: func(c *cli.Context) error {
			tb, _, err := loadTimeboard(c.StringSlice(fConfig))
			if err != nil {
				return fmt.Errorf("inspect: %w", err)
			}
			return printInspectTable(os.Stdout, tb)
		},
	}
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "Validate config, layout, and holiday rules without building a full report",
		Action: func(c *cli.Context) error {
			_, _, err := loadTimeboard(c.StringSlice(fConfig))
			if err != nil {
				fmt.Printf("%s %v\n", core.Error("invalid"), err)
				return err
			}
			fmt.Printf("%s configuration is valid\n", core.Success("ok"))
			return nil
		},
	}
}

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Rebuild the timeboard whenever its config or holiday-rules file changes",
		Action: func(c *cli.Context) error {
			paths := c.StringSlice(fConfig)
			cm := core.NewConfigManager()
			if _, err := cm.Load(paths); err != nil {
				return fmt.Errorf("watch: %w", err)
			}

			rebuild := func() {
				cfg := cm.GetCurrentConfig()
				tb, err := buildFromConfig(&cfg)
				if err != nil {
					logger.Error("rebuild failed: %v", err)
					return
				}
				logger.Info("rebuilt: %s", tb)
			}

			spinner := core.NewSpinner("loading initial timeboard", core.IsSilent())
			spinner.Start()
			rebuild()
			spinner.Stop(true)

			if err := cm.StartHotReload(func(event *core.ConfigReloadEvent) {
				if event.Success {
					rebuild()
				}
			}); err != nil {
				return fmt.Errorf("watch: %w", err)
			}
			defer cm.StopHotReload()

			logger.Info("watching %s for changes, press Ctrl+C to stop", strings.Join(paths, ", "))
			select {}
		},
	}
}

// loadTimeboard loads config from configPaths, validates it, and builds the
// timeboard it describes (layout, holiday-rule amendments, default schedule).
func loadTimeboard(configPaths []string) (*timeboard.Timeboard, *core.Config, error) {
	cfg, err := core.NewConfig(configPaths...)
	if err != nil {
		return nil, nil, err
	}

	if result := core.ValidateConfig(&cfg); result.HasErrors() {
		return nil, &cfg, fmt.Errorf("%s", result.Summary())
	}

	tb, err := buildFromConfig(&cfg)
	return tb, &cfg, err
}

func buildFromConfig(cfg *core.Config) (*timeboard.Timeboard, error) {
	if len(cfg.Layout) == 0 {
		return nil, core.NewInvalidArgumentsError("config layout must not be empty")
	}

	labels := make([]pattern.Label, len(cfg.Layout))
	for i, s := range cfg.Layout {
		labels[i] = s
	}

	start := cfg.ParsedStartDate()
	end := cfg.ParsedEndDate()

	opts := []timeboard.Option{
		timeboard.WithDefaultSchedule(cfg.DefaultSchedule, offDutySelector),
	}

	if cfg.HolidayRulesFile != "" {
		rules, err := holidays.LoadRulesFile(cfg.HolidayRulesFile)
		if err != nil {
			return nil, err
		}
		amendments, err := holidays.Amendments(start, end, rules)
		if err != nil {
			return nil, err
		}
		if len(amendments) > 0 {
			opts = append(opts, timeboard.WithAmendments(amendments))
		}
	}

	return timeboard.New(cfg.BaseUnitFreq, start, end, labels, opts...)
}

// offDutySelector treats the string label "off" (case-insensitive) as
// off-duty and everything else as on-duty; non-string labels fall back to
// pattern.Truthy.
func offDutySelector(label pattern.Label) bool {
	s, ok := label.(string)
	if !ok {
		return pattern.Truthy(label)
	}
	return !strings.EqualFold(strings.TrimSpace(s), "off")
}

func printInspectTable(w *os.File, tb *timeboard.Timeboard) error {
	fmt.Fprintf(w, "%-8s %-22s %-22s %-4s %-12s %s\n", "loc", "start", "end", "dur", "label", "duty")
	sched, err := tb.Schedule("")
	if err != nil {
		return err
	}
	for pos := 0; pos < tb.Len(); pos++ {
		ws, err := tb.WorkshiftAt(pos, "")
		if err != nil {
			return err
		}
		duty := "off"
		if sched.IsOnDuty(pos) {
			duty = "on"
		}
		fmt.Fprintf(w, "%-8d %-22s %-22s %-4d %-12v %s\n",
			ws.Position(), ws.StartTime().Format("2006-01-02 15:04"), ws.EndTime().Format("2006-01-02 15:04"),
			ws.Duration(), ws.Label(), duty)
	}
	return nil
}

func writeReport(tb *timeboard.Timeboard, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(outDir, "timeboard.txt")
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Fprintf(f, "%s\n\n", tb)
	return printInspectTable(f, tb)
}
