package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/platformbuilds/mirador-alert-panel/internal/alertpanel"
	"github.com/platformbuilds/mirador-alert-panel/internal/config"
	"github.com/platformbuilds/mirador-alert-panel/internal/loadtest"
	"github.com/platformbuilds/mirador-alert-panel/internal/models"
	"github.com/platformbuilds/mirador-alert-panel/internal/services"
	"github.com/platformbuilds/mirador-alert-panel/pkg/logger"
)

type renderFlags struct {
	file       string
	configPath string
	sort       string
	link       string
	exclude    []string
	hideTags   bool
	output     string
	nowMs      int64
	logLevel   string
}

func newRenderCmd() *cobra.Command {
	f := &renderFlags{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a frames file into panel rows",
		Long: `Render a frames file into panel rows.

The input is either a JSON array of frames or a render request object
{"frames": [...], "options": {...}}. Options are resolved in order:
configuration defaults, options in the input, then flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd, f)
		},
	}

	cmd.Flags().StringVarP(&f.file, "file", "f", "-", "frames file, - for stdin")
	cmd.Flags().StringVar(&f.configPath, "config", "", "service configuration file supplying panel defaults")
	cmd.Flags().StringVar(&f.sort, "sort", "", "sort mode: alert_time or priority")
	cmd.Flags().StringVar(&f.link, "link", "", "drill-down link template, e.g. https://alerts/{{alert_id}}")
	cmd.Flags().StringSliceVar(&f.exclude, "exclude", nil, "tag categories to hide")
	cmd.Flags().BoolVar(&f.hideTags, "hide-tags", false, "render no tags at all")
	cmd.Flags().StringVarP(&f.output, "output", "o", "json", "output format: json or yaml")
	cmd.Flags().Int64Var(&f.nowMs, "now", 0, "render time in epoch milliseconds (default: current time)")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "error", "log level for render diagnostics")
	return cmd
}

func runRender(cmd *cobra.Command, f *renderFlags) error {
	if f.output != "json" && f.output != "yaml" {
		return fmt.Errorf("unsupported output format %q", f.output)
	}

	opts := models.PanelOptions{Sort: models.SortByAlertTime}
	if cmd.Flags().Changed("config") {
		cfg, err := config.LoadFile(f.configPath)
		if err != nil {
			return err
		}
		opts = cfg.Panel.Defaults
	}

	raw, err := readInput(cmd.InOrStdin(), f.file)
	if err != nil {
		return err
	}
	frames, err := decodeFrames(raw, &opts)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("sort") {
		if _, ok := alertpanel.ParseSortMode(f.sort); !ok {
			return fmt.Errorf("unknown sort mode %q", f.sort)
		}
		opts.Sort = models.SortMode(f.sort)
	}
	if flags.Changed("link") {
		opts.Link = f.link
	}
	if flags.Changed("exclude") {
		opts.Exclude = f.exclude
	}
	if flags.Changed("hide-tags") {
		opts.HideTags = f.hideTags
	}

	clock := time.Now
	if f.nowMs != 0 {
		now := time.UnixMilli(f.nowMs)
		clock = func() time.Time { return now }
	}

	rows := alertpanel.NewRenderer(clock, logger.New(f.logLevel)).Render(frames, opts)
	return writeOutput(cmd.OutOrStdout(), f.output, rows)
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(stdin)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read frames: %w", err)
	}
	return b, nil
}

// decodeFrames accepts a bare frame array or a render request. Options found
// in a request override the matching fields of opts.
func decodeFrames(raw []byte, opts *models.PanelOptions) ([]models.Frame, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}

	if raw[0] == '[' {
		var frames []models.Frame
		if err := json.Unmarshal(raw, &frames); err != nil {
			return nil, fmt.Errorf("decode frames: %w", err)
		}
		return frames, nil
	}

	req := models.AlertPanelRenderRequest{Options: *opts}
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, fmt.Errorf("decode render request: %w", err)
	}
	*opts = req.Options
	return req.Frames, nil
}

func writeOutput(w io.Writer, format string, v interface{}) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newColorCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "color <tag>...",
		Short: "Print the badge colours assigned to tags",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			type tagColor struct {
				Tag                 string `json:"tag" yaml:"tag"`
				alertpanel.TagColor `yaml:",inline"`
			}
			out := make([]tagColor, 0, len(args))
			for _, tag := range args {
				out = append(out, tagColor{Tag: tag, TagColor: alertpanel.ColorFor(tag)})
			}
			if output == "text" {
				for _, c := range out {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\tfill=%s\tborder=%s\n", c.Tag, c.Fill, c.Border)
				}
				return nil
			}
			return writeOutput(cmd.OutOrStdout(), output, out)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text, json or yaml")
	return cmd
}

func newHumanizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "humanize <milliseconds>",
		Short: "Print a duration the way alert rows show it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ms, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
			if err != nil {
				return fmt.Errorf("invalid duration %q: %w", args[0], err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), alertpanel.Humanize(ms))
			return nil
		},
	}
}

func newBenchCmd() *cobra.Command {
	var (
		file     string
		duration time.Duration
		renders  int64
		workers  int
		output   string
	)
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure render throughput for a frames file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := readInput(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			opts := models.PanelOptions{Sort: models.SortByAlertTime}
			frames, err := decodeFrames(raw, &opts)
			if err != nil {
				return err
			}

			panel := config.GetDefaultConfig().Panel
			panel.MaxFrames = 0
			svc := services.NewAlertPanelService(panel, nil, logger.NewNop())

			tester, err := loadtest.NewLoadTester(loadtest.LoadTestConfig{
				Duration:          duration,
				MaxRenders:        renders,
				ConcurrentWorkers: workers,
				Batches:           []loadtest.Batch{{Name: file, Frames: frames, Options: opts, Weight: 1}},
			}, svc, logger.NewNop())
			if err != nil {
				return err
			}
			res, err := tester.RunLoadTest(cmd.Context())
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), output, res)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "frames file, - for stdin")
	cmd.Flags().DurationVar(&duration, "duration", 5*time.Second, "how long to run")
	cmd.Flags().Int64Var(&renders, "renders", 0, "stop after this many renders (0: no limit)")
	cmd.Flags().IntVar(&workers, "workers", 4, "concurrent render workers")
	cmd.Flags().StringVarP(&output, "output", "o", "json", "output format: json or yaml")
	return cmd
}
