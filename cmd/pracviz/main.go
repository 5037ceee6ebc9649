// Package main provides the CLI entrypoint for pracviz.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/pracviz/internal/config"
	"github.com/verte-zerg/pracviz/internal/dashboard"
	"github.com/verte-zerg/pracviz/internal/logging"
	"github.com/verte-zerg/pracviz/internal/model"
	"github.com/verte-zerg/pracviz/internal/pipeline"
	"github.com/verte-zerg/pracviz/internal/store"
	"github.com/verte-zerg/pracviz/internal/watch"
)

const (
	defaultCSVPath        = "data.csv"
	defaultStructuredPath = "data.json"
)

var (
	dataCSV        string
	dataStructured string
	viewThreshold  int
	viewSelect     []string
	viewWatch      bool
	viewRemember   bool
	logFile        string
	logLevel       string
	logVerbose     bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pracviz",
		Short:         "Instrument practice analytics dashboard",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runDashboardCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&dataCSV, "csv", defaultCSVPath, "tabular practice log (Instrument, Practice)")
	flags.StringVar(&dataStructured, "structured", defaultStructuredPath, "structured ratings file (.json, .yaml, .yml)")
	flags.IntVar(&viewThreshold, "threshold", 0, "practice hour limit for the performance view (0 = max)")
	flags.StringSliceVar(&viewSelect, "select", nil, "instruments to include in the bar view (default: all)")
	flags.BoolVar(&viewRemember, "remember", true, "restore and save the instrument selection between runs")
	flags.StringVar(&logFile, "log-file", "", "write operator logs to this file")
	flags.StringVar(&logLevel, "log-level", "info", "operator log level")
	flags.BoolVarP(&logVerbose, "verbose", "v", false, "debug logging")
	rootCmd.Flags().BoolVar(&viewWatch, "watch", false, "reload when a data file changes")

	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newForgetCmd())

	return rootCmd
}

// session bundles what every command needs after flags and config are merged.
type session struct {
	cfg    model.Config
	logger *zap.Logger
	runner *pipeline.Runner
	store  *store.Store
	slot   string
}

func (s *session) Close() {
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			logErrf("failed to close state db: %v\n", err)
		}
	}
	if err := s.logger.Sync(); err != nil {
		// Best-effort flush.
		_ = err
	}
}

func openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(logging.Options{File: logFile, Level: logLevel, Verbose: logVerbose})
	if err != nil {
		return nil, err
	}
	s := &session{
		cfg:    cfg,
		logger: logger,
		runner: &pipeline.Runner{TabularPath: cfg.TabularPath, StructuredPath: cfg.StructuredPath, Logger: logger},
		slot:   store.SlotName(cfg.TabularPath, cfg.StructuredPath),
	}
	if cfg.Remember {
		st, err := store.Open(config.DefaultStatePath())
		if err != nil {
			logErrf("failed to open state db: %v\n", err)
			logger.Warn("state db unavailable", zap.Error(err))
		} else {
			s.store = st
		}
	}
	logger.Info("session started",
		zap.String("csv", cfg.TabularPath),
		zap.String("structured", cfg.StructuredPath),
		zap.Bool("remember", cfg.Remember),
	)
	return s, nil
}

// initialState seeds the first render. Explicit flags win over the saved slot.
func (s *session) initialState(ctx context.Context) model.State {
	state := model.State{Threshold: s.cfg.Threshold}
	if len(s.cfg.Select) > 0 {
		state.Selection = model.Selection{Instruments: s.cfg.Select, Set: true}
	}
	if s.store == nil {
		return state
	}
	saved, ok, err := s.store.LoadState(ctx, s.slot)
	if err != nil {
		s.logger.Warn("load saved selection failed", zap.Error(err))
		return state
	}
	if !ok {
		return state
	}
	if !state.Selection.Set {
		state.Selection = saved.Selection
	}
	if state.Threshold == 0 {
		state.Threshold = saved.Threshold
	}
	return state
}

func (s *session) save(ctx context.Context, state model.State) {
	if s.store == nil {
		return
	}
	if err := s.store.SaveState(ctx, s.slot, state); err != nil {
		s.logger.Warn("save selection failed", zap.Error(err))
	}
}

func resolveConfig(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "csv", &dataCSV, fileCfg.Data.CSV)
	applyStringConfig(cmd, "structured", &dataStructured, fileCfg.Data.Structured)
	applyIntConfig(cmd, "threshold", &viewThreshold, fileCfg.Dashboard.Threshold)
	applyStringSliceConfig(cmd, "select", &viewSelect, fileCfg.Dashboard.Select)
	applyBoolConfig(cmd, "watch", &viewWatch, fileCfg.Dashboard.Watch)
	applyBoolConfig(cmd, "remember", &viewRemember, fileCfg.Dashboard.Remember)
	applyStringConfig(cmd, "log-file", &logFile, fileCfg.Log.File)
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)

	cfg := model.Config{
		TabularPath:    strings.TrimSpace(dataCSV),
		StructuredPath: strings.TrimSpace(dataStructured),
		Threshold:      viewThreshold,
		Select:         normalizeSelect(viewSelect),
		Watch:          viewWatch,
		Remember:       viewRemember,
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func runDashboardCmd(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()
	state := s.initialState(ctx)

	if !stdoutIsTerminal() {
		s.logger.Debug("stdout is not a terminal; printing text report")
		return writeTextReport(cmd.OutOrStdout(), s.runner.Run(ctx, state))
	}

	var changes <-chan struct{}
	if s.cfg.Watch {
		w, err := watch.New(s.logger, s.cfg.TabularPath, s.cfg.StructuredPath)
		if err != nil {
			return fmt.Errorf("failed to start watcher: %w", err)
		}
		if err := w.Start(ctx); err != nil {
			return fmt.Errorf("failed to start watcher: %w", err)
		}
		defer w.Stop()
		changes = w.Changes()
	}

	opts := dashboard.Options{
		Runner:  s.runner,
		Slot:    s.slot,
		State:   state,
		Changes: changes,
		Logger:  s.logger,
	}
	if s.store != nil {
		opts.Saver = s.store
	}
	program := tea.NewProgram(dashboard.NewModel(opts), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run dashboard: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newForgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forget",
		Short: "Delete the saved selection for the data files",
		Args:  cobra.NoArgs,
		RunE:  runForgetCmd,
	}
}

func runForgetCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	st, err := store.Open(config.DefaultStatePath())
	if err != nil {
		return fmt.Errorf("failed to open state db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close state db: %v\n", cerr)
		}
	}()
	slot := store.SlotName(cfg.TabularPath, cfg.StructuredPath)
	if err := st.DeleteState(commandContext(cmd), slot); err != nil {
		return fmt.Errorf("failed to delete saved selection: %w", err)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "forgot %s\n", slot); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyStringSliceConfig(cmd *cobra.Command, name string, target, value *[]string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = append([]string(nil), (*value)...)
}

func normalizeSelect(names []string) []string {
	out := make([]string, 0, len(names))
	seen := map[string]bool{}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# pracviz configuration
# Uncomment a value to enable it. CLI flags override config values.

[data]
# csv = %q          # Practice log with Instrument and Practice columns
# structured = %q  # Ratings document with a data_points array (.json or .yaml)

[dashboard]
# threshold = 0            # Practice hour limit for the performance view (0 = max)
# select = ["Piano"]       # Instruments shown in the bar view (default: all)
# watch = false            # Reload when a data file changes
# remember = true          # Restore the last selection on start

[log]
# file = %q
# level = "info"
`,
		defaultCSVPath,
		defaultStructuredPath,
		config.DefaultLogPath(),
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.TabularPath == "" {
		return fmt.Errorf("--csv must not be empty")
	}
	if cfg.StructuredPath == "" {
		return fmt.Errorf("--structured must not be empty")
	}
	if cfg.Threshold < 0 {
		return fmt.Errorf("--threshold must be >= 0")
	}
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
