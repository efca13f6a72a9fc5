package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"focusfarm/internal/bootstrap"
	settingsdto "focusfarm/internal/modules/settings/dto"
	timerdto "focusfarm/internal/modules/timer/dto"
	"focusfarm/internal/platform/config"
	"focusfarm/internal/platform/logging"
	"focusfarm/internal/platform/shutdown"
)

// stopGrace bounds how long a signalled focus run waits for the session
// to record its interruption before stopping it explicitly.
const stopGrace = 2 * time.Second

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataDir string

	root := &cobra.Command{
		Use:           "focusfarm",
		Short:         "Focus timer that hatches animals for uninterrupted sessions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory holding the database and settings (default: user config dir)")

	root.AddCommand(newTUICmd(&dataDir))
	root.AddCommand(newFocusCmd(&dataDir))
	root.AddCommand(newServeCmd(&dataDir))
	root.AddCommand(newSettingsCmd(&dataDir))
	root.AddCommand(newStatsCmd(&dataDir))
	root.AddCommand(newSessionsCmd(&dataDir))
	root.AddCommand(newFarmCmd(&dataDir))
	return root
}

type loadOptions struct {
	// quietConsole keeps logs off the terminal when no log file is set.
	quietConsole bool
	progress     io.Writer
	testMode     bool
}

// loadApp wires the application. The returned func closes it together
// with the log file, if any.
func loadApp(ctx context.Context, dataDir string, opts loadOptions) (*bootstrap.App, func(), error) {
	cfg, err := config.Load(dataDir)
	if err != nil {
		return nil, nil, err
	}

	var (
		logger  zerolog.Logger
		logFile io.Closer
	)
	switch {
	case cfg.LogFile != "":
		logger, logFile, err = logging.NewFile(cfg.LogFile, cfg.LogLevel)
		if err != nil {
			return nil, nil, err
		}
	case opts.quietConsole:
		logger = zerolog.Nop()
	default:
		logger = logging.NewConsole(os.Stderr, cfg.LogLevel)
	}

	app, err := bootstrap.New(ctx, cfg, bootstrap.Options{
		Logger:   logger,
		Progress: opts.progress,
		TestMode: opts.testMode,
	})
	if err != nil {
		if logFile != nil {
			_ = logFile.Close()
		}
		return nil, nil, err
	}
	closeApp := func() {
		if err := app.Close(); err != nil {
			logger.Error().Err(err).Msg("shutdown")
		}
		if logFile != nil {
			_ = logFile.Close()
		}
	}
	return app, closeApp, nil
}

func newTUICmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the focus and farm terminal UI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, closeApp, err := loadApp(cmd.Context(), *dataDir, loadOptions{quietConsole: true})
			if err != nil {
				return err
			}
			defer closeApp()
			return bootstrap.RunTUI(cmd.Context(), app)
		},
	}
}

func newFocusCmd(dataDir *string) *cobra.Command {
	var (
		forDuration time.Duration
		testMode    bool
	)
	cmd := &cobra.Command{
		Use:   "focus",
		Short: "Run one focus session in this terminal; Ctrl+C interrupts it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if forDuration < 0 {
				return fmt.Errorf("--for must not be negative")
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			app, closeApp, err := loadApp(ctx, *dataDir, loadOptions{progress: out, testMode: testMode})
			if err != nil {
				return err
			}
			defer closeApp()

			watchCtx, stopWatch := context.WithCancel(ctx)
			defer stopWatch()
			states := app.TimerCLI.Watch(watchCtx)

			started, err := app.TimerCLI.Start(ctx)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(out, "tiers: chicken %s, cat %s, dog %s\n", started.Tier1, started.Tier2, started.Tier3)

			sigCtx, sigCancel := context.WithCancel(ctx)
			defer sigCancel()
			shutdown.Notify(sigCtx, sigCancel, app.Lifecycle.ProcessStopped)

			final, err := awaitCompletion(ctx, sigCtx, app.TimerCLI, states, forDuration)
			if err != nil {
				return err
			}
			printOutcome(out, final)
			return nil
		},
	}
	cmd.Flags().DurationVar(&forDuration, "for", 0, "stop the session after this long (0 runs until interrupted)")
	cmd.Flags().BoolVar(&testMode, "test-mode", false, "use 10s/20s/30s tiers for this run")
	return cmd
}

type focusTimer interface {
	Stop(ctx context.Context) (timerdto.StateOutput, error)
}

// awaitCompletion follows states until the session completes. Expiry of
// limit stops the session; a signal gives the interruption a short grace
// to land before stopping it.
func awaitCompletion(ctx, sigCtx context.Context, timer focusTimer, states <-chan timerdto.StateOutput, limit time.Duration) (timerdto.StateOutput, error) {
	var deadline <-chan time.Time
	if limit > 0 {
		t := time.NewTimer(limit)
		defer t.Stop()
		deadline = t.C
	}
	var grace <-chan time.Time
	signalled := sigCtx.Done()

	for {
		select {
		case st, ok := <-states:
			if !ok {
				return timerdto.StateOutput{}, fmt.Errorf("timer stopped before the session completed")
			}
			if st.State == "completed" {
				return st, nil
			}
		case <-deadline:
			return timer.Stop(ctx)
		case <-signalled:
			signalled = nil
			if ctx.Err() != nil {
				return timerdto.StateOutput{}, ctx.Err()
			}
			t := time.NewTimer(stopGrace)
			defer t.Stop()
			grace = t.C
		case <-grace:
			return timer.Stop(ctx)
		case <-ctx.Done():
			return timerdto.StateOutput{}, ctx.Err()
		}
	}
}

func printOutcome(w io.Writer, st timerdto.StateOutput) {
	switch {
	case st.Result == "success":
		_, _ = fmt.Fprintf(w, "session succeeded after %s\n", st.Elapsed.Round(time.Second))
	case st.Reason != "":
		_, _ = fmt.Fprintf(w, "session %s after %s (%s)\n", st.Result, st.Elapsed.Round(time.Second), st.Reason)
	default:
		_, _ = fmt.Fprintf(w, "session %s after %s\n", st.Result, st.Elapsed.Round(time.Second))
	}
}

func newServeCmd(dataDir *string) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Expose the timer over HTTP for external input and metrics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(addr) == "" {
				return fmt.Errorf("--addr is required")
			}
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			app, closeApp, err := loadApp(ctx, *dataDir, loadOptions{})
			if err != nil {
				return err
			}
			defer closeApp()
			shutdown.Notify(ctx, cancel, app.Lifecycle.ProcessStopped)

			srv := &http.Server{
				Addr:              addr,
				Handler:           app.HTTP.Routes(),
				ReadHeaderTimeout: 5 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() { errCh <- srv.ListenAndServe() }()
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "listening on %s\n", addr)

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}
			shutdownCtx, done := context.WithTimeout(context.WithoutCancel(ctx), stopGrace)
			defer done()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:7420", "listen address")
	return cmd
}

func newSettingsCmd(dataDir *string) *cobra.Command {
	settings := &cobra.Command{Use: "settings", Short: "Show or change preferences"}

	settings.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the current settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, closeApp, err := loadApp(cmd.Context(), *dataDir, loadOptions{})
			if err != nil {
				return err
			}
			defer closeApp()
			s, err := app.SettingsCLI.Show(cmd.Context())
			if err != nil {
				return err
			}
			printSettings(cmd.OutOrStdout(), s)
			return nil
		},
	})

	var (
		stageMinutes int
		cycle        string
		allowPause   bool
		testMode     bool
		trusted      []string
	)
	set := &cobra.Command{
		Use:   "set",
		Short: "Change one or more settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			var input settingsdto.UpdateInput
			if flags.Changed("stage-minutes") {
				input.StageMinutes = &stageMinutes
			}
			if flags.Changed("cycle") {
				input.CycleType = &cycle
			}
			if flags.Changed("allow-pause") {
				input.AllowPause = &allowPause
			}
			if flags.Changed("test-mode") {
				input.TestMode = &testMode
			}
			if flags.Changed("trusted") {
				input.TrustedPackages = &trusted
			}
			if input == (settingsdto.UpdateInput{}) {
				return fmt.Errorf("nothing to change; pass at least one flag")
			}

			app, closeApp, err := loadApp(cmd.Context(), *dataDir, loadOptions{})
			if err != nil {
				return err
			}
			defer closeApp()
			s, err := app.SettingsCLI.Set(cmd.Context(), input)
			if err != nil {
				return err
			}
			printSettings(cmd.OutOrStdout(), s)
			return nil
		},
	}
	set.Flags().IntVar(&stageMinutes, "stage-minutes", 0, "minutes per growth stage (5-60)")
	set.Flags().StringVar(&cycle, "cycle", "", "farm cycle: daily|week|month|quarter|year|custom")
	set.Flags().BoolVar(&allowPause, "allow-pause", false, "allow pausing a session")
	set.Flags().BoolVar(&testMode, "test-mode", false, "use 10s/20s/30s tiers")
	set.Flags().StringSliceVar(&trusted, "trusted", nil, "apps that never interrupt a session")

	settings.AddCommand(set)
	return settings
}

func printSettings(w io.Writer, s settingsdto.Settings) {
	_, _ = fmt.Fprintf(w, "stage minutes\t%d\n", s.StageMinutes)
	_, _ = fmt.Fprintf(w, "cycle\t%s (%s)\n", s.CycleType, s.CycleDuration)
	_, _ = fmt.Fprintf(w, "allow pause\t%t\n", s.AllowPause)
	_, _ = fmt.Fprintf(w, "test mode\t%t\n", s.TestMode)
	if len(s.TrustedPackages) == 0 {
		_, _ = fmt.Fprintln(w, "trusted\t-")
		return
	}
	_, _ = fmt.Fprintf(w, "trusted\t%s\n", strings.Join(s.TrustedPackages, ", "))
}

func newStatsCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show focus statistics and the current farm",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, closeApp, err := loadApp(cmd.Context(), *dataDir, loadOptions{})
			if err != nil {
				return err
			}
			defer closeApp()
			s, err := app.FarmCLI.Stats(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "sessions\t%d (%d successful, %d interrupted)\n", s.TotalSessions, s.SuccessfulSessions, s.InterruptedSessions)
			_, _ = fmt.Fprintf(w, "total focus\t%s\n", s.TotalFocus.Round(time.Second))
			_, _ = fmt.Fprintf(w, "average focus\t%s\n", s.AverageFocus.Round(time.Second))
			_, _ = fmt.Fprintf(w, "longest focus\t%s\n", s.LongestFocus.Round(time.Second))
			_, _ = fmt.Fprintf(w, "farm\t%d chickens, %d cats, %d dogs\n", s.Chickens, s.Cats, s.Dogs)
			return nil
		},
	}
}

func newSessionsCmd(dataDir *string) *cobra.Command {
	sessions := &cobra.Command{Use: "sessions", Short: "Session history"}

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List recent sessions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, closeApp, err := loadApp(cmd.Context(), *dataDir, loadOptions{})
			if err != nil {
				return err
			}
			defer closeApp()
			items, err := app.FarmCLI.Sessions(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions")
				return nil
			}
			for _, s := range items {
				reason := s.Reason
				if reason == "" {
					reason = "-"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\t%s\n",
					s.ID, s.StartTime.Local().Format(time.DateTime), s.Duration.Round(time.Second), s.Result, reason)
			}
			return nil
		},
	}
	list.Flags().IntVar(&limit, "limit", 20, "max sessions to show")

	sessions.AddCommand(list)
	return sessions
}

func newFarmCmd(dataDir *string) *cobra.Command {
	farm := &cobra.Command{Use: "farm", Short: "Animals and farm cycles"}

	farm.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List animals on the farm",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, closeApp, err := loadApp(cmd.Context(), *dataDir, loadOptions{})
			if err != nil {
				return err
			}
			defer closeApp()
			animals, err := app.FarmCLI.Animals(cmd.Context())
			if err != nil {
				return err
			}
			if len(animals) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "the farm is empty")
				return nil
			}
			for _, a := range animals {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", a.ID, a.Family, a.Type, a.CreatedAt.Local().Format(time.DateTime))
			}
			return nil
		},
	})

	var reason string
	reset := &cobra.Command{
		Use:   "reset",
		Short: "Close the current cycle and clear the farm",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, closeApp, err := loadApp(cmd.Context(), *dataDir, loadOptions{})
			if err != nil {
				return err
			}
			defer closeApp()
			c, err := app.FarmCLI.Reset(cmd.Context(), reason)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "closed %s cycle %s: %d sessions, %s focus, %d chickens, %d cats, %d dogs\n",
				c.CycleType, c.ID, c.TotalSessions, c.TotalDuration.Round(time.Second), c.Chickens, c.Cats, c.Dogs)
			return nil
		},
	}
	reset.Flags().StringVar(&reason, "reason", "manual", "reason stored with the cycle")

	var limit int
	cycles := &cobra.Command{
		Use:   "cycles",
		Short: "List past farm cycles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, closeApp, err := loadApp(cmd.Context(), *dataDir, loadOptions{})
			if err != nil {
				return err
			}
			defer closeApp()
			items, err := app.FarmCLI.Cycles(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no cycles")
				return nil
			}
			for _, c := range items {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s..%s\t%d\t%s\t%d/%d/%d\t%s\n",
					c.ID, c.CycleType, c.Start.Local().Format(time.DateOnly), c.End.Local().Format(time.DateOnly),
					c.TotalSessions, c.TotalDuration.Round(time.Second), c.Chickens, c.Cats, c.Dogs, c.Reason)
			}
			return nil
		},
	}
	cycles.Flags().IntVar(&limit, "limit", 10, "max cycles to show")

	farm.AddCommand(reset, cycles)
	return farm
}
