package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	farminadapter "focusfarm/internal/modules/farm/adapter/in"
	farmoutadapter "focusfarm/internal/modules/farm/adapter/out"
	farmin "focusfarm/internal/modules/farm/port/in"
	farmservice "focusfarm/internal/modules/farm/service"
	farmusecase "focusfarm/internal/modules/farm/usecase"
	interruptionoutadapter "focusfarm/internal/modules/interruption/adapter/out"
	interruptionin "focusfarm/internal/modules/interruption/port/in"
	interruptionout "focusfarm/internal/modules/interruption/port/out"
	interruptionservice "focusfarm/internal/modules/interruption/service"
	settingsinadapter "focusfarm/internal/modules/settings/adapter/in"
	settingsoutadapter "focusfarm/internal/modules/settings/adapter/out"
	settingsin "focusfarm/internal/modules/settings/port/in"
	settingsservice "focusfarm/internal/modules/settings/service"
	settingsusecase "focusfarm/internal/modules/settings/usecase"
	timerinadapter "focusfarm/internal/modules/timer/adapter/in"
	timeroutadapter "focusfarm/internal/modules/timer/adapter/out"
	timerin "focusfarm/internal/modules/timer/port/in"
	timerout "focusfarm/internal/modules/timer/port/out"
	timerservice "focusfarm/internal/modules/timer/service"
	timerusecase "focusfarm/internal/modules/timer/usecase"
	"focusfarm/internal/platform/clock"
	"focusfarm/internal/platform/config"
	"focusfarm/internal/platform/id"
	"focusfarm/internal/platform/metrics"
	"focusfarm/internal/platform/sqlitedb"
	"focusfarm/internal/platform/tx"
	uiapp "focusfarm/internal/ui/app"
)

// Options tune how a front end wants the app assembled.
type Options struct {
	Logger zerolog.Logger
	// Progress receives the terminal notifier output; nil disables it.
	Progress io.Writer
	// TestMode forces 10/20/30 second tiers for this process.
	TestMode bool
}

type App struct {
	Timer     timerin.Usecase
	Farm      farmin.Usecase
	Settings  settingsin.Usecase
	Lifecycle interruptionin.LifecycleHooks
	Input     interruptionin.InputSink

	TimerCLI    timerinadapter.CLIHandler
	FarmCLI     farminadapter.CLIHandler
	SettingsCLI settingsinadapter.CLIHandler
	HTTP        *timerinadapter.HTTPHandler

	manager *timerservice.Manager
	db      *sql.DB
	logger  zerolog.Logger
	cancel  context.CancelFunc
	done    chan error
}

func New(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	logger := opts.Logger
	clk := clock.SystemClock{}
	ids := id.UUID{}

	db, err := sqlitedb.OpenAndMigrate(ctx, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	settingsUC := settingsusecase.NewInteractor(settingsservice.NewSettingsService(
		settingsoutadapter.NewYAMLStore(cfg.SettingsPath),
		logger,
	))

	var observer *interruptionoutadapter.IdleInputObserver
	if obs, err := interruptionoutadapter.NewIdleInputObserver(clk); err != nil {
		logger.Info().Err(err).Msg("desktop input observation unavailable")
	} else {
		observer = obs
	}
	touch := interruptionservice.NewTouchSource(clk, inputObserver(observer), logger)

	var feed *interruptionoutadapter.ReplaySensorFeed
	if cfg.SensorReplay != "" {
		feed = interruptionoutadapter.NewReplaySensorFeed(cfg.SensorReplay, clk)
	}
	motion := interruptionservice.NewMotionSource(clk, sensorFeed(feed), logger)
	lifecycle := interruptionservice.NewLifecycleSource(clk, logger)
	usage := interruptionservice.NewUsageSource(
		clk,
		interruptionoutadapter.NewForegroundUsageQuerier(),
		interruptionoutadapter.NewSettingsClassifier(settingsUC),
		cfg.AppName,
		logger,
	)
	aggregator := interruptionservice.NewAggregator(clk, logger, touch, motion, lifecycle, usage)

	recorder := metrics.NewPrometheus()
	var notifier timerout.Notifier
	if opts.Progress != nil {
		notifier = timeroutadapter.NewTerminalNotifier(opts.Progress)
	}
	manager := timerservice.NewManager(timerservice.Deps{
		Clock:       clk,
		IDs:         ids,
		Sessions:    timeroutadapter.NewSQLiteSessionStore(db),
		Farm:        timeroutadapter.NewSQLiteFarmStore(db),
		Notifier:    notifier,
		Preferences: timeroutadapter.NewPreferencesBridge(settingsUC, opts.TestMode),
		Monitor:     timeroutadapter.NewMonitorBridge(aggregator),
		Recorder:    recorder,
		Logger:      logger,
	})
	timerUC := timerusecase.NewInteractor(manager)

	farmRepo := farmoutadapter.NewSQLiteRepository(db)
	farmUC := farmusecase.NewInteractor(farmservice.NewFarmService(
		clk,
		ids,
		farmRepo,
		farmRepo,
		farmoutadapter.NewSQLiteCycleStore(db),
		farmoutadapter.NewSettingsCycleBridge(settingsUC),
		tx.NewSQLManager(db),
		logger,
	))

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	app := &App{
		Timer:       timerUC,
		Farm:        farmUC,
		Settings:    settingsUC,
		Lifecycle:   lifecycle,
		Input:       touch,
		TimerCLI:    timerinadapter.NewCLIHandler(timerUC),
		FarmCLI:     farminadapter.NewCLIHandler(farmUC),
		SettingsCLI: settingsinadapter.NewCLIHandler(settingsUC),
		HTTP:        timerinadapter.NewHTTPHandler(timerUC, touch, recorder.Handler(), logger),
		manager:     manager,
		db:          db,
		logger:      logger,
		cancel:      cancel,
		done:        make(chan error, 1),
	}
	go func() { app.done <- manager.Run(runCtx) }()
	return app, nil
}

// Close stops the timer, waits for pending writes and closes the database.
// A session still running is discarded without a record.
func (a *App) Close() error {
	a.manager.Close()
	a.cancel()
	runErr := <-a.done
	if errors.Is(runErr, context.Canceled) {
		runErr = nil
	}
	return errors.Join(runErr, a.db.Close())
}

// RunTUI drives the focus screen until the user quits.
func RunTUI(ctx context.Context, app *App) error {
	model := uiapp.NewModel(ctx, uiapp.Ports{
		Timer:     app.Timer,
		Farm:      app.Farm,
		Settings:  app.Settings,
		Lifecycle: app.Lifecycle,
		Input:     app.Input,
	})
	program := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithReportFocus(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// inputObserver and sensorFeed keep a nil adapter from turning into a
// non-nil interface.
func inputObserver(o *interruptionoutadapter.IdleInputObserver) interruptionout.InputObserver {
	if o == nil {
		return nil
	}
	return o
}

func sensorFeed(f *interruptionoutadapter.ReplaySensorFeed) interruptionout.SensorFeed {
	if f == nil {
		return nil
	}
	return f
}
