package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	accountinadapter "studyledger/internal/modules/account/adapter/in"
	accountoutadapter "studyledger/internal/modules/account/adapter/out"
	accountservice "studyledger/internal/modules/account/service"
	accountusecase "studyledger/internal/modules/account/usecase"
	diaryinadapter "studyledger/internal/modules/diary/adapter/in"
	diaryoutadapter "studyledger/internal/modules/diary/adapter/out"
	diaryservice "studyledger/internal/modules/diary/service"
	diaryusecase "studyledger/internal/modules/diary/usecase"
	ledgerinadapter "studyledger/internal/modules/ledger/adapter/in"
	ledgeroutadapter "studyledger/internal/modules/ledger/adapter/out"
	ledgerdomain "studyledger/internal/modules/ledger/domain"
	ledgerservice "studyledger/internal/modules/ledger/service"
	ledgerusecase "studyledger/internal/modules/ledger/usecase"
	sessioninadapter "studyledger/internal/modules/session/adapter/in"
	sessionoutadapter "studyledger/internal/modules/session/adapter/out"
	sessionservice "studyledger/internal/modules/session/service"
	sessionusecase "studyledger/internal/modules/session/usecase"
	shopinadapter "studyledger/internal/modules/shop/adapter/in"
	shopoutadapter "studyledger/internal/modules/shop/adapter/out"
	shopdomain "studyledger/internal/modules/shop/domain"
	shopservice "studyledger/internal/modules/shop/service"
	shopusecase "studyledger/internal/modules/shop/usecase"
	"studyledger/internal/platform/clock"
	"studyledger/internal/platform/config"
	"studyledger/internal/platform/id"
	"studyledger/internal/platform/logger"
	"studyledger/internal/platform/sqlite"
	"studyledger/internal/platform/tx"
	uiapp "studyledger/internal/ui/app"
)

type App struct {
	Config config.Config
	Log    *logger.Logger
	DB     *sql.DB

	AccountCLI accountinadapter.CLIHandler
	LedgerCLI  ledgerinadapter.CLIHandler
	SessionCLI sessioninadapter.CLIHandler
	ShopCLI    shopinadapter.CLIHandler
	DiaryCLI   diaryinadapter.CLIHandler
}

func New(ctx context.Context, dataDir string) (*App, error) {
	cfg, err := config.New(dataDir)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("new logger: %w", err)
	}
	db, err := sqlite.Open(ctx, cfg.DBPath)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("open database: %w", err)
	}

	app, err := wire(cfg, db, log, clock.SystemClock{}, id.UUID{})
	if err != nil {
		_ = db.Close()
		log.Sync()
		return nil, err
	}
	log.Info("app_started", "data_dir", cfg.DataDir, "db", cfg.DBPath)
	return app, nil
}

func wire(cfg config.Config, db *sql.DB, log *logger.Logger, clk clock.Clock, ids id.Generator) (*App, error) {
	txm := tx.NewSQLManager(db)

	ledgerUC := ledgerusecase.NewInteractor(ledgerservice.NewLedgerService(
		clk,
		ledgerdomain.Rules{
			DefaultGoalMin: cfg.Ledger.DefaultGoalMin,
			MinGoalMin:     cfg.Ledger.MinGoalMin,
			MaxGoalMin:     cfg.Ledger.MaxGoalMin,
			CoinsPerMinute: cfg.Ledger.CoinsPerMinute,
			GoalBonus:      cfg.Ledger.GoalBonus,
		},
		ledgeroutadapter.NewSQLiteDailyStore(db),
		ledgeroutadapter.NewSQLiteRewardLog(db),
		ledgeroutadapter.NewSQLiteClaimStore(db),
		ledgeroutadapter.NewSQLiteSessionMinutes(db),
	), txm, log)

	sessionUC := sessionusecase.NewInteractor(sessionservice.NewSessionService(
		clk,
		ids,
		sessionservice.Settings{
			CoinsPerMinute: cfg.Ledger.CoinsPerMinute,
			FocusMin:       cfg.Pomodoro.FocusMin,
			BreakMin:       cfg.Pomodoro.BreakMin,
		},
		sessionoutadapter.NewSQLiteSubjectStore(db),
		sessionoutadapter.NewSQLiteSessionStore(db),
		sessionoutadapter.NewFileTimerStore(cfg.StateDir),
	), ledgerUC, txm, log)

	items := make([]shopdomain.CatalogItem, 0, len(cfg.Catalog))
	for _, item := range cfg.Catalog {
		t, err := shopdomain.ParseItemType(item.Type)
		if err != nil {
			return nil, fmt.Errorf("catalog item %s: %w", item.Name, err)
		}
		items = append(items, shopdomain.CatalogItem{Type: t, Name: item.Name, Price: item.Price})
	}
	catalog, err := shopdomain.NewCatalog(items)
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}
	shopUC := shopusecase.NewInteractor(shopservice.NewShopService(
		clk,
		catalog,
		shopoutadapter.NewSQLiteInventoryStore(db),
	), ledgerUC, txm, log)

	accountUC := accountusecase.NewInteractor(accountservice.NewAccountService(
		clk,
		ids,
		accountoutadapter.NewSQLiteUserStore(db),
		accountoutadapter.NewFileCurrentUserStore(cfg.StateDir),
		accountoutadapter.NewBcryptHasher(0),
	), sessionUC, cfg.Subjects, txm, log)

	diaryUC := diaryusecase.NewInteractor(diaryservice.NewDiaryService(
		clk,
		ids,
		diaryoutadapter.NewSQLiteEntryStore(db),
		diaryoutadapter.NewFileMediaStore(cfg.MediaDir, ids),
		diaryoutadapter.NewMarkdownNoteWriter(),
	), txm, log)

	return &App{
		Config:     cfg,
		Log:        log,
		DB:         db,
		AccountCLI: accountinadapter.NewCLIHandler(accountUC),
		LedgerCLI:  ledgerinadapter.NewCLIHandler(ledgerUC),
		SessionCLI: sessioninadapter.NewCLIHandler(sessionUC),
		ShopCLI:    shopinadapter.NewCLIHandler(shopUC),
		DiaryCLI:   diaryinadapter.NewCLIHandler(diaryUC),
	}, nil
}

// UserID resolves the logged-in user for commands that need one.
func (a *App) UserID(ctx context.Context) (string, error) {
	user, err := a.AccountCLI.WhoAmI(ctx)
	if err != nil {
		return "", err
	}
	return user.ID, nil
}

func (a *App) Backup(ctx context.Context, dest string) error {
	if err := sqlite.Backup(ctx, a.DB, dest); err != nil {
		a.Log.Error("backup_failed", "dest", dest, "error", err)
		return err
	}
	a.Log.Info("backup_written", "dest", dest)
	return nil
}

func (a *App) Close() error {
	defer a.Log.Sync()
	return a.DB.Close()
}

func RunTUI(ctx context.Context, app *App) error {
	user, err := app.AccountCLI.WhoAmI(ctx)
	if err != nil {
		return err
	}
	model := uiapp.NewModel(uiapp.User{ID: user.ID, Name: user.Name}, app.LedgerCLI, app.SessionCLI, app.ShopCLI, app.DiaryCLI)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = program.Run()
	return err
}
