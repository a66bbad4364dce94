package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jask/finadvisor/internal/advisor"
	"github.com/jask/finadvisor/internal/config"
	"github.com/jask/finadvisor/internal/database"
	"github.com/jask/finadvisor/internal/database/pgstore"
	"github.com/jask/finadvisor/internal/database/repository"
	"github.com/jask/finadvisor/internal/domain"
	"github.com/jask/finadvisor/internal/httpapi"
	"github.com/jask/finadvisor/internal/llm"
	"github.com/jask/finadvisor/internal/service"
)

// env is the wired application for one command invocation.
type env struct {
	cfg          config.Config
	users        service.UserStore
	health       httpapi.Pinger
	auth         *service.AuthService
	transactions *service.TransactionService
	advisory     *service.AdvisoryService
	importer     *service.ImportService
	maintenance  *service.MaintenanceService
	cache        *advisor.Cache

	db   *sql.DB
	pool *pgxpool.Pool
}

func openEnv(ctx context.Context, cfg config.Config) (*env, error) {
	e := &env{cfg: cfg}
	var (
		txs  service.TransactionStore
		cats service.CategoryStore
	)
	switch cfg.Database.Driver {
	case "postgres":
		if err := database.RunPostgresMigrations(cfg.Database.URL, cfg.Database.Migrations); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		pool, err := pgstore.Connect(ctx, cfg.Database.URL)
		if err != nil {
			return nil, err
		}
		e.pool = pool
		txRepo := pgstore.NewTransactionRepo(pool)
		txs, cats, e.users, e.health = txRepo, pgstore.NewCategoryRepo(pool), pgstore.NewUserRepo(pool), txRepo
	default:
		if err := database.RunMigrations(cfg.Database.Path, cfg.Database.Migrations); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		db, err := database.Open(cfg.Database.Path)
		if err != nil {
			return nil, fmt.Errorf("open db: %w", err)
		}
		e.db = db
		txRepo := repository.NewTransactionRepo(db)
		txs, cats, e.users, e.health = txRepo, repository.NewCategoryRepo(db), repository.NewUserRepo(db), txRepo
		e.maintenance = &service.MaintenanceService{DB: db}
	}

	if err := database.SeedDefaults(ctx, cats); err != nil {
		e.Close()
		return nil, fmt.Errorf("seed defaults: %w", err)
	}

	gen, err := newGenerator(cfg)
	if err != nil {
		e.Close()
		return nil, err
	}
	e.cache = gen.Cache

	e.auth = &service.AuthService{Users: e.users, Secret: []byte(cfg.Server.JWTSecret), TTL: cfg.Server.TokenTTL}
	e.transactions = &service.TransactionService{Transactions: txs, Categories: cats}
	e.advisory = &service.AdvisoryService{Transactions: txs, Generator: gen}
	e.importer = &service.ImportService{Transactions: e.transactions}
	return e, nil
}

func newGenerator(cfg config.Config) (*advisor.Generator, error) {
	apiKey := cfg.ResolveAPIKey()
	provider, err := llm.NewProvider(cfg.LLM.Provider, apiKey, cfg.LLM.Model, cfg.LLM.BaseURL)
	if err != nil {
		return nil, err
	}
	if apiKey == "" {
		log.Printf("llm: no API key for %s (checked $%s, key store, config); advice will use local fallback", cfg.LLM.Provider, cfg.LLM.APIKeyEnv)
	}
	cache, err := advisor.NewCache(cfg.Advisory.CacheSize, cfg.Advisory.CacheTTL)
	if err != nil {
		return nil, err
	}
	return &advisor.Generator{Provider: provider, APIKey: apiKey, Timeout: cfg.LLM.Timeout, Cache: cache}, nil
}

// user returns the account selected with --user.
func (e *env) user(ctx context.Context, email string) (domain.User, error) {
	u, err := e.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return domain.User{}, fmt.Errorf("lookup user: %w", err)
	}
	if u == nil {
		return domain.User{}, fmt.Errorf("user %s not found (run `finadvisor seed` or register through the API)", email)
	}
	return *u, nil
}

func (e *env) Close() {
	e.cache.Close()
	if e.pool != nil {
		e.pool.Close()
	}
	if e.db != nil {
		if err := e.db.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
			log.Printf("close db: %v", err)
		}
	}
}
