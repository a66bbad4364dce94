package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jask/finadvisor/internal/advisor"
	"github.com/jask/finadvisor/internal/finance"
	"github.com/jask/finadvisor/internal/httpapi"
	"github.com/jask/finadvisor/internal/report"
	"github.com/jask/finadvisor/internal/secrets"
	"github.com/jask/finadvisor/internal/seed"
	"github.com/jask/finadvisor/internal/service"
	"github.com/jask/finadvisor/internal/tui"
)

// withEnv opens the application for the duration of fn.
func withEnv(cmd *cobra.Command, flags *rootFlags, fn func(ctx context.Context, e *env) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	e, err := openEnv(ctx, flags.cfg)
	if err != nil {
		return err
	}
	defer e.Close()
	return fn(ctx, e)
}

func serveCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(flags.cfg.Server.JWTSecret) == "" {
				return errors.New("server.jwt_secret (or JWT_SECRET) is not set")
			}
			return withEnv(cmd, flags, func(ctx context.Context, e *env) error {
				app := httpapi.New(httpapi.Services{
					Auth:         e.auth,
					Transactions: e.transactions,
					Advisory:     e.advisory,
					Health:       e.health,
				}, httpapi.Options{
					CORSOrigins: flags.cfg.Server.CORSOrigins,
					RateLimit:   flags.cfg.Server.RateLimit,
					Version:     version,
					Currency:    flags.cfg.UI.CurrencySymbol,
				})

				sig := make(chan os.Signal, 1)
				signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
				go func() {
					<-sig
					log.Printf("shutting down")
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
					defer cancel()
					if err := app.ShutdownWithContext(shutdownCtx); err != nil {
						log.Printf("shutdown: %v", err)
					}
				}()

				log.Printf("🚀 finadvisor %s listening on %s (db=%s, llm=%s)", version, flags.cfg.Server.Addr, flags.cfg.Database.Driver, flags.cfg.LLM.Provider)
				return app.Listen(flags.cfg.Server.Addr)
			})
		},
	}
}

func migrateCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and seed default categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, flags, func(ctx context.Context, e *env) error {
				fmt.Fprintf(cmd.OutOrStdout(), "database ready (%s)\n", flags.cfg.Database.Driver)
				return nil
			})
		},
	}
}

func seedCmd(flags *rootFlags) *cobra.Command {
	var random int
	var randomSeed int64
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the demo user with sample transactions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, flags, func(ctx context.Context, e *env) error {
				now := time.Now()
				res, err := seed.Demo(ctx, seed.Services{Auth: e.auth, Transactions: e.transactions}, now)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if res.Created == 0 {
					fmt.Fprintf(out, "demo user %s already exists\n", res.User.Email)
				} else {
					fmt.Fprintf(out, "✅ demo user created with %d transactions\n", res.Created)
				}
				if random > 0 {
					n, err := seed.Random(ctx, e.transactions, res.User.ID, random, rand.New(rand.NewSource(randomSeed)), now)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "added %d random transactions\n", n)
				}
				fmt.Fprintf(out, "📧 Email: %s\n🔑 Password: %s\n", seed.DemoEmail, seed.DemoPassword)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&random, "random", 0, "also add this many random expenses over the last 90 days")
	cmd.Flags().Int64Var(&randomSeed, "random-seed", 1, "seed for --random")
	return cmd
}

func summaryCmd(flags *rootFlags) *cobra.Command {
	var start, end string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print income, expenses and balance by category",
		RunE: func(cmd *cobra.Command, args []string) error {
			rng, err := finance.ParseDateRange(start, end, time.Now())
			if err != nil {
				return err
			}
			return withEnv(cmd, flags, func(ctx context.Context, e *env) error {
				u, err := e.user(ctx, flags.email)
				if err != nil {
					return err
				}
				rep, err := e.advisory.GetSummary(ctx, u.ID, rng)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), tui.RenderSummary(rep.Range, rep.Summary, flags.cfg.UI.CurrencySymbol))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "first day (YYYY-MM-DD), default 30 days ago")
	cmd.Flags().StringVar(&end, "end", "", "last day (YYYY-MM-DD), default today")
	return cmd
}

func adviseCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:       "advise <analysis|prediction|tips>",
		Short:     "Generate financial advice",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(advisor.KindAnalysis), string(advisor.KindPrediction), string(advisor.KindTips)},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := advisor.ParseKind(args[0])
			if err != nil {
				return err
			}
			return withEnv(cmd, flags, func(ctx context.Context, e *env) error {
				u, err := e.user(ctx, flags.email)
				if err != nil {
					return err
				}
				title, res, err := advise(ctx, e.advisory, u.ID, kind)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), tui.RenderAdvice(title, res))
				return nil
			})
		},
	}
}

func advise(ctx context.Context, svc *service.AdvisoryService, userID string, kind advisor.Kind) (string, advisor.Result, error) {
	switch kind {
	case advisor.KindAnalysis:
		r, err := svc.GetAnalysis(ctx, userID)
		return "Análisis financiero", advisor.Result{Text: r.Text, Source: r.Source}, err
	case advisor.KindPrediction:
		r, err := svc.GetPrediction(ctx, userID)
		return "Predicción de gastos", advisor.Result{Text: r.Text, Source: r.Source}, err
	default:
		r, err := svc.GetTips(ctx, userID)
		return "Consejos financieros", advisor.Result{Text: r.Text, Source: r.Source}, err
	}
}

func addCmd(flags *rootFlags) *cobra.Command {
	var amount, desc, category, typ, date string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		RunE: func(cmd *cobra.Command, args []string) error {
			amt, err := finance.ParseAmount(amount)
			if err != nil {
				return err
			}
			t, err := finance.ParseType(typ)
			if err != nil {
				return err
			}
			in := service.TransactionInput{Amount: amt, Description: desc, Category: category, Type: t}
			if date != "" {
				if in.Date, err = finance.ParseDate(date); err != nil {
					return err
				}
			}
			return withEnv(cmd, flags, func(ctx context.Context, e *env) error {
				u, err := e.user(ctx, flags.email)
				if err != nil {
					return err
				}
				tx, err := e.transactions.Create(ctx, u.ID, in)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "added %s %s %s%s (%s) %s\n", tx.Date.Format(finance.DateLayout), tx.Type,
					flags.cfg.UI.CurrencySymbol, finance.FormatAmount(tx.Amount), tx.Category, tx.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&amount, "amount", "", "amount, positive")
	cmd.Flags().StringVar(&desc, "desc", "", "description")
	cmd.Flags().StringVar(&category, "category", "", "category")
	cmd.Flags().StringVar(&typ, "type", string(finance.Expense), "income or expense")
	cmd.Flags().StringVar(&date, "date", "", "date (YYYY-MM-DD), default today")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("desc")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func importCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import transactions from CSV (date, amount, description, category[, type])",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, flags, func(ctx context.Context, e *env) error {
				u, err := e.user(ctx, flags.email)
				if err != nil {
					return err
				}
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				res, err := e.importer.ImportCSV(ctx, u.ID, f)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "imported %d, skipped %d, errors %d\n", res.Imported, res.Skipped, len(res.Errors))
				for _, err := range res.Errors {
					fmt.Fprintf(out, "  %v\n", err)
				}
				return nil
			})
		},
	}
}

func reportCmd(flags *rootFlags) *cobra.Command {
	var start, end, output, adviceKind string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Export a PDF statement",
		RunE: func(cmd *cobra.Command, args []string) error {
			rng, err := finance.ParseDateRange(start, end, time.Now())
			if err != nil {
				return err
			}
			return withEnv(cmd, flags, func(ctx context.Context, e *env) error {
				u, err := e.user(ctx, flags.email)
				if err != nil {
					return err
				}
				rep, err := e.advisory.GetSummary(ctx, u.ID, rng)
				if err != nil {
					return err
				}
				txs, err := e.transactions.List(ctx, u.ID, finance.Filter{Start: rng.Start, End: rng.End})
				if err != nil {
					return err
				}
				st := report.Statement{
					Owner:        u.Name + " <" + u.Email + ">",
					Currency:     flags.cfg.UI.CurrencySymbol,
					Range:        rng,
					Summary:      rep.Summary,
					Transactions: txs,
					GeneratedAt:  time.Now(),
				}
				if adviceKind != "" {
					kind, err := advisor.ParseKind(adviceKind)
					if err != nil {
						return err
					}
					title, res, err := advise(ctx, e.advisory, u.ID, kind)
					if err != nil {
						return err
					}
					st.AdviceTitle, st.Advice = title, res.Text
				}
				pdf, err := report.BuildSummaryPDF(st)
				if err != nil {
					return err
				}
				if err := os.WriteFile(output, pdf, 0o644); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", output, len(pdf))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "first day (YYYY-MM-DD), default 30 days ago")
	cmd.Flags().StringVar(&end, "end", "", "last day (YYYY-MM-DD), default today")
	cmd.Flags().StringVarP(&output, "output", "o", "resumen.pdf", "output file")
	cmd.Flags().StringVar(&adviceKind, "advice", "", "append advice: analysis, prediction or tips")
	return cmd
}

func tuiCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the terminal dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, flags, func(ctx context.Context, e *env) error {
				u, err := e.user(ctx, flags.email)
				if err != nil {
					return err
				}
				provider := flags.cfg.LLM.Provider
				app := tui.New(ctx, tui.Services{
					Transactions: e.transactions,
					Advisory:     e.advisory,
					Importer:     e.importer,
					SaveAPIKey:   func(key string) error { return secrets.SetKey(provider, key) },
				}, tui.Options{UserID: u.ID, UserName: u.Name, Currency: flags.cfg.UI.CurrencySymbol})
				_, err = tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
				return err
			})
		},
	}
}

func keyCmd(flags *rootFlags) *cobra.Command {
	var provider string
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the stored LLM API key",
	}
	cmd.PersistentFlags().StringVar(&provider, "provider", "", "provider name (default llm.provider)")
	name := func() string {
		if provider != "" {
			return provider
		}
		return flags.cfg.LLM.Provider
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "set <key>",
		Short: "Store an API key in the local key store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := secrets.SetKey(name(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "stored key for %s\n", name())
			return nil
		},
	}, &cobra.Command{
		Use:   "delete",
		Short: "Remove the stored API key",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := secrets.DeleteKey(name()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted key for %s\n", name())
			return nil
		},
	})
	return cmd
}

func resetCmd(flags *rootFlags) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all users, transactions and categories (sqlite only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to reset without --yes")
			}
			return withEnv(cmd, flags, func(ctx context.Context, e *env) error {
				if e.maintenance == nil {
					return fmt.Errorf("reset is only supported for sqlite3, not %s", flags.cfg.Database.Driver)
				}
				if err := e.maintenance.Reset(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "database reset")
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deleting everything")
	return cmd
}
