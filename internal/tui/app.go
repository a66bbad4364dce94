package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/finadvisor/internal/advisor"
	"github.com/jask/finadvisor/internal/finance"
	"github.com/jask/finadvisor/internal/service"
)

// App ties together views.
type App struct {
	ctx      context.Context
	services Services
	opts     Options

	state     appState
	modal     modalState
	rng       finance.DateRange
	summary   *finance.Summary
	txs       []finance.Transaction
	txCursor  int
	advice    map[advisor.Kind]advisor.Result
	adviceErr map[advisor.Kind]string
	adviceTab int
	loading   map[advisor.Kind]bool

	importPath  string
	inputBuffer string
	lastImport  *service.ImportResult
	status      string
}

// Services are the operations the UI calls.
type Services struct {
	Transactions *service.TransactionService
	Advisory     *service.AdvisoryService
	Importer     *service.ImportService
	// SaveAPIKey persists a provider key; nil hides the settings action.
	SaveAPIKey func(key string) error
}

// Options identify the user and presentation settings.
type Options struct {
	UserID   string
	UserName string
	Currency string
	Now      func() time.Time
}

type appState string

const (
	viewDashboard    appState = "dashboard"
	viewTransactions appState = "transactions"
	viewAdvice       appState = "advice"
	viewImport       appState = "import"
)

type modalState string

const (
	modalNone          modalState = ""
	modalConfirmDelete modalState = "confirmDelete"
	modalEditAPIKey    modalState = "apiKey"
)

var adviceTabs = []struct {
	kind  advisor.Kind
	label string
}{
	{advisor.KindAnalysis, "Análisis"},
	{advisor.KindPrediction, "Predicción"},
	{advisor.KindTips, "Consejos"},
}

func New(ctx context.Context, services Services, opts Options) *App {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Currency == "" {
		opts.Currency = "$"
	}
	return &App{
		ctx:       ctx,
		services:  services,
		opts:      opts,
		state:     viewDashboard,
		rng:       finance.DefaultWindow(opts.Now()),
		advice:    map[advisor.Kind]advisor.Result{},
		adviceErr: map[advisor.Kind]string{},
		loading:   map[advisor.Kind]bool{},
	}
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.loadSummary(), a.loadTransactions()}
	for _, t := range adviceTabs {
		a.loading[t.kind] = true
		cmds = append(cmds, a.loadAdvice(t.kind))
	}
	return tea.Batch(cmds...)
}

// messages
type summaryMsg finance.Summary

type transactionsMsg []finance.Transaction

type adviceMsg struct {
	kind advisor.Kind
	res  advisor.Result
	err  error
}

type statusMsg string

// changedMsg reports a write; data is reloaded.
type changedMsg string

type errMsg struct{ error }

type importDoneMsg struct {
	Result service.ImportResult
}

func (a *App) loadSummary() tea.Cmd {
	return func() tea.Msg {
		rep, err := a.services.Advisory.GetSummary(a.ctx, a.opts.UserID, a.rng)
		if err != nil {
			return errMsg{err}
		}
		return summaryMsg(rep.Summary)
	}
}

func (a *App) loadTransactions() tea.Cmd {
	return func() tea.Msg {
		list, err := a.services.Transactions.List(a.ctx, a.opts.UserID, finance.Filter{})
		if err != nil {
			return errMsg{err}
		}
		return transactionsMsg(list)
	}
}

func (a *App) loadAdvice(kind advisor.Kind) tea.Cmd {
	return func() tea.Msg {
		var (
			res advisor.Result
			err error
		)
		switch kind {
		case advisor.KindAnalysis:
			var r service.Analysis
			r, err = a.services.Advisory.GetAnalysis(a.ctx, a.opts.UserID)
			res = advisor.Result{Text: r.Text, Source: r.Source}
		case advisor.KindPrediction:
			var r service.Prediction
			r, err = a.services.Advisory.GetPrediction(a.ctx, a.opts.UserID)
			res = advisor.Result{Text: r.Text, Source: r.Source}
		default:
			var r service.Tips
			r, err = a.services.Advisory.GetTips(a.ctx, a.opts.UserID)
			res = advisor.Result{Text: r.Text, Source: r.Source}
		}
		return adviceMsg{kind: kind, res: res, err: err}
	}
}

// reload refreshes data after a write and regenerates advice.
func (a *App) reload() tea.Cmd {
	return a.Init()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		if a.modal != modalNone {
			return a.handleModalKey(m)
		}
		if a.state == viewImport {
			return a.handleImportKey(m)
		}
		switch m.String() {
		case "q", "ctrl+c":
			return a, tea.Quit
		case "d":
			a.state = viewDashboard
		case "t":
			a.state = viewTransactions
		case "a":
			a.state = viewAdvice
		case "i":
			a.state = viewImport
			a.status = ""
		case "1", "2", "3":
			a.state = viewAdvice
			a.adviceTab = int(m.String()[0] - '1')
		case "tab", "right", "l":
			if a.state == viewAdvice {
				a.adviceTab = (a.adviceTab + 1) % len(adviceTabs)
			}
		case "shift+tab", "left", "h":
			if a.state == viewAdvice {
				a.adviceTab = (a.adviceTab + len(adviceTabs) - 1) % len(adviceTabs)
			}
		case "up", "k":
			if a.state == viewTransactions && a.txCursor > 0 {
				a.txCursor--
			}
		case "down", "j":
			if a.state == viewTransactions && a.txCursor < len(a.txs)-1 {
				a.txCursor++
			}
		case "x":
			if a.state == viewTransactions && len(a.txs) > 0 {
				a.modal = modalConfirmDelete
			}
		case "r":
			if a.state == viewAdvice {
				kind := adviceTabs[a.adviceTab].kind
				a.loading[kind] = true
				return a, a.loadAdvice(kind)
			}
			a.status = "recargando..."
			return a, a.reload()
		case "e":
			if a.services.SaveAPIKey != nil {
				a.modal = modalEditAPIKey
				a.inputBuffer = ""
			}
		}
	case summaryMsg:
		s := finance.Summary(m)
		a.summary = &s
	case transactionsMsg:
		a.txs = []finance.Transaction(m)
		if a.txCursor >= len(a.txs) {
			a.txCursor = 0
		}
	case adviceMsg:
		a.loading[m.kind] = false
		if m.err != nil {
			a.adviceErr[m.kind] = m.err.Error()
			delete(a.advice, m.kind)
		} else {
			delete(a.adviceErr, m.kind)
			a.advice[m.kind] = m.res
		}
	case statusMsg:
		a.status = string(m)
	case changedMsg:
		a.status = string(m)
		return a, a.reload()
	case errMsg:
		a.status = "error: " + m.Error()
	case importDoneMsg:
		a.lastImport = &m.Result
		a.status = fmt.Sprintf("importadas %d, omitidas %d", m.Result.Imported, m.Result.Skipped)
		if len(m.Result.Errors) > 0 {
			a.status += fmt.Sprintf(", errores %d", len(m.Result.Errors))
		}
		a.state = viewTransactions
		return a, a.reload()
	}
	return a, nil
}

func (a *App) handleModalKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.modal {
	case modalConfirmDelete:
		switch m.String() {
		case "y":
			a.modal = modalNone
			return a, a.deleteCmd(a.txs[a.txCursor].ID)
		case "n", "esc":
			a.modal = modalNone
		}
	case modalEditAPIKey:
		switch m.Type {
		case tea.KeyEsc:
			a.modal = modalNone
			a.inputBuffer = ""
		case tea.KeyEnter:
			key := strings.TrimSpace(a.inputBuffer)
			a.modal = modalNone
			a.inputBuffer = ""
			if key == "" {
				return a, nil
			}
			return a, a.saveAPIKeyCmd(key)
		case tea.KeyBackspace:
			if len(a.inputBuffer) > 0 {
				a.inputBuffer = a.inputBuffer[:len(a.inputBuffer)-1]
			}
		case tea.KeyRunes:
			a.inputBuffer += string(m.Runes)
		}
	}
	return a, nil
}

func (a *App) handleImportKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.String() == "ctrl+c" {
		return a, tea.Quit
	}
	switch m.Type {
	case tea.KeyEsc:
		a.state = viewDashboard
		a.status = ""
	case tea.KeyEnter:
		path := strings.TrimSpace(a.importPath)
		if path == "" {
			a.status = "escribe la ruta de un CSV"
			return a, nil
		}
		return a, a.importCmd(path)
	case tea.KeyBackspace:
		if len(a.importPath) > 0 {
			a.importPath = a.importPath[:len(a.importPath)-1]
		}
	case tea.KeyRunes, tea.KeySpace:
		a.importPath += string(m.Runes)
	}
	return a, nil
}

func (a *App) deleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		if err := a.services.Transactions.Delete(a.ctx, a.opts.UserID, id); err != nil {
			return errMsg{err}
		}
		return changedMsg("transacción eliminada")
	}
}

func (a *App) saveAPIKeyCmd(key string) tea.Cmd {
	return func() tea.Msg {
		if err := a.services.SaveAPIKey(key); err != nil {
			return errMsg{err}
		}
		return statusMsg("clave guardada (reinicia para aplicarla)")
	}
}

func (a *App) importCmd(path string) tea.Cmd {
	if a.services.Importer == nil {
		return func() tea.Msg { return errMsg{errors.New("import not configured")} }
	}
	abs := path
	if p, err := filepath.Abs(path); err == nil {
		abs = p
	}
	a.status = "importando..."
	return func() tea.Msg {
		f, err := os.Open(abs)
		if err != nil {
			return errMsg{fmt.Errorf("open %s: %w", abs, err)}
		}
		defer f.Close()
		res, err := a.services.Importer.ImportCSV(a.ctx, a.opts.UserID, f)
		if err != nil {
			return errMsg{err}
		}
		return importDoneMsg{Result: res}
	}
}

func (a *App) View() string {
	var body string
	switch a.state {
	case viewTransactions:
		body = a.renderTransactions()
	case viewAdvice:
		body = a.renderAdvice()
	case viewImport:
		body = a.renderImport()
	default:
		body = a.renderDashboard()
	}
	switch a.modal {
	case modalConfirmDelete:
		t := a.txs[a.txCursor]
		body += "\n\n" + titleStyle.Render("¿Eliminar transacción?") + fmt.Sprintf("\n%s  %s\n[y] Sí  [n] No", t.Date.Format(finance.DateLayout), t.Description)
	case modalEditAPIKey:
		body += "\n\n" + titleStyle.Render("Clave del proveedor de IA") + "\n" + strings.Repeat("*", len(a.inputBuffer)) + "\n[enter] Guardar  [esc] Cancelar"
	}
	if a.status != "" {
		body += "\n" + a.status
	}
	return body
}

func (a *App) renderDashboard() string {
	header := "Finanzas"
	if a.opts.UserName != "" {
		header += " de " + a.opts.UserName
	}
	out := titleStyle.Render(header) + "\n\n"
	if a.summary == nil {
		out += "cargando resumen...\n"
	} else {
		out += RenderSummary(a.rng, *a.summary, a.opts.Currency)
	}
	out += fmt.Sprintf("\nTransacciones registradas: %d\n", len(a.txs))
	out += "[t] Transacciones  [a] Asesoría  [i] Importar CSV  [r] Recargar"
	if a.services.SaveAPIKey != nil {
		out += "  [e] Clave IA"
	}
	return out + "  [q] Salir"
}

func (a *App) renderTransactions() string {
	out := titleStyle.Render("Transacciones") + "\n"
	if len(a.txs) == 0 {
		out += "(sin transacciones)\n"
	}
	for i, t := range a.txs {
		marker := " "
		if i == a.txCursor {
			marker = "▶"
		}
		amount := incomeStyle.Render(fmt.Sprintf("%12s", a.opts.Currency+finance.FormatAmount(t.Amount)))
		if t.Type == finance.Expense {
			amount = expenseStyle.Render(fmt.Sprintf("%12s", "-"+a.opts.Currency+finance.FormatAmount(t.Amount)))
		}
		out += fmt.Sprintf("%s %s  %-32s %s  %s\n", marker, t.Date.Format(finance.DateLayout), t.Description, amount, t.Category)
	}
	return out + "[d] Resumen  [a] Asesoría  [x] Eliminar  [i] Importar CSV  [q] Salir"
}

func (a *App) renderAdvice() string {
	labels := make([]string, len(adviceTabs))
	for i, t := range adviceTabs {
		labels[i] = fmt.Sprintf("%d %s", i+1, t.label)
	}
	tab := adviceTabs[a.adviceTab]
	out := renderTabs(labels, a.adviceTab) + "\n\n"
	switch {
	case a.loading[tab.kind]:
		out += "generando...\n"
	case a.adviceErr[tab.kind] != "":
		out += a.adviceErr[tab.kind] + "\n"
	default:
		if res, ok := a.advice[tab.kind]; ok {
			out += RenderAdvice(tab.label, res)
		}
	}
	return out + "\n[tab] Siguiente  [r] Regenerar  [d] Resumen  [t] Transacciones  [q] Salir"
}

func (a *App) renderImport() string {
	out := titleStyle.Render("Importar CSV") + "\n"
	out += fmt.Sprintf("Ruta: %s\nColumnas: fecha, monto, descripción, categoría[, tipo]\n[enter] Importar  [esc] Volver", a.importPath)
	if a.lastImport != nil {
		out += fmt.Sprintf("\nÚltima importación: %d importadas, %d omitidas, %d errores", a.lastImport.Imported, a.lastImport.Skipped, len(a.lastImport.Errors))
		if len(a.lastImport.Errors) > 0 {
			out += "\nPrimer error: " + a.lastImport.Errors[0].Error()
		}
	}
	return out
}
