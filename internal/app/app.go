package app

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/rebeliceyang/lazysheet/internal/config"
	"github.com/rebeliceyang/lazysheet/internal/dataset"
	"github.com/rebeliceyang/lazysheet/internal/export"
	"github.com/rebeliceyang/lazysheet/internal/history"
	"github.com/rebeliceyang/lazysheet/internal/logger"
	"github.com/rebeliceyang/lazysheet/internal/models"
	"github.com/rebeliceyang/lazysheet/internal/presets"
	"github.com/rebeliceyang/lazysheet/internal/session"
	"github.com/rebeliceyang/lazysheet/internal/ui/components"
	"github.com/rebeliceyang/lazysheet/internal/ui/help"
	"github.com/rebeliceyang/lazysheet/internal/ui/theme"
	"github.com/rebeliceyang/lazysheet/internal/util"
)

const (
	loadTimeout   = 30 * time.Second
	statusTimeout = 3 * time.Second
)

// writeClipboard is replaced in tests
var writeClipboard = clipboard.WriteAll

// App is the main application model
type App struct {
	state  models.AppState
	config *config.Config
	theme  theme.Theme

	cache   *dataset.Cache
	sess    *session.Session
	presets *presets.Manager
	history *history.Store

	// Panels
	leftPanel  components.Panel
	rightPanel components.Panel

	filterPanel   *components.FilterPanel
	tableView     *components.TableView
	columnPicker  *components.ColumnPicker
	presetsDialog *components.PresetsDialog
	errorOverlay  components.ErrorOverlay

	status    string
	statusErr bool
	statusSeq int
}

// DatasetLoadedMsg is sent when a load attempt finishes
type DatasetLoadedMsg struct {
	Dataset  *dataset.Dataset
	Err      error
	Duration time.Duration
}

// ExportedMsg is sent when an export finishes
type ExportedMsg struct {
	Path string
	Rows int
	Err  error
}

// StatusMsg shows a message in the bottom bar
type StatusMsg struct {
	Text string
	Err  bool
}

type clearStatusMsg struct {
	seq int
}

// New creates a new App instance
func New(cfg *config.Config) *App {
	state := models.NewAppState()
	if cfg.UI.LeftPanelWidth > 0 {
		state.LeftPanelWidth = cfg.UI.LeftPanelWidth
	}
	state.SourceName = cfg.Source().String()

	th := theme.GetTheme(cfg.UI.Theme)

	a := &App{
		state:         state,
		config:        cfg,
		theme:         th,
		cache:         dataset.NewCache(),
		filterPanel:   components.NewFilterPanel(th),
		tableView:     components.NewTableView(th),
		columnPicker:  components.NewColumnPicker(th),
		presetsDialog: components.NewPresetsDialog(th),
		errorOverlay:  components.ErrorOverlay{Theme: th},
		leftPanel:     components.Panel{Title: "Filtri", Theme: th},
		rightPanel:    components.Panel{Title: "Risultati", Theme: th},
	}

	if m, err := presets.NewManager(cfg.Presets.Dir); err != nil {
		logger.Warn("presets unavailable", "error", err)
	} else {
		a.presets = m
	}

	if cfg.History.Enabled {
		if store, err := history.NewStore(cfg.History.Path); err != nil {
			logger.Warn("history unavailable", "error", err)
		} else {
			a.history = store
		}
	}

	a.updatePanelDimensions()
	a.updatePanelStyles()
	return a
}

// Close releases the resources held by the app
func (a *App) Close() error {
	if a.history != nil {
		return a.history.Close()
	}
	return nil
}

// Session returns the active session, nil until the dataset is loaded
func (a *App) Session() *session.Session {
	return a.sess
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return a.loadDataset
}

func (a *App) loadDataset() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()

	start := time.Now()
	ds, err := dataset.Open(ctx, a.cache, a.config.Source())
	return DatasetLoadedMsg{Dataset: ds, Err: err, Duration: time.Since(start)}
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.MouseMsg:
		return a, a.handleMouse(msg)

	case DatasetLoadedMsg:
		if msg.Err != nil {
			a.errorOverlay.Err = msg.Err
			a.state.ViewMode = models.ErrorMode
			return a, nil
		}
		a.setDataset(msg.Dataset)
		return a, a.setStatus(fmt.Sprintf("Caricate %d righe in %s", msg.Dataset.Len(), msg.Duration.Round(time.Millisecond)), false)

	case components.FiltersChangedMsg:
		a.refreshTable()
		return a, nil

	case components.ToggleColumnMsg:
		if err := a.sess.ToggleColumn(msg.Column); err != nil {
			return a, a.setStatus(err.Error(), true)
		}
		a.columnPicker.SetSelected(a.sess.SelectedColumns())
		a.refreshTable()
		return a, nil

	case components.CloseColumnPickerMsg:
		a.state.ViewMode = models.NormalMode
		return a, nil

	case components.ApplyPresetMsg:
		return a, a.applyPreset(msg.Preset)

	case components.SavePresetMsg:
		return a, a.savePreset(msg)

	case components.DeletePresetMsg:
		if err := a.presets.Delete(msg.ID); err != nil {
			return a, a.setStatus(err.Error(), true)
		}
		a.presetsDialog.SetPresets(a.presets.List())
		return a, a.setStatus("Preset eliminato", false)

	case components.ClosePresetsDialogMsg:
		a.state.ViewMode = models.NormalMode
		return a, nil

	case components.YankedMsg:
		if msg.Err != nil {
			return a, a.setStatus("Copia non riuscita: "+msg.Err.Error(), true)
		}
		return a, a.setStatus("Copiato negli appunti", false)

	case ExportedMsg:
		if msg.Err != nil {
			return a, a.setStatus("Esportazione non riuscita: "+msg.Err.Error(), true)
		}
		return a, a.setStatus(fmt.Sprintf("Esportate %d righe in %s", msg.Rows, msg.Path), false)

	case StatusMsg:
		return a, a.setStatus(msg.Text, msg.Err)

	case clearStatusMsg:
		if msg.seq == a.statusSeq {
			a.status = ""
			a.statusErr = false
		}
		return a, nil

	case tea.WindowSizeMsg:
		a.state.Width = msg.Width
		a.state.Height = msg.Height
		a.updatePanelDimensions()
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.state.ViewMode {
	case models.ErrorMode:
		switch msg.String() {
		case "q":
			return a, tea.Quit
		case "r", "f5":
			return a, a.reload()
		case "esc", "enter":
			// A failed reload keeps the previous dataset usable
			if a.sess != nil {
				a.state.ViewMode = models.NormalMode
			}
		}
		return a, nil

	case models.HelpMode:
		switch msg.String() {
		case "?", "esc", "q":
			a.state.ViewMode = models.NormalMode
		}
		return a, nil

	case models.ColumnPickerMode:
		var cmd tea.Cmd
		a.columnPicker, cmd = a.columnPicker.Update(msg)
		return a, cmd

	case models.PresetsMode:
		var cmd tea.Cmd
		a.presetsDialog, cmd = a.presetsDialog.Update(msg)
		return a, cmd
	}

	if a.sess == nil {
		if key.Matches(msg, help.Global.Quit) {
			return a, tea.Quit
		}
		return a, nil
	}

	// Text entry in the filter panel takes every key
	if a.state.FocusedPanel == models.LeftPanel && a.filterPanel.Editing() {
		var cmd tea.Cmd
		a.filterPanel, cmd = a.filterPanel.Update(msg)
		return a, cmd
	}

	keys := help.Global
	switch {
	case key.Matches(msg, keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, keys.Help):
		a.state.ViewMode = models.HelpMode
		return a, nil
	case key.Matches(msg, keys.Tab):
		if a.state.FocusedPanel == models.LeftPanel {
			a.state.FocusedPanel = models.RightPanel
		} else {
			a.state.FocusedPanel = models.LeftPanel
		}
		a.updatePanelStyles()
		return a, nil
	case key.Matches(msg, keys.Columns):
		a.columnPicker.SetColumns(a.sess.Dataset().Columns(), a.sess.SelectedColumns())
		a.state.ViewMode = models.ColumnPickerMode
		return a, nil
	case key.Matches(msg, keys.Presets):
		if a.presets == nil {
			return a, a.setStatus("Preset non disponibili", true)
		}
		a.presetsDialog.SetPresets(a.presets.List())
		a.state.ViewMode = models.PresetsMode
		return a, nil
	case key.Matches(msg, keys.Save):
		if a.presets == nil {
			return a, a.setStatus("Preset non disponibili", true)
		}
		a.presetsDialog.SetPresets(a.presets.List())
		a.presetsDialog.StartSave()
		a.state.ViewMode = models.PresetsMode
		return a, nil
	case key.Matches(msg, keys.Export):
		return a, a.exportResults()
	case key.Matches(msg, keys.Reset):
		a.sess.Reset()
		a.filterPanel.SetSession(a.sess)
		a.refreshTable()
		return a, a.setStatus("Filtri azzerati", false)
	case key.Matches(msg, keys.Reload):
		return a, a.reload()
	case key.Matches(msg, keys.Describe):
		return a, a.copyDescription()
	}

	var cmd tea.Cmd
	if a.state.FocusedPanel == models.LeftPanel {
		a.filterPanel, cmd = a.filterPanel.Update(msg)
	} else {
		a.tableView, cmd = a.tableView.Update(msg)
	}
	return a, cmd
}

func (a *App) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if a.sess == nil || a.state.ViewMode != models.NormalMode {
		return nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		a.tableView.MoveSelection(-1)
		return nil
	case tea.MouseButtonWheelDown:
		a.tableView.MoveSelection(1)
		return nil
	}

	handled, cmd := a.filterPanel.HandleMouseClick(msg)
	if handled && a.state.FocusedPanel != models.LeftPanel {
		a.state.FocusedPanel = models.LeftPanel
		a.updatePanelStyles()
	}
	return cmd
}

// setDataset installs a freshly loaded dataset. On reload the previous
// filters and columns carry over; filters on vanished columns are dropped
// by the session.
func (a *App) setDataset(ds *dataset.Dataset) {
	sess := session.New(ds, a.config.Data.DefaultColumns)
	if a.sess != nil {
		sess.Restore(a.sess.Snapshot("", ""))
	}
	a.sess = sess
	a.state.Loaded = true
	a.state.ViewMode = models.NormalMode
	a.errorOverlay.Err = nil

	a.filterPanel.SetSession(sess)
	a.refreshTable()
}

func (a *App) refreshTable() {
	if a.sess == nil {
		return
	}
	a.tableView.SetTable(a.sess.Render())
}

func (a *App) reload() tea.Cmd {
	return tea.Batch(a.setStatus("Caricamento…", false), a.loadDataset)
}

func (a *App) applyPreset(p models.Preset) tea.Cmd {
	a.sess.Restore(p)
	a.filterPanel.SetSession(a.sess)
	a.refreshTable()
	a.state.ViewMode = models.NormalMode

	if err := a.presets.MarkUsed(p.ID); err != nil {
		logger.Warn("failed to update preset usage", "preset", p.Name, "error", err)
	}
	return a.setStatus(fmt.Sprintf("Preset %q applicato", p.Name), false)
}

func (a *App) savePreset(msg components.SavePresetMsg) tea.Cmd {
	snap := a.sess.Snapshot(msg.Name, msg.Description)

	var err error
	if msg.ID == "" {
		_, err = a.presets.Add(snap)
	} else {
		err = a.presets.Update(msg.ID, snap)
	}
	if err != nil {
		return a.setStatus(err.Error(), true)
	}

	a.state.ViewMode = models.NormalMode
	return a.setStatus(fmt.Sprintf("Preset %q salvato", snap.Name), false)
}

// exportResults writes the filtered rows with the selected columns. The
// work runs off the update loop on values captured here.
func (a *App) exportResults() tea.Cmd {
	ds := a.sess.Dataset()
	res := a.sess.Evaluate()
	columns := a.sess.SelectedColumns()
	set := a.sess.FilterSet()
	description := a.sess.Describe()
	path := a.config.ExportPath()
	format := export.Format(a.config.Export.Format)
	store := a.history
	source := a.state.SourceName

	return func() tea.Msg {
		log := logger.WithComponent("export")
		start := time.Now()
		err := export.Export(format, path, ds, res, columns)
		if err != nil {
			log.Error("export failed", "path", path, "error", err)
		} else {
			log.Info("export written", "path", path, "rows", res.Matched())
		}

		if store != nil {
			groups, filters := set.Counts()
			entry := history.Entry{
				Source:      source,
				Action:      history.ActionExport,
				Filters:     description,
				GroupCount:  groups,
				FilterCount: filters,
				MatchedRows: res.Matched(),
				TotalRows:   res.Total,
				Duration:    time.Since(start),
				Success:     err == nil,
			}
			if err != nil {
				entry.ErrorMessage = err.Error()
			}
			if herr := store.Add(entry); herr != nil {
				logger.Warn("failed to record export", "error", herr)
			}
		}

		return ExportedMsg{Path: path, Rows: res.Matched(), Err: err}
	}
}

func (a *App) copyDescription() tea.Cmd {
	text := a.sess.Describe()
	return func() tea.Msg {
		err := writeClipboard(text)
		return components.YankedMsg{Text: text, Err: err}
	}
}

// setStatus shows text in the bottom bar and schedules its removal
func (a *App) setStatus(text string, isErr bool) tea.Cmd {
	a.statusSeq++
	a.status = text
	a.statusErr = isErr
	seq := a.statusSeq
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

// View implements tea.Model
func (a *App) View() string {
	switch a.state.ViewMode {
	case models.ErrorMode:
		a.errorOverlay.Width = a.state.Width
		a.errorOverlay.Height = a.state.Height
		return a.errorOverlay.View()

	case models.HelpMode:
		return help.Render(a.state.Width, a.state.Height, a.theme)

	case models.ColumnPickerMode:
		a.columnPicker.Width = min(70, a.state.Width-4)
		a.columnPicker.Height = a.state.Height - 4
		return a.centered(a.columnPicker.View())

	case models.PresetsMode:
		a.presetsDialog.Width = min(80, a.state.Width-4)
		a.presetsDialog.Height = min(24, a.state.Height-4)
		return a.centered(a.presetsDialog.View())
	}

	if a.sess == nil {
		msg := lipgloss.NewStyle().Foreground(a.theme.Muted).Render("Caricamento di " + a.state.SourceName + "…")
		return a.centered(msg)
	}

	return zone.Scan(a.renderNormalView())
}

func (a *App) centered(content string) string {
	return lipgloss.Place(
		a.state.Width, a.state.Height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
}

// renderNormalView renders the normal application view
func (a *App) renderNormalView() string {
	topBarContent := a.formatStatusBar("lazysheet · "+a.state.SourceName, "? aiuto")
	topBar := lipgloss.NewStyle().
		Width(a.state.Width).
		Background(a.theme.BorderFocused).
		Foreground(a.theme.Background).
		Padding(0, 2).
		Render(topBarContent)

	bottomStyle := lipgloss.NewStyle().
		Width(a.state.Width).
		Background(a.theme.Selection).
		Foreground(a.theme.Foreground).
		Padding(0, 2)
	bottomLeft := a.resultSummary()
	if a.status != "" {
		bottomLeft += "  " + a.status
		if a.statusErr {
			bottomStyle = bottomStyle.Foreground(a.theme.Error)
		}
	}
	bottomBar := bottomStyle.Render(a.formatStatusBar(bottomLeft, "tab pannello · ctrl+e esporta · q esci"))

	// Panels reserve a border on each side plus the title line
	a.filterPanel.Width = a.leftPanel.Width - 2
	a.filterPanel.Height = a.leftPanel.Height - 3
	a.leftPanel.Content = a.filterPanel.View()

	a.tableView.Width = a.rightPanel.Width - 2
	a.tableView.Height = a.rightPanel.Height - 3
	a.rightPanel.Content = a.tableView.View()

	panels := lipgloss.JoinHorizontal(
		lipgloss.Top,
		a.leftPanel.View(),
		a.rightPanel.View(),
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		topBar,
		panels,
		bottomBar,
	)
}

func (a *App) resultSummary() string {
	t := a.tableView.Table()
	if t == nil {
		return ""
	}
	return fmt.Sprintf("%d/%d righe · %s", t.Matched, t.Total, t.Summary)
}

// updatePanelDimensions calculates panel sizes based on window size
func (a *App) updatePanelDimensions() {
	if a.state.Width <= 0 || a.state.Height <= 0 {
		return
	}

	// Top and bottom bar take one line each
	contentHeight := a.state.Height - 2
	if contentHeight < 5 {
		contentHeight = 5
	}

	leftWidth := (a.state.Width * a.state.LeftPanelWidth) / 100
	if leftWidth < 30 {
		leftWidth = 30
	}
	rightWidth := a.state.Width - leftWidth
	if rightWidth < 30 {
		rightWidth = 30
		leftWidth = a.state.Width - rightWidth
	}

	a.leftPanel.Width = leftWidth
	a.leftPanel.Height = contentHeight
	a.rightPanel.Width = rightWidth
	a.rightPanel.Height = contentHeight
}

// updatePanelStyles updates panel styling based on focus
func (a *App) updatePanelStyles() {
	left := a.state.FocusedPanel == models.LeftPanel
	a.leftPanel.Focused = left
	a.filterPanel.Focused = left
	a.rightPanel.Focused = !left
	a.tableView.Focused = !left
}

// formatStatusBar formats a status bar with left and right aligned content
func (a *App) formatStatusBar(left, right string) string {
	// Padding takes 2 chars on each side
	available := a.state.Width - 4
	if available < 0 {
		available = 0
	}

	rightWidth := util.DisplayWidth(right)
	if util.DisplayWidth(left)+rightWidth+1 > available {
		if available <= rightWidth+1 {
			return util.Truncate(left, available)
		}
		left = util.Truncate(left, available-rightWidth-1)
	}
	return util.Pad(left, available-rightWidth) + right
}
