// Package tui is the terminal presentation of the orchestrator state.
package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"news_podcast/internal/models"
	"news_podcast/internal/orchestrator"
	"news_podcast/internal/render"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// App renders orchestrator snapshots and turns key presses into controller
// calls. Controller calls always run as commands, off the update loop.
type App struct {
	ctx   context.Context
	ctrl  *orchestrator.Controller
	state orchestrator.State

	cursor  int
	topic   textinput.Model
	editing bool
	spinner spinner.Model
	detail  *viewport.Model
	err     error

	width  int
	height int
}

// NewApp creates the model for ctrl.
func NewApp(ctx context.Context, ctrl *orchestrator.Controller) *App {
	ti := textinput.New()
	ti.Placeholder = "Topic to explore..."
	ti.Prompt = "? "
	ti.CharLimit = 200

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	return &App{
		ctx:     ctx,
		ctrl:    ctrl,
		state:   ctrl.Snapshot(),
		topic:   ti,
		spinner: sp,
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, a.run(a.ctrl.Mount))
}

// run executes fn as a command.
func (a *App) run(fn func(context.Context)) tea.Cmd {
	ctx := a.ctx
	return func() tea.Msg {
		fn(ctx)
		return nil
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		if a.detail != nil {
			a.detail.Width, a.detail.Height = a.detailSize()
		}
		return a, nil

	case stateMsg:
		a.state = msg.state
		if a.cursor >= len(a.state.Articles) {
			a.cursor = max(0, len(a.state.Articles)-1)
		}
		return a, nil

	case detailMsg:
		w, h := a.detailSize()
		vp := viewport.New(w, h)
		vp.SetContent(bodyStyle.Width(w).Render(render.Text(msg.view)))
		a.detail = &vp
		return a, nil

	case errMsg:
		a.err = msg.err
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		a.err = nil
		return a.handleKey(msg)
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	if a.detail != nil {
		switch msg.String() {
		case "esc", "q":
			a.detail = nil
			return a, nil
		}
		vp, cmd := a.detail.Update(msg)
		a.detail = &vp
		return a, cmd
	}

	if a.editing {
		switch msg.String() {
		case "esc":
			a.editing = false
			a.topic.Blur()
			return a, nil
		case "enter":
			a.editing = false
			a.topic.Blur()
			topic := a.topic.Value()
			return a, a.run(func(ctx context.Context) {
				a.ctrl.SetTopic(topic)
				a.ctrl.Explore(ctx)
			})
		}
		var cmd tea.Cmd
		a.topic, cmd = a.topic.Update(msg)
		return a, cmd
	}

	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "tab":
		next := orchestrator.ModeTopic
		if a.state.Mode == orchestrator.ModeTopic {
			next = orchestrator.ModeNews
		}
		return a, a.run(func(ctx context.Context) { a.ctrl.SetMode(ctx, next) })
	case " ":
		return a, a.run(func(context.Context) { a.ctrl.TogglePlayback() })
	case "x":
		return a, a.run(func(context.Context) { a.ctrl.DismissNotice() })
	}

	if a.state.Mode == orchestrator.ModeTopic {
		switch msg.String() {
		case "/", "i":
			a.editing = true
			a.topic.Focus()
			return a, textinput.Blink
		case "e":
			return a, a.run(a.ctrl.Explore)
		}
		return a, nil
	}

	switch msg.String() {
	case "j", "down":
		if a.cursor < len(a.state.Articles)-1 {
			a.cursor++
		}
	case "k", "up":
		if a.cursor > 0 {
			a.cursor--
		}
	case "c":
		category := cycle(models.Categories, a.state.Category, 1)
		return a, a.try(func(ctx context.Context) error { return a.ctrl.SetCategory(ctx, category) })
	case "C":
		category := cycle(models.Categories, a.state.Category, -1)
		return a, a.try(func(ctx context.Context) error { return a.ctrl.SetCategory(ctx, category) })
	case "p":
		size := cycle(models.PageSizes, a.state.PageSize, 1)
		return a, a.try(func(ctx context.Context) error { return a.ctrl.SetPageSize(ctx, size) })
	case "s":
		return a, a.run(a.ctrl.Summarize)
	case "enter", "o":
		if a.cursor < len(a.state.Articles) {
			url := a.state.Articles[a.cursor].URL
			return a, a.run(func(ctx context.Context) { a.ctrl.Scrape(ctx, url) })
		}
	}
	return a, nil
}

// try runs fn as a command and reports its error.
func (a *App) try(fn func(context.Context) error) tea.Cmd {
	ctx := a.ctx
	return func() tea.Msg {
		if err := fn(ctx); err != nil {
			return errMsg{err: err}
		}
		return nil
	}
}

// cycle returns the element step positions after current, wrapping around.
func cycle[T comparable](values []T, current T, step int) T {
	i := slices.Index(values, current)
	if i < 0 {
		return values[0]
	}
	n := len(values)
	return values[((i+step)%n+n)%n]
}

func (a *App) detailSize() (int, int) {
	w, h := a.width-4, a.height-4
	return max(w, 20), max(h, 5)
}

func (a *App) View() string {
	if a.width == 0 {
		return headerStyle.Render("news podcast")
	}

	if a.detail != nil {
		return lipgloss.JoinVertical(lipgloss.Left,
			paneStyle.Render(a.detail.View()),
			renderBar("esc close  j/k scroll", a.width),
		)
	}

	var sections []string
	sections = append(sections, a.renderHeader())

	if a.state.Mode == orchestrator.ModeNews {
		sections = append(sections, a.renderNews()...)
	} else {
		sections = append(sections, a.renderTopic()...)
	}

	sections = append(sections, renderPlayback(a.state))
	if line := renderNotice(a.state.Notice); line != "" {
		sections = append(sections, line)
	}
	if a.err != nil {
		sections = append(sections, errorStyle.Render(a.err.Error()))
	}
	sections = append(sections, renderBar(a.hints(), a.width))

	return strings.Join(sections, "\n")
}

func (a *App) renderHeader() string {
	news, topic := tabInactiveStyle, tabInactiveStyle
	if a.state.Mode == orchestrator.ModeNews {
		news = tabActiveStyle
	} else {
		topic = tabActiveStyle
	}
	return headerStyle.Render("news podcast") + "  " + news.Render("NEWS") + topic.Render("TOPIC")
}

func (a *App) renderNews() []string {
	query := fmt.Sprintf(" category %s · %d headlines", itemTitleStyle.Render(string(a.state.Category)), a.state.PageSize)
	if a.state.Phase == orchestrator.PhaseLoading {
		query += " " + a.spinner.View()
	}

	listWidth := max(a.width-4, 20)
	list := renderArticles(a.state, a.cursor, listWidth)

	summary := itemMetaStyle.Render("press s to summarize the headlines")
	if a.state.IsSummarizing {
		summary = a.spinner.View() + " summarizing..."
	} else if a.state.Summary.Text != "" {
		summary = bodyStyle.Width(listWidth).Render(a.state.Summary.Text)
	}

	return []string{
		query,
		paneStyle.Width(listWidth).Render(list),
		paneStyle.Width(listWidth).Render(summary),
	}
}

func (a *App) renderTopic() []string {
	width := max(a.width-4, 20)
	input := a.topic.View()
	if !a.editing && a.topic.Value() == "" {
		input = itemMetaStyle.Render("press / to enter a topic")
	}

	body := itemMetaStyle.Render("press e to explore the topic")
	if a.state.IsExploring {
		body = a.spinner.View() + " exploring..."
	} else if a.state.Exploration.Text != "" {
		body = bodyStyle.Width(width).Render(a.state.Exploration.Text)
	}

	return []string{" " + input, paneStyle.Width(width).Render(body)}
}

func renderArticles(s orchestrator.State, cursor, width int) string {
	if len(s.Articles) == 0 {
		return itemMetaStyle.Render("No articles")
	}

	var b strings.Builder
	for i, article := range s.Articles {
		title := truncateStr(article.Title, width-4)
		if i == cursor {
			b.WriteString(itemSelectedStyle.Render("> " + title))
		} else {
			b.WriteString(itemTitleStyle.Render("  " + title))
		}

		status := s.Scrapes[article.URL]
		switch {
		case status.Loading:
			b.WriteString(itemMetaStyle.Render("  scraping..."))
		case status.Err != "":
			b.WriteString("\n    " + errorStyle.Render(status.Err))
		}
		if article.Description != "" {
			b.WriteString("\n    " + itemMetaStyle.Render(truncateStr(article.Description, width-6)))
		}
		if i < len(s.Articles)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func renderPlayback(s orchestrator.State) string {
	switch {
	case s.AudioURL == "":
		return itemMetaStyle.Render(" no audio")
	case s.IsPlaying:
		return noticeStyle.Render(" ▶ playing") + itemMetaStyle.Render("  (space to pause)")
	default:
		return itemTitleStyle.Render(" ❚❚ paused") + itemMetaStyle.Render("  (space to play)")
	}
}

func renderNotice(n *orchestrator.Notice) string {
	if n == nil {
		return ""
	}
	if n.Kind == orchestrator.NoticeError {
		return errorStyle.Render(" " + n.Message)
	}
	return noticeStyle.Render(" " + n.Message)
}

func (a *App) hints() string {
	if a.editing {
		return "enter explore  esc cancel"
	}
	if a.state.Mode == orchestrator.ModeTopic {
		return "/ topic  e explore  space play  tab news  q quit"
	}
	return "c category  p size  s summarize  enter read  space play  tab topic  q quit"
}

func renderBar(hints string, width int) string {
	return statusBarStyle.Width(width).Render(hints)
}

func truncateStr(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// Run starts the terminal UI. When pane is not nil scraped articles open in
// the detail pane.
func Run(ctx context.Context, ctrl *orchestrator.Controller, pane *PaneViewer) error {
	app := NewApp(ctx, ctrl)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))

	ctrl.OnChange(func(s orchestrator.State) { p.Send(stateMsg{state: s}) })
	if pane != nil {
		pane.attach(p.Send)
	}

	_, err := p.Run()
	return err
}
