package tui

import (
	"errors"
	"sync"

	"news_podcast/internal/render"

	tea "github.com/charmbracelet/bubbletea"
)

// PaneViewer shows scraped articles in the detail pane of the running app.
type PaneViewer struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

// NewPaneViewer returns a viewer that is attached to the program by Run.
func NewPaneViewer() *PaneViewer {
	return &PaneViewer{}
}

func (v *PaneViewer) attach(send func(tea.Msg)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.send = send
}

// ShowArticle opens view in the detail pane.
func (v *PaneViewer) ShowArticle(_ string, view render.DetailView) error {
	v.mu.Lock()
	send := v.send
	v.mu.Unlock()
	if send == nil {
		return errors.New("terminal UI is not running")
	}
	send(detailMsg{view: view})
	return nil
}
