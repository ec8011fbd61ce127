package tui

import (
	"news_podcast/internal/orchestrator"
	"news_podcast/internal/render"
)

type stateMsg struct {
	state orchestrator.State
}

type detailMsg struct {
	view render.DetailView
}

type errMsg struct {
	err error
}
