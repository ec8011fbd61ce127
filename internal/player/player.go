// Package player plays podcast audio through an external command line player
// such as mpv.
package player

import (
	"errors"
	"fmt"
	"os/exec"
	"sync"

	"news_podcast/internal/logger"
)

// ErrNoSource is returned by Play before any audio was loaded.
var ErrNoSource = errors.New("no audio loaded")

type process interface {
	Suspend() error
	Resume() error
	Kill() error
	Wait() error
}

// Command plays one audio URL at a time by running argv followed by the URL.
type Command struct {
	mu     sync.Mutex
	argv   []string
	source string
	proc   process
	paused bool
	spawn  func(argv []string) (process, error)
	log    *logger.Entry
}

// NewCommand creates a player running argv, e.g. ["mpv", "--no-video"].
func NewCommand(argv []string) *Command {
	return &Command{
		argv:  argv,
		spawn: spawnExec,
		log:   logger.Component("player"),
	}
}

// Load binds the player to url, stopping whatever was playing.
func (c *Command) Load(url string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
	c.source = url
	return nil
}

// Play starts the loaded audio, or resumes it when paused.
func (c *Command) Play() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.source == "" {
		return ErrNoSource
	}
	if c.proc != nil {
		if !c.paused {
			return nil
		}
		if err := c.proc.Resume(); err != nil {
			return fmt.Errorf("resume player: %w", err)
		}
		c.paused = false
		return nil
	}

	if len(c.argv) == 0 {
		return errors.New("player command is not configured")
	}
	argv := append(append([]string{}, c.argv...), c.source)
	proc, err := c.spawn(argv)
	if err != nil {
		return fmt.Errorf("start player: %w", err)
	}
	c.proc, c.paused = proc, false
	go c.reap(proc)
	return nil
}

// Pause suspends playback.
func (c *Command) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.proc == nil || c.paused {
		return nil
	}
	if err := c.proc.Suspend(); err != nil {
		return fmt.Errorf("pause player: %w", err)
	}
	c.paused = true
	return nil
}

// Stop ends playback and forgets the process.
func (c *Command) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
	return nil
}

func (c *Command) stopLocked() {
	if c.proc == nil {
		return
	}
	if err := c.proc.Kill(); err != nil {
		c.log.WithError(err).Debug("Kill player")
	}
	c.proc, c.paused = nil, false
}

// reap clears proc once the player exits on its own.
func (c *Command) reap(proc process) {
	err := proc.Wait()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.proc == proc {
		c.proc, c.paused = nil, false
		if err != nil {
			c.log.WithError(err).Debug("Player exited")
		}
	}
}

type execProcess struct {
	cmd *exec.Cmd
}

func spawnExec(argv []string) (process, error) {
	cmd := exec.Command(argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &execProcess{cmd: cmd}, nil
}

func (p *execProcess) Suspend() error { return suspend(p.cmd.Process) }
func (p *execProcess) Resume() error  { return resume(p.cmd.Process) }
func (p *execProcess) Kill() error    { return p.cmd.Process.Kill() }
func (p *execProcess) Wait() error    { return p.cmd.Wait() }
