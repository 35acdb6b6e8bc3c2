package tui

import (
	"context"
	"sync"
	"time"

	theme "github.com/goliatone/go-theme"
)

// Token keys the cycler reads from a manifest. Anything missing resolves to
// an empty string and the runner prints unadorned text.
const (
	TokenPromptPrefix = "prompt.prefix"
	TokenInfoPrefix   = "info.prefix"
	TokenErrorPrefix  = "error.prefix"
)

// ThemeCycler rotates through theme selections on a timer, mirroring the
// ambient background cycling of the original UI. It is pure presentation
// flair: the runner polls Current for prefixes, nothing in the wizard
// depends on it, and a nil cycler disables the feature entirely.
type ThemeCycler struct {
	mu         sync.Mutex
	selections []theme.Selection
	index      int
	interval   time.Duration
}

// NewThemeCycler builds a cycler over the given selections. Interval
// defaults to ten seconds.
func NewThemeCycler(selections []theme.Selection, interval time.Duration) *ThemeCycler {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &ThemeCycler{
		selections: selections,
		interval:   interval,
	}
}

// Start begins cycling until the context is cancelled.
func (c *ThemeCycler) Start(ctx context.Context) {
	if c == nil || len(c.selections) < 2 {
		return
	}
	go func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.advance()
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (c *ThemeCycler) advance() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = (c.index + 1) % len(c.selections)
}

// Current returns the active selection, nil when the cycler is empty.
func (c *ThemeCycler) Current() *theme.Selection {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.selections) == 0 {
		return nil
	}
	sel := c.selections[c.index]
	return &sel
}

// Token resolves a manifest token from the active selection.
func (c *ThemeCycler) Token(key string) string {
	sel := c.Current()
	if sel == nil || sel.Manifest == nil {
		return ""
	}
	return sel.Manifest.Tokens[key]
}
