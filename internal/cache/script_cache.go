// Package cache holds the process-local read-through cache over the durable
// store. It trades freshness for read latency: the script set is reloaded as
// a whole once its 30-second window elapses, lines are loaded lazily per
// script and then kept coherent by the writer's own mutations. In a
// multi-instance deployment a second process converges within the window.
package cache

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"scaenahub/internal/models"
)

// ScriptRefreshWindow is how long the cached script set is trusted before the
// next read triggers a full reload.
const ScriptRefreshWindow = 30 * time.Second

// ScriptCache guards the script-by-id and lines-by-script maps. All access
// goes through its methods; readers and writers of the same entry are
// serialized by the RWMutex.
type ScriptCache struct {
	mu sync.RWMutex

	scripts       map[uuid.UUID]*models.Script
	lines         map[uuid.UUID]map[int]*models.ScriptLine
	lastRefreshed time.Time

	now func() time.Time
}

// NewScriptCache creates an empty cache. now is injected for tests; pass nil
// to use time.Now.
func NewScriptCache(now func() time.Time) *ScriptCache {
	if now == nil {
		now = time.Now
	}
	return &ScriptCache{
		scripts: make(map[uuid.UUID]*models.Script),
		lines:   make(map[uuid.UUID]map[int]*models.ScriptLine),
		now:     now,
	}
}

// NeedsRefresh reports whether the script set is past its staleness window.
// The window is coarse and whole-set; there is no per-key invalidation.
func (c *ScriptCache) NeedsRefresh() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now().Sub(c.lastRefreshed) > ScriptRefreshWindow
}

// ReplaceScripts swaps in a freshly loaded script set and restarts the
// staleness window.
func (c *ScriptCache) ReplaceScripts(scripts []models.Script) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fresh := make(map[uuid.UUID]*models.Script, len(scripts))
	for i := range scripts {
		script := scripts[i]
		fresh[script.ID] = &script
	}
	c.scripts = fresh
	c.lastRefreshed = c.now()
}

// GetScript returns a copy of the cached script, if present.
func (c *ScriptCache) GetScript(id uuid.UUID) (*models.Script, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	script, ok := c.scripts[id]
	if !ok {
		return nil, false
	}
	copied := *script
	return &copied, true
}

// Scripts returns copies of all cached scripts.
func (c *ScriptCache) Scripts() []models.Script {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Script, 0, len(c.scripts))
	for _, script := range c.scripts {
		out = append(out, *script)
	}
	return out
}

// PutScript updates one cached script after a successful store write, keeping
// cache and store coherent for the writer.
func (c *ScriptCache) PutScript(script *models.Script) {
	c.mu.Lock()
	defer c.mu.Unlock()
	copied := *script
	c.scripts[script.ID] = &copied
}

// DeleteScript evicts a script and its lines.
func (c *ScriptCache) DeleteScript(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.scripts, id)
	delete(c.lines, id)
}

// HasLines reports whether the lines of a script were loaded already. Lines
// are lazy: loaded once on first access and thereafter trusted, mutations
// updating the in-memory copy directly.
func (c *ScriptCache) HasLines(scriptID uuid.UUID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.lines[scriptID]
	return ok
}

// ReplaceLines stores the full line set of one script.
func (c *ScriptCache) ReplaceLines(scriptID uuid.UUID, lines []models.ScriptLine) {
	c.mu.Lock()
	defer c.mu.Unlock()
	byNumber := make(map[int]*models.ScriptLine, len(lines))
	for i := range lines {
		line := lines[i]
		byNumber[line.LineNumber] = &line
	}
	c.lines[scriptID] = byNumber
}

// Lines returns copies of a script's cached lines ordered by line number.
// The cache keeps them unordered; ordering happens at read time.
func (c *ScriptCache) Lines(scriptID uuid.UUID) ([]models.ScriptLine, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	byNumber, ok := c.lines[scriptID]
	if !ok {
		return nil, false
	}
	out := make([]models.ScriptLine, 0, len(byNumber))
	for _, line := range byNumber {
		out = append(out, *line)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LineNumber < out[j].LineNumber })
	return out, true
}

// GetLine returns a copy of one cached line.
func (c *ScriptCache) GetLine(scriptID uuid.UUID, lineNumber int) (*models.ScriptLine, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	byNumber, ok := c.lines[scriptID]
	if !ok {
		return nil, false
	}
	line, ok := byNumber[lineNumber]
	if !ok {
		return nil, false
	}
	copied := *line
	return &copied, true
}

// PutLine updates one cached line in place after a successful store write.
// A no-op when the script's lines were never loaded; the next read will load
// the full set from the store anyway.
func (c *ScriptCache) PutLine(line *models.ScriptLine) {
	c.mu.Lock()
	defer c.mu.Unlock()
	byNumber, ok := c.lines[line.ScriptID]
	if !ok {
		return
	}
	copied := *line
	byNumber[line.LineNumber] = &copied
}

// DeleteLine removes one cached line.
func (c *ScriptCache) DeleteLine(scriptID uuid.UUID, lineNumber int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if byNumber, ok := c.lines[scriptID]; ok {
		delete(byNumber, lineNumber)
	}
}
