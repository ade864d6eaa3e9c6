package main

import (
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-l2d/common"
	"github.com/Carmen-Shannon/oxy-l2d/engine/session"
	"go.uber.org/zap"
)

// viewer maps user input onto session commands. Key callbacks and the file watcher call
// it from different goroutines.
type viewer struct {
	mu      sync.Mutex
	session session.Session
	logger  *zap.Logger

	models  []string
	motions []string
	current int
	motion  int

	onSelect func(name string)
}

func newViewer(s session.Session, models []string, logger *zap.Logger) *viewer {
	return &viewer{
		session: s,
		logger:  logger,
		models:  slices.Clone(models),
		motions: slices.Collect(s.Motions()),
		current: -1,
		motion:  -1,
	}
}

// SelectModel loads models[i]. Returns false if i is out of range.
func (v *viewer) SelectModel(i int) bool {
	v.mu.Lock()
	if i < 0 || i >= len(v.models) {
		v.mu.Unlock()
		return false
	}
	v.current = i
	v.motion = -1
	name := v.models[i]
	onSelect := v.onSelect
	v.mu.Unlock()

	v.logger.Info("selecting model", zap.Int("key", i+1), zap.String("name", name))
	v.session.LoadModel(name)
	if onSelect != nil {
		onSelect(name)
	}
	return true
}

// SelectModelByName loads the named model if it is in the model list.
func (v *viewer) SelectModelByName(name string) bool {
	v.mu.Lock()
	i := slices.Index(v.models, name)
	v.mu.Unlock()
	return v.SelectModel(i)
}

// NextMotion plays the next motion of the session's motion list, wrapping around.
// Returns "" when no model is selected or the list is empty.
func (v *viewer) NextMotion() string {
	v.mu.Lock()
	if v.current < 0 || len(v.motions) == 0 {
		v.mu.Unlock()
		return ""
	}
	v.motion = (v.motion + 1) % len(v.motions)
	name := v.motions[v.motion]
	v.mu.Unlock()

	v.session.DoMotion(name)
	return name
}

// Reload sends LOAD_MODEL for the current model again.
func (v *viewer) Reload() {
	v.mu.Lock()
	if v.current < 0 {
		v.mu.Unlock()
		return
	}
	name := v.models[v.current]
	v.mu.Unlock()

	v.logger.Info("reloading model", zap.String("name", name))
	v.session.LoadModel(name)
}

// Current returns the selected model name, or "".
func (v *viewer) Current() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.current < 0 {
		return ""
	}
	return v.models[v.current]
}

// HandleKey dispatches a key press.
func (v *viewer) HandleKey(keyCode uint32) {
	if i, ok := common.DigitIndex(keyCode); ok {
		if !v.SelectModel(i) {
			v.logger.Debug("no model bound to key", zap.Int("key", i+1))
		}
		return
	}
	switch keyCode {
	case common.KeyM:
		if name := v.NextMotion(); name != "" {
			v.logger.Info("motion", zap.String("name", name))
		}
	case common.KeyR:
		v.Reload()
	}
}
