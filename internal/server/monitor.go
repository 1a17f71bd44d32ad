package server

import (
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/nigels-app/nigels/internal/game"
)

// TurnMonitor watches how long the current actor of each room has been idle.
// When a turn sits unanswered past the timeout it publishes a PlayerIdleEvent
// so the room's players can be nudged. The game never acts on a player's
// behalf; an idle turn stays open until the player moves.
type TurnMonitor struct {
	clock   quartz.Clock
	timeout time.Duration
	bus     game.EventBus

	mu     sync.Mutex
	timers map[uuid.UUID]*quartz.Timer
}

// NewTurnMonitor creates a turn monitor. A zero timeout disables it.
func NewTurnMonitor(clock quartz.Clock, timeout time.Duration, bus game.EventBus) *TurnMonitor {
	return &TurnMonitor{
		clock:   clock,
		timeout: timeout,
		bus:     bus,
		timers:  make(map[uuid.UUID]*quartz.Timer),
	}
}

// Reset restarts the idle clock for a room because the turn moved to the
// given seat.
func (tm *TurnMonitor) Reset(roomID, gameID uuid.UUID, seat int) {
	if tm.timeout <= 0 {
		return
	}

	tm.mu.Lock()
	defer tm.mu.Unlock()

	if t, ok := tm.timers[roomID]; ok {
		t.Stop()
	}
	tm.timers[roomID] = tm.clock.AfterFunc(tm.timeout, func() {
		tm.bus.Publish(game.NewPlayerIdleEvent(gameID, seat, tm.timeout))
	})
}

// Stop cancels the idle clock for a room.
func (tm *TurnMonitor) Stop(roomID uuid.UUID) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if t, ok := tm.timers[roomID]; ok {
		t.Stop()
		delete(tm.timers, roomID)
	}
}
