package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	"td-game/internal/game"
	"td-game/internal/i18n"
	"td-game/internal/network"
	"td-game/pkg/logger"
)

// handlerFunc processes one decoded envelope and writes its response.
// A returned error is reported as a handler fault.
type handlerFunc func(d *Dispatcher, w io.Writer, env network.Envelope) error

// payloadError marks a failure to decode a type-specific payload
type payloadError struct {
	err error
}

func (e *payloadError) Error() string { return e.err.Error() }
func (e *payloadError) Unwrap() error { return e.err }

// route binds a payload decoder to a typed handler
func route[P any](decode func([]byte) (P, error), handle func(*Dispatcher, io.Writer, uint32, P) error) handlerFunc {
	return func(d *Dispatcher, w io.Writer, env network.Envelope) error {
		payload, err := decode(env.Payload)
		if err != nil {
			return &payloadError{err: err}
		}
		return handle(d, w, env.Sequence, payload)
	}
}

func noPayload([]byte) (struct{}, error) { return struct{}{}, nil }

// Dispatcher decodes packets and routes them to handlers. It owns the
// engine; packets from all connections are applied one at a time under
// one lock. Responses are written to the peer after the lock is released.
type Dispatcher struct {
	engine   *game.Engine
	printer  *i18n.Printer
	handlers map[network.PacketType]handlerFunc
	snapshot func() game.StateSnapshot
	logger   *logger.Logger
	mu       sync.Mutex
}

// NewDispatcher creates a dispatcher for engine, answering in printer's locale
func NewDispatcher(engine *game.Engine, printer *i18n.Printer) *Dispatcher {
	return &Dispatcher{
		engine:  engine,
		printer: printer,
		handlers: map[network.PacketType]handlerFunc{
			network.SpawnMonsterRequest:      route(network.DecodeSpawnMonster, (*Dispatcher).handleSpawnMonster),
			network.MonsterDeathNotification: route(network.DecodeMonsterDeath, (*Dispatcher).handleMonsterDeath),
			network.StateSyncNotification:    route(noPayload, (*Dispatcher).handleStateSync),
		},
		snapshot: engine.Snapshot,
		logger:   logger.Server,
	}
}

// Dispatch handles one raw packet and writes at most one response to w.
// Unknown packet types are logged and produce no response.
func (d *Dispatcher) Dispatch(w io.Writer, raw []byte) {
	var out bytes.Buffer
	d.process(&out, raw)
	if out.Len() == 0 {
		return
	}

	// a peer that stopped reading blocks here, not inside process
	if _, err := w.Write(out.Bytes()); err != nil {
		d.logger.Error("Failed to write response: %v", err)
	}
}

// process applies raw to the engine and renders the response into out
func (d *Dispatcher) process(out *bytes.Buffer, raw []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()

	env, err := network.DecodeEnvelope(raw)
	if err != nil {
		d.reportDecodeFailure(out, env.Sequence, err)
		return
	}

	handler, ok := d.handlers[env.Type]
	if !ok {
		d.logger.Warn("Unknown packet type %s (seq %d), ignoring", env.Type, env.Sequence)
		return
	}

	d.logger.Debug("Dispatching %s (version %d, seq %d)", env.Type, env.Version, env.Sequence)
	d.invoke(out, env, handler)
}

// invoke runs handler, converting errors and panics into error responses
func (d *Dispatcher) invoke(w io.Writer, env network.Envelope, handler handlerFunc) {
	defer func() {
		if r := recover(); r != nil {
			d.reportError(w, env.Sequence, network.CodeHandlerFault, i18n.HandlerFault,
				fmt.Errorf("%s handler panicked: %v", env.Type, r))
		}
	}()

	err := handler(d, w, env)
	if err == nil {
		return
	}

	var perr *payloadError
	if errors.As(err, &perr) {
		d.reportDecodeFailure(w, env.Sequence, perr.err)
		return
	}
	d.reportError(w, env.Sequence, network.CodeHandlerFault, i18n.HandlerFault,
		fmt.Errorf("%s handler: %w", env.Type, err))
}
