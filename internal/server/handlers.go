package server

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"td-game/internal/game"
	"td-game/internal/i18n"
	"td-game/internal/network"
)

// handleSpawnMonster processes SPAWN_MONSTER_REQUEST
func (d *Dispatcher) handleSpawnMonster(w io.Writer, seq uint32, req network.SpawnMonsterPayload) error {
	monster, err := d.engine.SpawnMonster(req.MonsterID, game.Position{X: req.X, Y: req.Y})
	switch {
	case errors.Is(err, game.ErrStageMismatch):
		d.reject(w, network.RespSpawnMonster, seq, network.CodeStageMismatch, i18n.StageMismatch)
		return nil
	case errors.Is(err, game.ErrTemplateNotFound):
		d.reject(w, network.RespSpawnMonster, seq, network.CodeMonsterDataNotFound, i18n.MonsterDataMissing)
		return nil
	case err != nil:
		return err
	}

	d.send(w, network.CreateStatusResponse(network.RespSpawnMonster, seq,
		d.printer.Text(i18n.MonsterSpawned, strconv.Itoa(monster.ID))))
	return nil
}

// handleMonsterDeath processes MONSTER_DEATH_NOTIFICATION
func (d *Dispatcher) handleMonsterDeath(w io.Writer, seq uint32, req network.MonsterDeathPayload) error {
	monster, err := d.engine.KillMonster(req.MonsterID)
	if errors.Is(err, game.ErrMonsterNotFound) {
		d.reject(w, network.RespMonsterDeath, seq, network.CodeMonsterNotFound, i18n.MonsterNotFound)
		return nil
	}
	if err != nil {
		return err
	}

	d.send(w, network.CreateStatusResponse(network.RespMonsterDeath, seq,
		d.printer.Text(i18n.DeathProcessed, strconv.Itoa(monster.ID))))
	return nil
}

// handleStateSync answers STATE_SYNC_NOTIFICATION with a snapshot.
// Faults while building it are reported here rather than by the dispatcher.
func (d *Dispatcher) handleStateSync(w io.Writer, seq uint32, _ struct{}) error {
	defer func() {
		if r := recover(); r != nil {
			d.reportError(w, seq, network.CodeStateSyncFailed, i18n.StateSyncFailed,
				fmt.Errorf("build state snapshot: %v", r))
		}
	}()

	resp := network.NewResponse(network.RespStateSync, seq, network.StatusOK)
	resp.Data = d.snapshot()
	d.send(w, resp)
	return nil
}
