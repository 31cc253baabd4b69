// Package client handles client-side display and user interface
package client

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"td-game/internal/game"
	"td-game/internal/network"
)

type Display struct {
	out          io.Writer
	serverColor  *color.Color
	okColor      *color.Color
	rejectColor  *color.Color
	errorColor   *color.Color
	warningColor *color.Color
	infoColor    *color.Color
	goldColor    *color.Color
	monsterColor *color.Color
	bannerColor  *color.Color
}

// NewDisplay creates a new display instance with configured colors
func NewDisplay(out io.Writer) *Display {
	return &Display{
		out:          out,
		serverColor:  color.New(color.FgCyan, color.Bold),
		okColor:      color.New(color.FgGreen),
		rejectColor:  color.New(color.FgYellow),
		errorColor:   color.New(color.FgRed, color.Bold),
		warningColor: color.New(color.FgYellow),
		infoColor:    color.New(color.FgWhite),
		goldColor:    color.New(color.FgYellow, color.Bold),
		monsterColor: color.New(color.FgMagenta),
		bannerColor:  color.New(color.FgGreen, color.Bold),
	}
}

// PrintBanner displays the client banner
func (d *Display) PrintBanner() {
	banner := `
╔═══════════════════════════════════════╗
║        TOWER DEFENSE TEST CLIENT      ║
╚═══════════════════════════════════════╝
`
	d.bannerColor.Fprintln(d.out, banner)
}

// PrintHelp lists the available commands
func (d *Display) PrintHelp() {
	d.infoColor.Fprintln(d.out, "Commands:")
	d.infoColor.Fprintln(d.out, "  spawn <monsterId> <x> <y>   request a monster spawn")
	d.infoColor.Fprintln(d.out, "  death <monsterId>           report a monster death")
	d.infoColor.Fprintln(d.out, "  sync                        request a state snapshot")
	d.infoColor.Fprintln(d.out, "  help                        show this list")
	d.infoColor.Fprintln(d.out, "  quit                        disconnect")
}

func (d *Display) PrintPrompt() {
	fmt.Fprint(d.out, "> ")
}

// PrintServerStatus displays server connection status
func (d *Display) PrintServerStatus(message string) {
	d.serverColor.Fprintf(d.out, "[%s] [SERVER] %s\n", timestamp(), message)
}

// PrintInfo displays a plain status line
func (d *Display) PrintInfo(message string) {
	d.infoColor.Fprintf(d.out, "[%s] %s\n", timestamp(), message)
}

func (d *Display) PrintWarning(message string) {
	d.warningColor.Fprintf(d.out, "[%s] [WARN] %s\n", timestamp(), message)
}

func (d *Display) PrintError(message string) {
	d.errorColor.Fprintf(d.out, "[%s] [ERROR] %s\n", timestamp(), message)
}

// PrintResponse renders one server response, colored by status
func (d *Display) PrintResponse(resp *network.Response, data json.RawMessage) {
	switch resp.Status {
	case network.StatusOK:
		if resp.Type == network.RespStateSync {
			var snap game.StateSnapshot
			if err := json.Unmarshal(data, &snap); err != nil {
				d.PrintError(fmt.Sprintf("bad snapshot: %v", err))
				return
			}
			d.PrintSnapshot(resp.Sequence, snap)
			return
		}
		d.okColor.Fprintf(d.out, "[%s] [#%d OK] %s\n", timestamp(), resp.Sequence, resp.Message)
	case network.StatusRejected:
		d.rejectColor.Fprintf(d.out, "[%s] [#%d REJECTED %s] %s\n", timestamp(), resp.Sequence, resp.Code, resp.Message)
	default:
		d.errorColor.Fprintf(d.out, "[%s] [#%d ERROR %s] %s\n", timestamp(), resp.Sequence, resp.Code, resp.Message)
	}
}

// PrintSnapshot renders a state sync payload
func (d *Display) PrintSnapshot(seq uint32, snap game.StateSnapshot) {
	d.serverColor.Fprintf(d.out, "[%s] [#%d STATE]\n", timestamp(), seq)
	d.goldColor.Fprintf(d.out, "  Gold: %d  Score: %d  Base HP: %d  Monster level: %d  Towers: %d\n",
		snap.UserGold, snap.Score, snap.BaseHP, snap.MonsterLevel, len(snap.Towers))
	if len(snap.Monsters) == 0 {
		d.infoColor.Fprintln(d.out, "  No active monsters")
		return
	}
	for i, m := range snap.Monsters {
		d.monsterColor.Fprintf(d.out, "  %d. monster %d at (%.1f, %.1f) HP:%d ATK:%d SPD:%d\n",
			i+1, m.ID, m.Position.X, m.Position.Y, m.HP, m.AttackPower, m.Speed)
	}
}

func timestamp() string {
	return time.Now().Format("15:04:05")
}
