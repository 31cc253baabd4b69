// Package client handles user input parsing
package client

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// CommandKind is the verb typed by the user
type CommandKind string

const (
	CmdSpawn CommandKind = "spawn"
	CmdDeath CommandKind = "death"
	CmdSync  CommandKind = "sync"
	CmdHelp  CommandKind = "help"
	CmdQuit  CommandKind = "quit"
)

// Command is one parsed input line
type Command struct {
	Kind      CommandKind
	MonsterID int
	X         float64
	Y         float64
}

// InputHandler reads commands line by line
type InputHandler struct {
	scanner *bufio.Scanner
	display *Display
}

// NewInputHandler creates a new input handler
func NewInputHandler(r io.Reader, display *Display) *InputHandler {
	return &InputHandler{
		scanner: bufio.NewScanner(r),
		display: display,
	}
}

// NextCommand prompts until a valid command is read. It returns false
// when input is exhausted.
func (ih *InputHandler) NextCommand() (Command, bool) {
	for {
		ih.display.PrintPrompt()
		if !ih.scanner.Scan() {
			return Command{}, false
		}

		line := strings.TrimSpace(ih.scanner.Text())
		if line == "" {
			continue
		}

		cmd, err := ParseCommand(line)
		if err != nil {
			ih.display.PrintWarning(err.Error())
			continue
		}
		return cmd, true
	}
}

// ParseCommand parses "spawn <id> <x> <y>", "death <id>", "sync", "help" or "quit"
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("empty command")
	}

	kind := CommandKind(strings.ToLower(fields[0]))
	args := fields[1:]

	switch kind {
	case CmdSpawn:
		if len(args) != 3 {
			return Command{}, fmt.Errorf("usage: spawn <monsterId> <x> <y>")
		}
		id, err := parseMonsterID(args[0])
		if err != nil {
			return Command{}, err
		}
		x, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return Command{}, fmt.Errorf("invalid x %q", args[1])
		}
		y, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return Command{}, fmt.Errorf("invalid y %q", args[2])
		}
		return Command{Kind: kind, MonsterID: id, X: x, Y: y}, nil

	case CmdDeath:
		if len(args) != 1 {
			return Command{}, fmt.Errorf("usage: death <monsterId>")
		}
		id, err := parseMonsterID(args[0])
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: kind, MonsterID: id}, nil

	case CmdSync, CmdHelp, CmdQuit:
		if len(args) != 0 {
			return Command{}, fmt.Errorf("%s takes no arguments", kind)
		}
		return Command{Kind: kind}, nil
	}

	return Command{}, fmt.Errorf("unknown command %q (type help)", fields[0])
}

func parseMonsterID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid monster id %q", s)
	}
	return id, nil
}
