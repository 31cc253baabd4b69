// Package client handles the TCP client and packet exchange
package client

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"

	"td-game/internal/network"
	"td-game/pkg/logger"
)

// Client sends packets typed by the user and prints the responses
type Client struct {
	conn        net.Conn
	display     *Display
	input       *InputHandler
	logger      *logger.Logger
	serverAddr  string
	sequence    atomic.Uint32
	isConnected atomic.Bool
	writeMu     sync.Mutex
	done        chan struct{}
}

// NewClient creates a new client instance
func NewClient(serverAddr string, in io.Reader, out io.Writer) *Client {
	display := NewDisplay(out)
	return &Client{
		display:    display,
		input:      NewInputHandler(in, display),
		logger:     logger.Client,
		serverAddr: serverAddr,
		done:       make(chan struct{}),
	}
}

// Start connects and runs the command loop until quit or end of input
func (c *Client) Start() error {
	c.display.PrintBanner()

	if err := c.Connect(); err != nil {
		c.display.PrintError(fmt.Sprintf("Failed to connect to server: %v", err))
		return err
	}
	defer c.Close()

	go c.messageHandler()

	c.display.PrintHelp()
	return c.runMainLoop()
}

// Connect establishes the TCP connection
func (c *Client) Connect() error {
	conn, err := net.Dial("tcp", c.serverAddr)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	c.conn = conn
	c.isConnected.Store(true)

	c.display.PrintServerStatus("Connected to server")
	c.logger.Info("Connected to server at %s", c.serverAddr)
	return nil
}

// Close disconnects from the server
func (c *Client) Close() error {
	if !c.isConnected.CompareAndSwap(true, false) {
		return nil
	}
	c.display.PrintInfo("Disconnected from server")
	return c.conn.Close()
}

// Done is closed when the response reader stops
func (c *Client) Done() <-chan struct{} {
	return c.done
}

func (c *Client) runMainLoop() error {
	for {
		cmd, ok := c.input.NextCommand()
		if !ok {
			return nil
		}

		switch cmd.Kind {
		case CmdQuit:
			return nil
		case CmdHelp:
			c.display.PrintHelp()
			continue
		}

		if !c.isConnected.Load() {
			return fmt.Errorf("connection closed")
		}
		if err := c.Send(cmd); err != nil {
			c.display.PrintError(fmt.Sprintf("Failed to send: %v", err))
			return err
		}
	}
}

// Send encodes cmd as a packet with the next sequence number and writes it
func (c *Client) Send(cmd Command) error {
	packet, err := BuildPacket(cmd, c.sequence.Add(1))
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.logger.Debug("Sending %s (%d bytes)", cmd.Kind, len(packet))
	_, err = c.conn.Write(packet)
	return err
}

// BuildPacket encodes a command into a request packet
func BuildPacket(cmd Command, seq uint32) ([]byte, error) {
	env := network.Envelope{Version: network.ProtocolVersion, Sequence: seq}

	switch cmd.Kind {
	case CmdSpawn:
		env.Type = network.SpawnMonsterRequest
		env.Payload = network.EncodeSpawnMonster(network.SpawnMonsterPayload{MonsterID: cmd.MonsterID, X: cmd.X, Y: cmd.Y})
	case CmdDeath:
		env.Type = network.MonsterDeathNotification
		env.Payload = network.EncodeMonsterDeath(network.MonsterDeathPayload{MonsterID: cmd.MonsterID})
	case CmdSync:
		env.Type = network.StateSyncNotification
	default:
		return nil, fmt.Errorf("command %q has no packet", cmd.Kind)
	}

	return network.EncodePacket(env), nil
}

// messageHandler prints responses until the connection closes
func (c *Client) messageHandler() {
	defer close(c.done)

	reader := bufio.NewReader(c.conn)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			if c.isConnected.Load() {
				c.logger.Error("Lost connection to server")
				c.display.PrintError("Lost connection to server")
				c.Close()
			}
			return
		}

		c.logger.Debug("Received raw message: %s", string(line))

		resp, data, err := network.ResponseFromJSON(line)
		if err != nil {
			c.logger.Error("Error processing server message: %v", err)
			continue
		}
		c.display.PrintResponse(resp, data)
	}
}
