// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package radio implements the TCP remote control channel of the
// transceiver.
//
// Commands are ASCII strings framed as LF + command + CR. The connection is
// opened lazily by the first command and reopened after a failure; replies
// are only logged.
package radio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"time"
)

var (
	// ErrNotConnected is returned when the radio cannot be reached.
	ErrNotConnected = errors.New("radio: not connected")
	// ErrEmptyCommand is returned for an empty command string.
	ErrEmptyCommand = errors.New("radio: empty command")
	// ErrUnsupported is returned for a setting with no command configured.
	ErrUnsupported = errors.New("radio: unsupported")
)

// Commands is the command set of the remote device.
type Commands struct {
	On  string
	Off string
	// Frequency is a fmt template receiving the frequency in Hz as an
	// integer.
	Frequency string
	// Modulation and Power are indexed like the lists shown on the panel.
	// A missing entry is reported as ErrUnsupported.
	Modulation []string
	Power      []string
}

// Opts configures a Client.
type Opts struct {
	// Addr is the host:port of the radio.
	Addr         string
	DialTimeout  time.Duration
	WriteTimeout time.Duration
	// PollTimeout bounds how long Poll waits for reply bytes.
	PollTimeout time.Duration
	// OffDelay leaves the radio time to process the power off command before
	// the connection is closed.
	OffDelay time.Duration
	Commands Commands
	// Logger defaults to log.Default().
	Logger *log.Logger
	// Dial replaces the TCP dialer, e.g. to talk to an in-process fake.
	Dial func(ctx context.Context, network, addr string) (net.Conn, error)
}

// DefaultOpts matches the stock installation.
var DefaultOpts = Opts{
	Addr:         "192.168.52.34:4655",
	DialTimeout:  3 * time.Second,
	WriteTimeout: time.Second,
	PollTimeout:  time.Millisecond,
	OffDelay:     20 * time.Millisecond,
	Commands: Commands{
		On:         "M:REMOTE SENTER2,0",
		Off:        "M:REMOTE SENTER0",
		Frequency:  "M:FF SRF%d",
		Modulation: []string{"M:FF SMD9"},
	},
}

// Frame returns cmd as sent on the wire.
func Frame(cmd string) []byte {
	b := make([]byte, 0, len(cmd)+2)
	b = append(b, '\n')
	b = append(b, cmd...)
	return append(b, '\r')
}

// Client is a connection to the radio. It is not safe for concurrent use.
type Client struct {
	opts Opts
	log  *log.Logger
	dial func(ctx context.Context, network, addr string) (net.Conn, error)

	conn net.Conn
	on   bool
	buf  [256]byte
}

// New returns a Client. No connection is made until the first command.
func New(opts *Opts) *Client {
	c := &Client{opts: *opts, log: opts.Logger}
	if c.log == nil {
		c.log = log.Default()
	}
	c.dial = opts.Dial
	if c.dial == nil {
		d := &net.Dialer{Timeout: opts.DialTimeout}
		c.dial = d.DialContext
	}
	return c
}

func (c *Client) String() string {
	return fmt.Sprintf("radio.Client{%s}", c.opts.Addr)
}

// IsOn reports whether the radio was powered on through this Client.
func (c *Client) IsOn() bool {
	return c.on
}

// Connected reports whether a connection is open.
func (c *Client) Connected() bool {
	return c.conn != nil
}

// Connect opens the connection if needed and powers the radio on.
func (c *Client) Connect(ctx context.Context) error {
	if err := c.Send(ctx, c.opts.Commands.On); err != nil {
		return err
	}
	c.on = true
	return nil
}

// Disconnect powers the radio off and closes the connection.
//
// The radio is considered off afterward even if the command could not be
// delivered.
func (c *Client) Disconnect(ctx context.Context) error {
	c.on = false
	if c.conn == nil {
		return nil
	}
	if err := c.Send(ctx, c.opts.Commands.Off); err != nil {
		c.log.Printf("radio: power off: %v", err)
	} else if c.opts.OffDelay > 0 {
		time.Sleep(c.opts.OffDelay)
	}
	c.log.Printf("radio: off, disconnected from %s", c.opts.Addr)
	return c.Close()
}

// Close closes the connection without sending anything.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// Send writes a single command, connecting first if needed.
//
// A failed write closes the connection; the next command reconnects.
func (c *Client) Send(ctx context.Context, cmd string) error {
	if cmd == "" {
		return ErrEmptyCommand
	}
	if err := c.ensureConnected(ctx); err != nil {
		return err
	}
	if c.opts.WriteTimeout > 0 {
		_ = c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteTimeout))
	}
	if _, err := c.conn.Write(Frame(cmd)); err != nil {
		_ = c.Close()
		return fmt.Errorf("radio: sending %q: %w", cmd, err)
	}
	c.log.Printf("radio: sent %q", cmd)
	return nil
}

func (c *Client) ensureConnected(ctx context.Context) error {
	if c.conn != nil {
		return nil
	}
	c.log.Printf("radio: connecting to %s", c.opts.Addr)
	conn, err := c.dial(ctx, "tcp", c.opts.Addr)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotConnected, err)
	}
	c.conn = conn
	return nil
}

// SetFrequency sends the frequency in Hz.
func (c *Client) SetFrequency(ctx context.Context, hz int32) error {
	if c.opts.Commands.Frequency == "" {
		return fmt.Errorf("%w: frequency", ErrUnsupported)
	}
	return c.Send(ctx, fmt.Sprintf(c.opts.Commands.Frequency, hz))
}

// SetModulation sends the command of the i-th modulation.
func (c *Client) SetModulation(ctx context.Context, i int) error {
	return c.sendIndexed(ctx, "modulation", c.opts.Commands.Modulation, i)
}

// SetPower sends the command of the i-th power level.
func (c *Client) SetPower(ctx context.Context, i int) error {
	return c.sendIndexed(ctx, "power level", c.opts.Commands.Power, i)
}

func (c *Client) sendIndexed(ctx context.Context, what string, cmds []string, i int) error {
	if i < 0 || i >= len(cmds) || cmds[i] == "" {
		return fmt.Errorf("%w: %s %d", ErrUnsupported, what, i)
	}
	return c.Send(ctx, cmds[i])
}

// Poll reads the reply bytes already received, waiting at most
// Opts.PollTimeout, logs and returns them.
//
// A connection closed by the radio is dropped; the next command reconnects.
func (c *Client) Poll() string {
	if c.conn == nil {
		return ""
	}
	_ = c.conn.SetReadDeadline(time.Now().Add(c.opts.PollTimeout))
	var out bytes.Buffer
	for {
		n, err := c.conn.Read(c.buf[:])
		out.Write(c.buf[:n])
		if err != nil {
			if !errors.Is(err, os.ErrDeadlineExceeded) {
				c.log.Printf("radio: connection lost: %v", err)
				_ = c.Close()
			}
			break
		}
	}
	if out.Len() != 0 {
		c.log.Printf("radio: received %q", out.String())
	}
	return out.String()
}
