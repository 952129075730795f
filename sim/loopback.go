// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sim

import (
	"bufio"
	"context"
	"net"
	"strings"
	"sync"
)

// Loopback is an in-process radio end point. It records the commands it
// receives and never replies.
type Loopback struct {
	mu      sync.Mutex
	sent    []string
	changed chan struct{}
}

// NewLoopback returns an empty Loopback.
func NewLoopback() *Loopback {
	return &Loopback{changed: make(chan struct{}, 1)}
}

// Dial has the signature of radio.Opts.Dial.
func (l *Loopback) Dial(ctx context.Context, network, addr string) (net.Conn, error) {
	c, s := net.Pipe()
	go l.serve(s)
	return c, nil
}

// Sent returns the commands received so far, without framing.
func (l *Loopback) Sent() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.sent...)
}

// Changed is signaled after a command is recorded.
func (l *Loopback) Changed() <-chan struct{} {
	return l.changed
}

func (l *Loopback) serve(conn net.Conn) {
	defer conn.Close()
	r := bufio.NewReader(conn)
	for {
		frame, err := r.ReadString('\r')
		if err != nil {
			return
		}
		cmd := strings.TrimSuffix(strings.TrimPrefix(frame, "\n"), "\r")
		l.mu.Lock()
		l.sent = append(l.sent, cmd)
		l.mu.Unlock()
		select {
		case l.changed <- struct{}{}:
		default:
		}
	}
}
