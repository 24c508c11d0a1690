package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	channerics "github.com/niceyeti/channerics/channels"
	"golang.org/x/sync/errgroup"

	"trafficsim/snapshot"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 1 * time.Second

	// The rate at which snapshot updates are sent to a client, so a burst of
	// ticks doesn't overburden a slow connection.
	pubResolution  = time.Millisecond * 100
	pingResolution = time.Millisecond * 200
	// Encompasses the number of pings to tolerate losing before concluding
	// the peer is gone.
	pongWait = pingResolution * 4
)

var upgrader = websocket.Upgrader{}

var errPongDeadlineExceeded error = errors.New("client disconnect, pong deadline exceeded")

// streamSnapshots publishes the tick updates arriving on updates to ws,
// dropping any that arrive within pubResolution of the last one sent (a
// dropped update is not resent later), until ctx is cancelled, the peer
// disconnects, or liveness fails. Only one goroutine ever writes to ws
// (publishSnapshots, which owns both the ping and the publish sends), so
// unlike a client that must serve independent readers and writers, no
// write-serialization wrapper around ws is needed.
func streamSnapshots(ctx context.Context, updates <-chan snapshot.TickUpdate, ws *websocket.Conn) error {
	group, groupCtx := errgroup.WithContext(ctx)

	pong := make(chan struct{})
	ws.SetPongHandler(func(_ string) error {
		select {
		case pong <- struct{}{}:
		case <-groupCtx.Done():
		}
		return nil
	})

	group.Go(func() error {
		return readLiveness(groupCtx, ws)
	})
	group.Go(func() error {
		return publishSnapshots(groupCtx, ws, updates, pong)
	})

	return group.Wait()
}

// readLiveness pumps ReadMessage so gorilla/websocket's pong handler fires
// on incoming pong frames; the client sends nothing else. Returns nil on a
// normal close, the read error otherwise.
func readLiveness(ctx context.Context, ws *websocket.Conn) error {
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			if isError(err) {
				return fmt.Errorf("read failed: %w", err)
			}
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

// publishSnapshots is the stream's single writer: it pings the peer on
// pingResolution, tracks pong liveness against pongWait, and forwards the
// latest tick update no more often than pubResolution, dropping any update
// that arrives faster than that.
func publishSnapshots(ctx context.Context, ws *websocket.Conn, updates <-chan snapshot.TickUpdate, pong <-chan struct{}) error {
	pinger := channerics.NewTicker(ctx.Done(), pingResolution)
	lastPong := time.Now()
	lastPublish := time.Time{}

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-pinger:
			if time.Since(lastPong) > pongWait {
				return errPongDeadlineExceeded
			}
			if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				if isError(err) {
					return fmt.Errorf("ping failed: %w", err)
				}
				return nil
			}

		case <-pong:
			lastPong = time.Now()

		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if time.Since(lastPublish) < pubResolution {
				continue
			}
			lastPublish = time.Now()

			if err := ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return fmt.Errorf("failed to set deadline: %w", err)
			}
			if err := ws.WriteJSON(update); err != nil {
				if isError(err) {
					return fmt.Errorf("publish failed: %w", err)
				}
				return nil
			}
		}
	}
}

func isError(err error) bool {
	return err != nil && websocket.IsUnexpectedCloseError(
		err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway)
}
