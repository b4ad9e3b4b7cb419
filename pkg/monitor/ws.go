package monitor

import (
	"context"
	"net"
	"net/http"
	"sync"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	fx "github.com/robotalks/uart.go/pkg/framework"
)

// WSServer streams published events to websocket clients as JSON messages.
type WSServer struct {
	Addr string

	lock  sync.Mutex
	conns map[*websocket.Conn]struct{}
}

// NewWSServer creates a websocket event server.
func NewWSServer(addr string) *WSServer {
	return &WSServer{Addr: addr, conns: make(map[*websocket.Conn]struct{})}
}

// Name implements Named.
func (s *WSServer) Name() string { return "ws[" + s.Addr + "]" }

// Run implements Runnable.
func (s *WSServer) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	glog.Infof("websocket listening on %s", lis.Addr())
	srv := &http.Server{Handler: websocket.Handler(s.serve)}
	return fx.RunWithContextCancel(ctx, func() { lis.Close() }, func() error {
		err := srv.Serve(lis)
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	})
}

// Broadcast sends a payload to all connected clients.
func (s *WSServer) Broadcast(payload []byte) {
	s.lock.Lock()
	conns := make([]*websocket.Conn, 0, len(s.conns))
	for conn := range s.conns {
		conns = append(conns, conn)
	}
	s.lock.Unlock()
	for _, conn := range conns {
		if err := websocket.Message.Send(conn, string(payload)); err != nil {
			glog.V(2).Infof("websocket send: %v", err)
			s.drop(conn)
		}
	}
}

func (s *WSServer) serve(conn *websocket.Conn) {
	s.lock.Lock()
	s.conns[conn] = struct{}{}
	s.lock.Unlock()
	// Hold the connection; inbound data is ignored.
	var discard string
	for {
		if err := websocket.Message.Receive(conn, &discard); err != nil {
			break
		}
	}
	s.drop(conn)
}

func (s *WSServer) drop(conn *websocket.Conn) {
	s.lock.Lock()
	delete(s.conns, conn)
	s.lock.Unlock()
	conn.Close()
}
