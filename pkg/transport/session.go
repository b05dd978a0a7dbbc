package transport

import (
	"context"
	"fmt"
	"math/rand"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/trytobebee/snake_sim/pkg/config"
	"github.com/trytobebee/snake_sim/pkg/game"
	"github.com/trytobebee/snake_sim/pkg/proto"
	"github.com/trytobebee/snake_sim/pkg/store"
)

const writeWait = 5 * time.Second

// Options configures a Server
type Options struct {
	Store     *store.Store // Optional stats sink and reward source
	RecordDir string       // Empty disables recording
	Player    string       // Used when the client does not send ?player=
	OnePerIP  bool         // Reject a second connection from the same address
	Logger    *log.Entry
}

// Server upgrades HTTP requests and runs one simulation per connection
type Server struct {
	opts      Options
	upgrader  websocket.Upgrader
	activeIPs sync.Map
	log       *log.Entry
}

// NewServer creates a websocket game server
func NewServer(opts Options) *Server {
	if opts.Player == "" {
		opts.Player = "guest"
	}
	entry := opts.Logger
	if entry == nil {
		entry = log.NewEntry(log.StandardLogger())
	}
	return &Server{
		opts: opts,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins for development
			},
		},
		log: entry,
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	format, err := proto.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	player := r.URL.Query().Get("player")
	if player == "" {
		player = s.opts.Player
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("upgrade failed")
		return
	}
	defer conn.Close()

	if s.opts.OnePerIP {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if _, loaded := s.activeIPs.LoadOrStore(ip, true); loaded {
			s.log.WithField("ip", ip).Info("connection rejected: already connected")
			conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "Already connected"))
			return
		}
		defer s.activeIPs.Delete(ip)
	}

	sess := s.newSession(conn, format, player, r.RemoteAddr)
	sess.run()
}

// session binds one websocket connection to one Runner
type session struct {
	conn    *websocket.Conn
	format  proto.Format
	player  string
	store   *store.Store
	runner  *game.Runner
	log     *log.Entry
	writeMu sync.Mutex
}

func (s *Server) newSession(conn *websocket.Conn, format proto.Format, player, remote string) *session {
	entry := s.log.WithFields(log.Fields{"remote": remote, "player": player})

	var source game.RewardSource
	opts := []game.Option{game.WithLogger(entry)}
	if s.opts.Store != nil {
		source = s.opts.Store
		opts = append(opts, game.WithStatsSink(s.opts.Store.Sink(player)))
	}
	if s.opts.RecordDir != "" {
		opts = append(opts, game.WithRecordDir(s.opts.RecordDir))
	}

	sim := game.NewSimulation(rand.New(rand.NewSource(time.Now().UnixNano())), source)
	return &session{
		conn:   conn,
		format: format,
		player: player,
		store:  s.opts.Store,
		runner: game.NewRunner(sim, opts...),
		log:    entry,
	}
}

func (sess *session) run() {
	sess.log.Info("new websocket connection")
	defer sess.log.Info("websocket connection closed")

	if err := sess.send(proto.ServerMessage{
		Type: proto.TypeConfig,
		Config: &proto.GameConfig{
			Size:       config.GridSize,
			IntervalMs: config.InitialInterval.Milliseconds(),
			Format:     string(sess.format),
		},
	}); err != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	defer wg.Wait()
	defer cancel()

	wg.Add(2)
	go func() {
		defer wg.Done()
		sess.runner.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		sess.writeLoop(ctx)
		// A failed write ends the session as well
		cancel()
		sess.conn.Close()
	}()

	sess.readLoop(ctx)
}

// readLoop turns client actions into runner commands until the connection drops
func (sess *session) readLoop(ctx context.Context) {
	for {
		_, data, err := sess.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				sess.log.WithError(err).Warn("read error")
			}
			return
		}

		var msg proto.ClientMessage
		if err := proto.Decode(sess.format, data, &msg); err != nil {
			sess.send(proto.ErrorMessage(err))
			continue
		}

		if msg.Action == "stats" {
			sess.sendStats(ctx)
			continue
		}
		cmd, ok := proto.ToCommand(msg.Action)
		if !ok {
			sess.send(proto.ErrorMessage(fmt.Errorf("unknown action %q", msg.Action)))
			continue
		}
		if !sess.runner.Send(cmd) {
			sess.log.WithField("action", msg.Action).Warn("command queue full, dropped")
		}
	}
}

func (sess *session) sendStats(ctx context.Context) {
	if sess.store == nil {
		sess.send(proto.ErrorMessage(fmt.Errorf("stats are not enabled")))
		return
	}
	st, err := sess.store.PlayerStats(ctx, sess.player)
	if err != nil {
		sess.log.WithError(err).Warn("stats lookup failed")
		sess.send(proto.ErrorMessage(err))
		return
	}
	sess.send(proto.StatsMessage(st))
}

// writeLoop forwards snapshots together with the events raised before them
func (sess *session) writeLoop(ctx context.Context) {
	var pending []game.Event
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-sess.runner.Events():
			pending = append(pending, e)
		case snap := <-sess.runner.Snapshots():
			pending = sess.drainEvents(pending)
			if err := sess.send(proto.StateMessage(snap, pending)); err != nil {
				sess.log.WithError(err).Debug("write error")
				return
			}
			pending = nil
		}
	}
}

func (sess *session) drainEvents(pending []game.Event) []game.Event {
	for {
		select {
		case e := <-sess.runner.Events():
			pending = append(pending, e)
		default:
			return pending
		}
	}
}

// send serializes writes to the connection
func (sess *session) send(msg proto.ServerMessage) error {
	data, err := proto.Encode(sess.format, msg)
	if err != nil {
		return err
	}
	kind := websocket.TextMessage
	if sess.format.Binary() {
		kind = websocket.BinaryMessage
	}

	sess.writeMu.Lock()
	defer sess.writeMu.Unlock()
	sess.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return sess.conn.WriteMessage(kind, data)
}
