package main

import (
	"flag"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/trytobebee/snake_sim/pkg/config"
	"github.com/trytobebee/snake_sim/pkg/game"
	"github.com/trytobebee/snake_sim/pkg/proto"
	"github.com/trytobebee/snake_sim/pkg/renderer"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ReplayServer handles serving the recording list and replay streams
type ReplayServer struct {
	addr      string
	recordDir string
	frame     time.Duration
}

func main() {
	server := &ReplayServer{}
	flag.StringVar(&server.addr, "addr", ":8081", "listen address")
	flag.StringVar(&server.recordDir, "dir", "records", "directory with jsonl recordings")
	flag.DurationVar(&server.frame, "frame", 100*time.Millisecond, "delay between replayed steps")
	file := flag.String("file", "", "replay one recording in the terminal instead of serving")
	flag.Parse()

	if *file != "" {
		if err := playTerminal(*file, server.frame); err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		return
	}

	http.HandleFunc("/", server.handleIndex)
	http.HandleFunc("/ws/replay", server.handleReplayWS)

	log.WithField("dir", server.recordDir).Infof("📼 Snake Replay Tool starting on http://localhost%s", server.addr)
	log.Fatal(http.ListenAndServe(server.addr, nil))
}

// playTerminal renders a recording step by step
func playTerminal(path string, frame time.Duration) error {
	records, err := game.ReadRecording(path)
	if err != nil {
		return err
	}
	render := renderer.NewTerminalRenderer(config.GridSize)
	render.HideCursor()
	defer render.ShowCursor()

	for _, rec := range records {
		render.Render(rec.Snapshot)
		fmt.Printf("  Step %d/%d  session %s\n", rec.Step, len(records), rec.Session)
		time.Sleep(frame)
	}
	return nil
}

type RecordFile struct {
	Name      string
	Size      int64
	Time      time.Time
	SessionID string
}

// listRecords returns the recordings in dir, newest first
func listRecords(dir string) []RecordFile {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var records []RecordFile
	for _, f := range files {
		if filepath.Ext(f.Name()) != ".jsonl" {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		// expecting format: game_{sessionID}_{timestamp}.jsonl
		sessID := strings.TrimPrefix(strings.TrimSuffix(f.Name(), ".jsonl"), "game_")
		if i := strings.LastIndex(sessID, "_"); i >= 0 {
			sessID = sessID[:i]
		}
		records = append(records, RecordFile{
			Name:      f.Name(),
			Size:      info.Size(),
			Time:      info.ModTime(),
			SessionID: sessID,
		})
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Time.After(records[j].Time)
	})
	return records
}

var indexTmpl = template.Must(template.New("index").Parse(`
<!DOCTYPE html>
<html>
<head>
    <title>Snake Replays</title>
    <style>
        body { font-family: monospace; background: #1a202c; color: #fff; padding: 2rem; }
        h1 { color: #48bb78; }
        .file-item { background: #2d3748; padding: 1rem; border-radius: 8px; margin-bottom: 1rem; }
        .meta { color: #a0aec0; font-size: 0.9em; }
    </style>
</head>
<body>
    <h1>📼 Replay Library</h1>
    {{range .}}
    <div class="file-item">
        <div class="name">{{.Name}}</div>
        <div class="meta">Session: {{.SessionID}} | Size: {{.Size}} bytes | {{.Time.Format "2006-01-02 15:04:05"}}</div>
        <div class="meta">Stream: /ws/replay?file={{.Name}}</div>
    </div>
    {{else}}
    <p>No recordings found</p>
    {{end}}
</body>
</html>`))

func (s *ReplayServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	if err := indexTmpl.Execute(w, listRecords(s.recordDir)); err != nil {
		log.WithError(err).Warn("index render failed")
	}
}

func (s *ReplayServer) handleReplayWS(w http.ResponseWriter, r *http.Request) {
	format, err := proto.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	// Base name only, no escaping the record directory
	filename := filepath.Base(r.URL.Query().Get("file"))
	records, err := game.ReadRecording(filepath.Join(s.recordDir, filename))
	if err != nil {
		log.WithError(err).Warn("failed to open record")
		http.Error(w, "recording not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	kind := websocket.TextMessage
	if format.Binary() {
		kind = websocket.BinaryMessage
	}
	send := func(msg proto.ServerMessage) error {
		data, err := proto.Encode(format, msg)
		if err != nil {
			return err
		}
		return conn.WriteMessage(kind, data)
	}

	if err := send(proto.ServerMessage{
		Type:   proto.TypeConfig,
		Config: &proto.GameConfig{Size: config.GridSize, Format: string(format)},
	}); err != nil {
		return
	}

	// Read loop for pause/resume controls
	var paused atomic.Bool
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var msg proto.ClientMessage
			if proto.Decode(format, data, &msg) != nil {
				continue
			}
			switch msg.Action {
			case "pause":
				paused.Store(true)
			case "resume":
				paused.Store(false)
			}
		}
	}()

	for _, rec := range records {
		for paused.Load() {
			select {
			case <-closed:
				return
			case <-time.After(100 * time.Millisecond):
			}
		}
		select {
		case <-closed:
			return
		case <-time.After(s.frame):
		}

		if err := send(proto.StateMessage(rec.Snapshot, rec.Events)); err != nil {
			break
		}
	}
}
