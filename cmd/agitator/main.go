// Package main - agitator
// Load generator for the websocket endpoint.
// Simulates 50+ browser tabs hammering the same save with game actions.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Config for the agitator
type Config struct {
	ServerURL      string
	NumClients     int
	ActionInterval time.Duration
	TestDuration   time.Duration
	RunID          string
	OutDir         string
}

// counters are shared by every simulated tab.
type counters struct {
	sent        atomic.Int64
	stateFrames atomic.Int64
	eventFrames atomic.Int64
	rejections  atomic.Int64
	dialErrors  atomic.Int64
	writeErrors atomic.Int64
}

// Action types for simulation, weighted towards clicking like a real player.
var actionTypes = []string{
	"CLICK",
	"CLICK",
	"CLICK",
	"CLICK",
	"EAT",
	"BUY_UPGRADE",
	"BUY_COSMETIC",
	"EXERCISE",
	"LOTTERY",
}

var (
	foodIDs     = []string{"salad", "apple", "pizza", "burger", "donut", "cake"}
	upgradeIDs  = []string{"click-multiplier", "auto-eater", "metabolism-booster", "happiness-multiplier"}
	cosmeticIDs = []string{"curly-hair", "hoodie", "sunglasses", "hat"}
)

func main() {
	serverURL := flag.String("url", "ws://localhost:8080/ws", "WebSocket server URL")
	numClients := flag.Int("clients", 50, "Number of concurrent clients")
	interval := flag.Duration("interval", 100*time.Millisecond, "Action interval per client")
	duration := flag.Duration("duration", 60*time.Second, "Test duration")
	runID := flag.String("run", "", "Run ID (random when empty)")
	outDir := flag.String("out", ".", "Directory for the JSON report")
	flag.Parse()

	if *runID == "" {
		*runID = uuid.NewString()
	}
	cfg := Config{
		ServerURL:      *serverURL,
		NumClients:     *numClients,
		ActionInterval: *interval,
		TestDuration:   *duration,
		RunID:          *runID,
		OutDir:         *outDir,
	}
	log.Printf("[AGITATOR] run %s: %d tabs against %s every %v for %v",
		cfg.RunID, cfg.NumClients, cfg.ServerURL, cfg.ActionInterval, cfg.TestDuration)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.TestDuration)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		<-sigChan
		log.Println("[AGITATOR] Interrupt received, stopping...")
		cancel()
	}()

	start := time.Now()
	c := &counters{}
	run(ctx, cfg, c)

	r := newReport(cfg, c, time.Since(start))
	r.summary(os.Stdout)

	path, err := writeReport(cfg.OutDir, r)
	if err != nil {
		log.Fatalf("[AGITATOR] %v", err)
	}
	log.Printf("[AGITATOR] Report saved to %s", path)
}

func run(ctx context.Context, cfg Config, c *counters) {
	var wg sync.WaitGroup
	for i := 0; i < cfg.NumClients; i++ {
		wg.Add(1)
		go func(tab int) {
			defer wg.Done()
			runTab(ctx, tab, cfg, c)
		}(i)

		// Stagger tab starts to avoid a thundering herd.
		time.Sleep(10 * time.Millisecond)
	}

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				log.Printf("[AGITATOR] sent=%d state=%d events=%d rejected=%d",
					c.sent.Load(), c.stateFrames.Load(), c.eventFrames.Load(), c.rejections.Load())
			}
		}
	}()

	wg.Wait()
}

func runTab(ctx context.Context, tab int, cfg Config, c *counters) {
	name := fmt.Sprintf("TAB_%03d", tab)

	u, err := url.Parse(cfg.ServerURL)
	if err != nil {
		log.Printf("[AGITATOR] %s: bad url: %v", name, err)
		c.dialErrors.Add(1)
		return
	}
	q := u.Query()
	q.Set("tab", name)
	q.Set("run", cfg.RunID)
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		log.Printf("[AGITATOR] %s: dial failed: %v", name, err)
		c.dialErrors.Add(1)
		return
	}
	defer conn.Close()

	go func() {
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			c.countFrames(data)
		}
	}()

	// Every tab creates the character first; the server treats repeats as renames.
	if err := conn.WriteJSON(initializeAction(name)); err != nil {
		c.writeErrors.Add(1)
		return
	}

	ticker := time.NewTicker(cfg.ActionInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteJSON(randomAction()); err != nil {
				c.writeErrors.Add(1)
				return
			}
			c.sent.Add(1)
		}
	}
}

// countFrames tallies one websocket read; the hub batches frames with newlines.
func (c *counters) countFrames(data []byte) {
	for _, frame := range bytes.Split(data, []byte{'\n'}) {
		var msg struct {
			Type string `json:"type"`
		}
		if json.Unmarshal(frame, &msg) != nil {
			continue
		}
		switch msg.Type {
		case "STATE":
			c.stateFrames.Add(1)
		case "EVENT":
			c.eventFrames.Add(1)
		case "ERROR":
			c.rejections.Add(1)
		}
	}
}

func initializeAction(name string) map[string]interface{} {
	genders := []string{"male", "female"}
	return map[string]interface{}{
		"type": "INITIALIZE",
		"payload": map[string]interface{}{
			"name":     name,
			"gender":   genders[rand.Intn(len(genders))],
			"skinTone": 1 + rand.Intn(5),
		},
	}
}

func randomAction() map[string]interface{} {
	actionType := actionTypes[rand.Intn(len(actionTypes))]
	action := map[string]interface{}{"type": actionType}

	switch actionType {
	case "EAT":
		action["payload"] = map[string]string{"id": foodIDs[rand.Intn(len(foodIDs))]}
	case "BUY_UPGRADE":
		action["payload"] = map[string]string{"id": upgradeIDs[rand.Intn(len(upgradeIDs))]}
	case "BUY_COSMETIC":
		action["payload"] = map[string]string{"id": cosmeticIDs[rand.Intn(len(cosmeticIDs))]}
	}
	return action
}

// report is what a run leaves behind.
type report struct {
	RunID       string  `json:"run_id"`
	Tabs        int     `json:"tabs"`
	Interval    string  `json:"interval"`
	Elapsed     string  `json:"elapsed"`
	Sent        int64   `json:"actions_sent"`
	StateFrames int64   `json:"state_frames"`
	EventFrames int64   `json:"event_frames"`
	Rejections  int64   `json:"rejections"`
	DialErrors  int64   `json:"dial_errors"`
	WriteErrors int64   `json:"write_errors"`
	PerSecond   float64 `json:"actions_per_sec"`
}

func newReport(cfg Config, c *counters, elapsed time.Duration) report {
	r := report{
		RunID:       cfg.RunID,
		Tabs:        cfg.NumClients,
		Interval:    cfg.ActionInterval.String(),
		Elapsed:     elapsed.Round(time.Millisecond).String(),
		Sent:        c.sent.Load(),
		StateFrames: c.stateFrames.Load(),
		EventFrames: c.eventFrames.Load(),
		Rejections:  c.rejections.Load(),
		DialErrors:  c.dialErrors.Load(),
		WriteErrors: c.writeErrors.Load(),
	}
	if s := elapsed.Seconds(); s > 0 {
		r.PerSecond = float64(r.Sent) / s
	}
	return r
}

func (r report) summary(w io.Writer) {
	fmt.Fprintf(w, "run %s: %d tabs for %s\n", r.RunID, r.Tabs, r.Elapsed)
	fmt.Fprintf(w, "actions sent: %s (%s/s)\n", humanize.Comma(r.Sent), humanize.FtoaWithDigits(r.PerSecond, 1))
	fmt.Fprintf(w, "frames received: %s state, %s event\n", humanize.Comma(r.StateFrames), humanize.Comma(r.EventFrames))
	fmt.Fprintf(w, "rejected by server: %s\n", humanize.Comma(r.Rejections))
	fmt.Fprintf(w, "connection failures: %d dial, %d write\n", r.DialErrors, r.WriteErrors)
}

// writeReport stores r as JSON in dir and returns the file path.
func writeReport(dir string, r report) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("agitator_%s.json", r.RunID))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}
