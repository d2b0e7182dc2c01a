package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"vacuumworld/internal/agent"
	"vacuumworld/internal/client"
	"vacuumworld/internal/domain"
	"vacuumworld/internal/recording"
	"vacuumworld/internal/runner"
)

func main() {
	var (
		serverURL     = flag.String("server", "http://localhost:5000", "vacuum world server base URL")
		policyName    = flag.String("policy", "reflex", "decision policy: "+strings.Join(agent.Names(), ", "))
		width         = flag.Int("width", 8, "grid width")
		height        = flag.Int("height", 8, "grid height")
		dirtRate      = flag.Float64("dirt-rate", 0.3, "fraction of cells that start dirty")
		seedFlag      = flag.String("seed", "", "world seed, any int64 including 0 (empty picks a random seed)")
		agentSeedFlag = flag.String("agent-seed", "", "policy seed, any int64 including 0 (empty derives from current time)")
		runs          = flag.Int("runs", 1, "number of episodes to run")
		recordDir     = flag.String("record", "", "directory to write recordings to (empty disables)")
		replayPath    = flag.String("replay", "", "replay a recording file instead of running live")
		watchID       = flag.String("watch", "", "watch a live session by id instead of running")
		intervalMS    = flag.Int("interval-ms", 500, "watch frame interval in milliseconds")
		verbose       = flag.Bool("verbose", false, "log progress during runs")
	)
	flag.Parse()

	if *replayPath != "" {
		if err := replay(*replayPath, *verbose); err != nil {
			log.Fatalf("Replay failed: %v", err)
		}
		return
	}

	if *watchID != "" {
		if err := watch(*serverURL, *watchID, *intervalMS); err != nil {
			log.Fatalf("Watch failed: %v", err)
		}
		return
	}

	seed, err := parseSeed(*seedFlag)
	if err != nil {
		log.Fatalf("Invalid -seed: %v", err)
	}
	agentSeed, err := parseSeed(*agentSeedFlag)
	if err != nil {
		log.Fatalf("Invalid -agent-seed: %v", err)
	}

	if err := run(*serverURL, *policyName, *width, *height, *dirtRate,
		seed, agentSeed, *runs, *recordDir, *verbose); err != nil {
		log.Fatalf("Run failed: %v", err)
	}
}

// parseSeed interprets an optional seed flag. Empty means unset; any
// decimal int64, including 0, is a valid seed.
func parseSeed(s string) (*int64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("seed must be a decimal integer, got %q", s)
	}
	return &v, nil
}

func run(serverURL, policyName string, width, height int, dirtRate float64,
	seed, agentSeed *int64, runs int, recordDir string, verbose bool) error {
	agentBase := time.Now().UnixNano()
	if agentSeed != nil {
		agentBase = *agentSeed
	}

	c := client.NewClient(serverURL)
	ctx := context.Background()
	if err := c.WaitForServer(ctx, 30*time.Second); err != nil {
		return err
	}

	var totalPerformance, totalActions int
	for i := 0; i < runs; i++ {
		policy, err := agent.ByName(policyName, agentBase+int64(i))
		if err != nil {
			return err
		}

		opts := runner.Options{
			Policy:    policy,
			Width:     width,
			Height:    height,
			DirtRate:  dirtRate,
			RecordDir: recordDir,
			Verbose:   verbose,
		}
		if seed != nil {
			s := *seed + int64(i)
			opts.Seed = &s
		}

		stats, err := runner.Run(ctx, c, opts)
		if err != nil {
			return err
		}
		totalPerformance += stats.FinalPerformance
		totalActions += stats.TotalActions
		printStats(i+1, runs, stats)
	}

	if runs > 1 {
		fmt.Printf("\n%d runs: avg performance %.2f, avg actions %.2f\n",
			runs, float64(totalPerformance)/float64(runs),
			float64(totalActions)/float64(runs))
	}
	return nil
}

func printStats(n, runs int, s *runner.Stats) {
	if runs > 1 {
		fmt.Printf("--- Run %d/%d ---\n", n, runs)
	}
	fmt.Printf("Session:        %s\n", s.SessionID)
	fmt.Printf("Termination:    %s\n", s.TerminationReason)
	fmt.Printf("Performance:    %d / %d dirt\n", s.FinalPerformance, s.InitialDirt)
	fmt.Printf("Steps:          %d\n", s.StepsTaken)
	fmt.Printf("Actions:        %d total, %d successful (%.1f%%)\n",
		s.TotalActions, s.SuccessfulActions, 100*s.SuccessRate())
	fmt.Printf("Sucks:          %d attempted, %d successful\n",
		s.SuckAttempts, s.SuccessfulSucks)
	fmt.Printf("Efficiency:     %.3f dirt per action\n", s.CleaningEfficiency())
	fmt.Printf("Duration:       %s\n", s.Duration.Round(time.Millisecond))
	if s.RecordingPath != "" {
		fmt.Printf("Recording:      %s\n", s.RecordingPath)
	}
}

// watch streams state frames for a live session until it terminates or is
// deleted, printing one line per frame.
func watch(serverURL, sessionID string, intervalMS int) error {
	u := strings.TrimSuffix(serverURL, "/")
	u = strings.Replace(u, "http://", "ws://", 1)
	u = strings.Replace(u, "https://", "wss://", 1)
	u = fmt.Sprintf("%s/api/sessions/%s/watch?interval_ms=%d", u, sessionID, intervalMS)

	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", u, err)
	}
	defer conn.Close()

	for {
		var frame struct {
			SessionID string `json:"session_id"`
			domain.Snapshot
		}
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return nil
			}
			return fmt.Errorf("stream ended: %w", err)
		}
		fmt.Printf("position (%d,%d)  performance %d  steps %d/%d  finished %v\n",
			frame.AgentPosition.X, frame.AgentPosition.Y,
			frame.Performance, frame.StepsTaken,
			frame.StepsTaken+frame.StepsRemaining, frame.Finished)
		if frame.Finished {
			return nil
		}
	}
}

func replay(path string, verbose bool) error {
	rec, err := recording.Load(path)
	if err != nil {
		return err
	}

	fmt.Printf("Replaying %s\n", path)
	fmt.Printf("Agent:          %s\n", rec.Metadata.AgentType)
	fmt.Printf("Grid:           %dx%d, dirt rate %.2f\n",
		rec.Metadata.Size[0], rec.Metadata.Size[1], rec.Metadata.DirtRate)
	if rec.Metadata.Seed != nil {
		fmt.Printf("Seed:           %d\n", *rec.Metadata.Seed)
	}

	cur := recording.NewCursor(rec)
	for !cur.Done() {
		step := cur.Current()
		if verbose {
			fmt.Fprintf(os.Stdout, "step %4d  %-5s  position (%d,%d)  reward %d  performance %d\n",
				step.Step, step.Action,
				step.After.AgentPosition.X, step.After.AgentPosition.Y,
				step.Reward, step.After.Performance)
		}
		cur.Advance()
	}

	final := cur.State()
	fmt.Printf("Steps:          %d\n", len(rec.Steps))
	fmt.Printf("Performance:    %d (recorded final %d)\n",
		final.Performance, rec.Metadata.FinalPerformance)
	if final.Performance != rec.Metadata.FinalPerformance {
		return fmt.Errorf("replayed performance %d does not match recorded final %d",
			final.Performance, rec.Metadata.FinalPerformance)
	}
	fmt.Printf("Termination:    %s\n", final.TerminationReason)
	return nil
}
