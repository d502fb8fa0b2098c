package main

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/elicit/internal/engine"
)

var (
	replayFile  string
	replayOut   string
	replayLimit int
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Re-evaluate recorded sessions from a JSONL transcript file",
	Long: `Reads one JSON object per line, {"id": "...", "request": {...}}, evaluates
each request as a turn, and writes one JSON result per line in input order.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		f, err := os.Open(replayFile)
		if err != nil {
			return eris.Wrapf(err, "open transcripts %s", replayFile)
		}
		defer f.Close() //nolint:errcheck

		items, err := readTranscripts(f)
		if err != nil {
			return err
		}

		env, err := initEngine(ctx, "replay")
		if err != nil {
			return err
		}
		defer env.Close()

		results, err := processReplay(ctx, items, replayLimit, cfg.Replay.Concurrency, env.Engine.Turn)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if replayOut != "" {
			of, err := os.Create(replayOut)
			if err != nil {
				return eris.Wrapf(err, "create output %s", replayOut)
			}
			defer of.Close() //nolint:errcheck
			out = of
		}
		return writeResults(out, results)
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayFile, "file", "", "path to JSONL transcripts (required)")
	replayCmd.Flags().StringVar(&replayOut, "out", "", "write results here instead of stdout")
	replayCmd.Flags().IntVar(&replayLimit, "limit", 0, "max number of transcripts to replay (0 for all)")
	_ = replayCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(replayCmd)
}

type transcript struct {
	ID      string         `json:"id"`
	Request engine.Request `json:"request"`
}

type replayResult struct {
	ID         string  `json:"id"`
	Done       bool    `json:"done"`
	QuestionID string  `json:"question_id,omitempty"`
	Reason     string  `json:"reason,omitempty"`
	Confidence float64 `json:"confidence"`
	Progress   int     `json:"progress_percent"`
	Error      string  `json:"error,omitempty"`
}

// readTranscripts decodes one transcript per non-blank line.
func readTranscripts(r io.Reader) ([]transcript, error) {
	var items []transcript
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		var t transcript
		if err := json.Unmarshal([]byte(text), &t); err != nil {
			return nil, eris.Wrapf(err, "replay: line %d", line)
		}
		if t.ID == "" {
			t.ID = strings.TrimSpace(t.Request.Category) + "#" + strconv.Itoa(line)
		}
		items = append(items, t)
	}
	if err := sc.Err(); err != nil {
		return nil, eris.Wrap(err, "replay: read transcripts")
	}
	return items, nil
}

// turnFunc is the callback signature for evaluating one turn.
type turnFunc func(ctx context.Context, req engine.Request) (*engine.Response, error)

// processReplay applies limit, then evaluates transcripts concurrently. A
// failed turn is recorded on its result and does not stop the run.
func processReplay(ctx context.Context, items []transcript, limit, concurrency int, turn turnFunc) ([]replayResult, error) {
	if len(items) == 0 {
		zap.L().Info("no transcripts found")
		return nil, nil
	}

	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	if concurrency < 1 {
		concurrency = 1
	}

	zap.L().Info("replaying transcripts",
		zap.Int("transcripts", len(items)),
		zap.Int("concurrency", concurrency),
	)

	results := make([]replayResult, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var done, asking, failed atomic.Int64

	for i, item := range items {
		g.Go(func() error {
			log := zap.L().With(zap.String("transcript", item.ID))
			res := replayResult{ID: item.ID}

			resp, err := turn(gctx, item.Request)
			if err != nil {
				failed.Add(1)
				log.Error("replay turn failed", zap.Error(err))
				res.Error = err.Error()
				results[i] = res
				return nil
			}

			res.Done = resp.Done
			res.Confidence = resp.Score.Confidence
			res.Progress = resp.Score.ProgressPercent
			if resp.Question != nil {
				res.QuestionID = resp.Question.ID
				res.Reason = string(resp.Question.Reason)
			}
			if resp.Done {
				done.Add(1)
			} else {
				asking.Add(1)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "replay processing")
	}

	zap.L().Info("replay complete",
		zap.Int64("done", done.Load()),
		zap.Int64("asking", asking.Load()),
		zap.Int64("failed", failed.Load()),
	)
	return results, nil
}

func writeResults(w io.Writer, results []replayResult) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, r := range results {
		if err := enc.Encode(r); err != nil {
			return eris.Wrap(err, "replay: write result")
		}
	}
	return nil
}
