package out

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"focusfarm/internal/modules/interruption/domain"
	"focusfarm/internal/platform/clock"
)

type replayLine struct {
	Sensor   string     `json:"sensor"`
	Values   [3]float64 `json:"values"`
	OffsetMS int64      `json:"offset_ms"`
}

// ReplaySensorFeed plays back recorded samples from a JSON lines file. Each
// line carries the sensor name, three axis values and the offset from the
// start of the recording in milliseconds.
type ReplaySensorFeed struct {
	path  string
	clock clock.Clock
}

func NewReplaySensorFeed(path string, clk clock.Clock) *ReplaySensorFeed {
	return &ReplaySensorFeed{path: path, clock: clk}
}

func (f *ReplaySensorFeed) Stream(ctx context.Context, emit func(domain.SensorSample)) error {
	file, err := os.Open(f.path)
	if err != nil {
		return fmt.Errorf("open sensor replay: %w", err)
	}
	defer file.Close()
	return replay(ctx, file, f.clock.Now(), emit)
}

func replay(ctx context.Context, r io.Reader, start time.Time, emit func(domain.SensorSample)) error {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var line replayLine
		if err := json.Unmarshal(raw, &line); err != nil {
			return fmt.Errorf("sensor replay line %d: %w", lineNo, err)
		}
		at := start.Add(time.Duration(line.OffsetMS) * time.Millisecond)
		if wait := time.Until(at); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		emit(domain.SensorSample{Sensor: domain.Sensor(line.Sensor), Values: line.Values, At: at})
	}
	return scanner.Err()
}
