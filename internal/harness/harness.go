package harness

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/addrhist/internal/history"
	"github.com/roach88/addrhist/internal/testutil"
)

// StartMillis is the harness clock reading before the first step
// (2024-01-01T00:00:00Z).
const StartMillis int64 = 1_704_067_200_000

// StepInterval is how far the harness clock advances after each step.
const StepInterval = time.Second

// Harness executes scenario steps against one store.
type Harness struct {
	store *history.Store
	clock *testutil.ManualClock
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
// A step that fails returns an error; mismatches with the expected
// records are reported in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	ctx := context.Background()
	clock := testutil.NewManualClock(StartMillis)

	st, err := history.Open(ctx, ":memory:", history.WithClock(clock))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{store: st, clock: clock}

	for i, step := range scenario.Steps {
		if err := h.execute(ctx, step); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		clock.Advance(StepInterval)
	}

	records, err := st.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	result := NewResult()
	result.Records = records
	for _, msg := range compareRecords(scenario.Expect, records, scenario.Unordered) {
		result.AddError(msg)
	}

	return result, nil
}

// execute runs a single step.
func (h *Harness) execute(ctx context.Context, step Step) error {
	switch {
	case step.Save != nil:
		balance, err := toBalance(step.Save.Balance)
		if err != nil {
			return fmt.Errorf("save %s: %w", step.Save.Address, err)
		}

		var opts []history.SaveOption
		if step.Save.Timestamp != nil {
			opts = append(opts, history.WithTimestamp(*step.Save.Timestamp))
		}
		if step.Save.SourceInfo != nil {
			opts = append(opts, history.WithSourceInfo(history.SourceInfo(step.Save.SourceInfo)))
		}
		return h.store.Save(ctx, step.Save.Address, balance, opts...)

	case step.Delete != "":
		return h.store.Delete(ctx, step.Delete)

	case step.Clear:
		return h.store.ClearAll(ctx)
	}

	return fmt.Errorf("empty step")
}

// toBalance converts a decoded YAML scalar to a Balance.
func toBalance(v interface{}) (history.Balance, error) {
	switch val := v.(type) {
	case int:
		return history.NumberBalance(float64(val)), nil
	case int64:
		return history.NumberBalance(float64(val)), nil
	case uint64:
		return history.NumberBalance(float64(val)), nil
	case float64:
		return history.NumberBalance(val), nil
	case string:
		return history.StringBalance(val), nil
	default:
		return history.Balance{}, fmt.Errorf("unsupported balance type %T", v)
	}
}
