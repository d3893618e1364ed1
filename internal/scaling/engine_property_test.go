package scaling

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/goksnair/resume-builder-ai-sub005/internal/models"
)

// genLatencySequence generates a tick sequence of average latencies.
func genLatencySequence() gopter.Gen {
	return gen.SliceOf(gen.Float64Range(0, 5000))
}

func TestEngineInvariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("instance count always stays within bounds", prop.ForAll(
		func(latencies []float64, minInstances, spread int) bool {
			maxInstances := minInstances + spread
			svc := testScalingService(minInstances, maxInstances, 500)
			engine := NewEngine([]models.Service{svc}, nil)

			for _, latency := range latencies {
				engine.Decide(svc, snapshotWithLatency(latency))
				state, ok := engine.State(svc.ID)
				if !ok {
					return false
				}
				if state.CurrentInstances < minInstances || state.CurrentInstances > maxInstances {
					return false
				}
			}
			return true
		},
		genLatencySequence(),
		gen.IntRange(1, 3),
		gen.IntRange(0, 5),
	))

	properties.Property("history is append-only and chains instance counts", prop.ForAll(
		func(latencies []float64) bool {
			svc := testScalingService(1, 5, 500)
			engine := NewEngine([]models.Service{svc}, nil)

			prevLen := 0
			for _, latency := range latencies {
				engine.Decide(svc, snapshotWithLatency(latency))
				state, _ := engine.State(svc.ID)
				if len(state.History) < prevLen {
					return false
				}
				prevLen = len(state.History)
			}

			state, _ := engine.State(svc.ID)
			instances := 1
			for _, event := range state.History {
				if event.FromInstances != instances {
					return false
				}
				if event.ToInstances != event.FromInstances+1 && event.ToInstances != event.FromInstances-1 {
					return false
				}
				instances = event.ToInstances
			}
			return instances == state.CurrentInstances
		},
		genLatencySequence(),
	))

	properties.Property("every event carries a non-empty reason and ID", prop.ForAll(
		func(latencies []float64) bool {
			svc := testScalingService(1, 5, 500)
			engine := NewEngine([]models.Service{svc}, nil)

			for _, latency := range latencies {
				engine.Decide(svc, snapshotWithLatency(latency))
			}

			for _, event := range engine.Events(0) {
				if event.ID == "" || event.Reason == "" || event.ServiceID != svc.ID {
					return false
				}
			}
			return true
		},
		genLatencySequence(),
	))

	properties.TestingRun(t)
}
