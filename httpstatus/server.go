// Package httpstatus exposes a running desim.Simulator's status as
// read-only JSON over HTTP, built on chi. It never reaches into the run
// loop: every field it serves comes from Simulator's accessors
// (CurrentTime, Status, HeapLen, LatestSummary). CurrentTime, Status and
// LatestSummary read under the Simulator's lock; HeapLen does not.
package httpstatus

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/desim-go/desim"
)

// Snapshot reporter, satisfied by *desim.Simulator. Declared narrowly so
// this package never imports anything beyond what it actually reads.
type Snapshot interface {
	CurrentTime() float64
	Status() desim.SimulatorStatus
	HeapLen() int
	LatestSummary() (desim.RunSummary, bool)
}

// statusResponse is the JSON body served at GET /status.
type statusResponse struct {
	CurrentTime float64               `json:"current_time"`
	Status      desim.SimulatorStatus `json:"status"`
	PendingLen  int                   `json:"pending_events"`
	LastRun     *runSummaryDTO        `json:"last_run,omitempty"`
}

type runSummaryDTO struct {
	RunID             string    `json:"run_id"`
	NumEvents         int       `json:"num_events"`
	FinalSimTime      float64   `json:"final_sim_time"`
	TerminationReason string    `json:"termination_reason"`
	Error             string    `json:"error,omitempty"`
	StartWallTime     time.Time `json:"start_wall_time"`
	EndWallTime       time.Time `json:"end_wall_time"`
}

// NewRouter builds a chi.Router exposing sim's status at GET /status and
// GET /healthz. Mount it into an application's own chi router with
// Mount, or serve it directly with http.ListenAndServe.
func NewRouter(sim Snapshot) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Get("/status", func(w http.ResponseWriter, req *http.Request) {
		resp := statusResponse{
			CurrentTime: sim.CurrentTime(),
			Status:      sim.Status(),
			PendingLen:  sim.HeapLen(),
		}
		if summary, ok := sim.LatestSummary(); ok {
			dto := &runSummaryDTO{
				RunID:             summary.RunID,
				NumEvents:         summary.NumEvents,
				FinalSimTime:      summary.FinalSimTime,
				TerminationReason: string(summary.TerminationReason),
				StartWallTime:     summary.StartWallTime,
				EndWallTime:       summary.EndWallTime,
			}
			if summary.Err != nil {
				dto.Error = summary.Err.Error()
			}
			resp.LastRun = dto
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	})

	return r
}
