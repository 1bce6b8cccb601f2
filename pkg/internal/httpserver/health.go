package httpserver

import (
	"math"
	"net/http"

	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
)

type healthBody struct {
	Status            string  `json:"status"`
	MemoryUsedPercent float64 `json:"memoryUsedPercent"`
	CPUPercent        float64 `json:"cpuPercent"`
}

// handleHealth reports liveness plus host memory and CPU load. Sampling failures leave
// the figures at zero; the server is still up.
func (s *apiServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	body := healthBody{Status: "ok"}

	if vm, err := mem.VirtualMemoryWithContext(r.Context()); err == nil {
		body.MemoryUsedPercent = round2(vm.UsedPercent)
	}
	if pct, err := cpu.PercentWithContext(r.Context(), 0, false); err == nil && len(pct) > 0 {
		body.CPUPercent = round2(pct[0])
	}

	writeJSON(w, http.StatusOK, body)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
