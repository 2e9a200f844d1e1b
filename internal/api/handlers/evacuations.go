package handlers

import (
	"context"
	"evacuation-planner-service/internal/api/dto"
	"evacuation-planner-service/internal/domain"
	"evacuation-planner-service/internal/platform/log"
	"fmt"
	"net/http"
)

type Planner interface {
	GeneratePlan(ctx context.Context) ([]domain.PlanEntry, error)
}

type StatusService interface {
	RecordEvacuation(ctx context.Context, zoneID, vehicleID string, count int) (*domain.EvacuationStatus, error)
	AllStatuses(ctx context.Context) ([]*domain.EvacuationStatus, error)
	ClearAll(ctx context.Context) error
}

// EvacuationHandler exposes planning and progress tracking.
type EvacuationHandler struct {
	Planner Planner
	Tracker StatusService
	Log     log.Logger
}

func (h *EvacuationHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	plan, err := h.Planner.GeneratePlan(r.Context())
	if err != nil {
		writeServiceError(w, r, h.Log, "generate plan", err)
		return
	}

	res := make([]dto.PlanEntryResponse, 0, len(plan))
	for _, e := range plan {
		res = append(res, dto.PlanEntryResponse{
			ZoneID:         e.ZoneID,
			VehicleID:      e.VehicleID,
			ETA:            fmt.Sprintf("%d minutes", e.ETAMinutes),
			NumberOfPeople: e.People,
		})
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *EvacuationHandler) Status(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	statuses, err := h.Tracker.AllStatuses(r.Context())
	if err != nil {
		writeServiceError(w, r, h.Log, "get status", err)
		return
	}

	res := make([]dto.StatusResponse, 0, len(statuses))
	for _, st := range statuses {
		res = append(res, statusResponse(st))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *EvacuationHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPut) {
		return
	}

	var req dto.UpdateStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ZoneID == "" {
		writeError(w, r, http.StatusBadRequest, "zoneID is required")
		return
	}
	if req.VehicleID == "" {
		writeError(w, r, http.StatusBadRequest, "vehicleID is required")
		return
	}

	st, err := h.Tracker.RecordEvacuation(r.Context(), req.ZoneID, req.VehicleID, req.EvacuatedCount)
	if err != nil {
		writeServiceError(w, r, h.Log, "update status", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.UpdateStatusResponse{
		Message: "Evacuation status updated successfully.",
		Status:  statusResponse(st),
	})
}

func (h *EvacuationHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodDelete) {
		return
	}

	if err := h.Tracker.ClearAll(r.Context()); err != nil {
		writeServiceError(w, r, h.Log, "clear data", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.MessageResponse{Message: "All data cleared."})
}

func statusResponse(st *domain.EvacuationStatus) dto.StatusResponse {
	return dto.StatusResponse{
		ZoneID:          st.ZoneID,
		TotalEvacuated:  st.TotalEvacuated,
		RemainingPeople: st.RemainingPeople,
		LastVehicleUsed: st.LastVehicleUsed,
		Phase:           string(st.Phase()),
	}
}
