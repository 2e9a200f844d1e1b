package handlers

import (
	"evacuation-planner-service/internal/api/dto"
	"evacuation-planner-service/internal/domain"
	"evacuation-planner-service/internal/platform/log"
	"net/http"
)

type VehicleHandler struct {
	Registry Registrar
	Log      log.Logger
}

func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.CreateVehicleRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.LocationCoordinates == nil {
		writeError(w, r, http.StatusBadRequest, "locationCoordinates is required")
		return
	}

	vehicle := &domain.Vehicle{
		VehicleID: req.VehicleID,
		Type:      req.Type,
		Capacity:  req.Capacity,
		SpeedKmh:  req.Speed,
		Location: domain.Location{
			Latitude:  req.LocationCoordinates.Latitude,
			Longitude: req.LocationCoordinates.Longitude,
		},
	}

	if err := h.Registry.AddVehicle(r.Context(), vehicle); err != nil {
		writeServiceError(w, r, h.Log, "add vehicle", err)
		return
	}

	res := dto.VehicleResponse{
		VehicleID: vehicle.VehicleID,
		Type:      vehicle.Type,
		Capacity:  vehicle.Capacity,
		Speed:     vehicle.SpeedKmh,
		LocationCoordinates: dto.Location{
			Latitude:  vehicle.Location.Latitude,
			Longitude: vehicle.Location.Longitude,
		},
	}
	writeJSON(w, r, http.StatusCreated, res)
}
