package handlers

import (
	"context"
	"evacuation-planner-service/internal/api/dto"
	"evacuation-planner-service/internal/domain"
	"evacuation-planner-service/internal/platform/log"
	"net/http"
)

// Registrar stores operator supplied zones and vehicles.
type Registrar interface {
	AddZone(ctx context.Context, zone *domain.Zone) error
	AddVehicle(ctx context.Context, vehicle *domain.Vehicle) error
}

type ZoneHandler struct {
	Registry Registrar
	Log      log.Logger
}

func (h *ZoneHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.CreateZoneRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.LocationCoordinates == nil {
		writeError(w, r, http.StatusBadRequest, "locationCoordinates is required")
		return
	}

	zone := &domain.Zone{
		ZoneID: req.ZoneID,
		Location: domain.Location{
			Latitude:  req.LocationCoordinates.Latitude,
			Longitude: req.LocationCoordinates.Longitude,
		},
		Population: req.NumberOfPeople,
		Urgency:    req.UrgencyLevel,
	}

	if err := h.Registry.AddZone(r.Context(), zone); err != nil {
		writeServiceError(w, r, h.Log, "add zone", err)
		return
	}

	res := dto.ZoneResponse{
		ZoneID: zone.ZoneID,
		LocationCoordinates: dto.Location{
			Latitude:  zone.Location.Latitude,
			Longitude: zone.Location.Longitude,
		},
		NumberOfPeople: zone.Population,
		UrgencyLevel:   zone.Urgency,
	}
	writeJSON(w, r, http.StatusCreated, res)
}
