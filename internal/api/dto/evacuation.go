package dto

// PlanEntryResponse is one vehicle assignment. ETA is rendered as "<n> minutes".
type PlanEntryResponse struct {
	ZoneID         string `json:"zoneID"`
	VehicleID      string `json:"vehicleID"`
	ETA            string `json:"eta"`
	NumberOfPeople int    `json:"numberOfPeople"`
}

type StatusResponse struct {
	ZoneID          string  `json:"zoneID"`
	TotalEvacuated  int     `json:"totalEvacuated"`
	RemainingPeople int     `json:"remainingPeople"`
	LastVehicleUsed *string `json:"lastVehicleUsed"`
	Phase           string  `json:"phase"`
}

type UpdateStatusRequest struct {
	ZoneID         string `json:"zoneID"`
	VehicleID      string `json:"vehicleID"`
	EvacuatedCount int    `json:"evacuatedCount"`
}

type UpdateStatusResponse struct {
	Message string         `json:"message"`
	Status  StatusResponse `json:"status"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
