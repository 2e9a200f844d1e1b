package dto

type CreateVehicleRequest struct {
	VehicleID           string    `json:"vehicleID"`
	Type                string    `json:"type"`
	Capacity            int       `json:"capacity"`
	Speed               float64   `json:"speed"`
	LocationCoordinates *Location `json:"locationCoordinates"`
}

type VehicleResponse struct {
	VehicleID           string   `json:"vehicleID"`
	Type                string   `json:"type"`
	Capacity            int      `json:"capacity"`
	Speed               float64  `json:"speed"`
	LocationCoordinates Location `json:"locationCoordinates"`
}
