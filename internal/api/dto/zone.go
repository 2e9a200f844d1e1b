package dto

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type CreateZoneRequest struct {
	ZoneID              string    `json:"zoneID"`
	LocationCoordinates *Location `json:"locationCoordinates"`
	NumberOfPeople      int       `json:"numberOfPeople"`
	UrgencyLevel        int       `json:"urgencyLevel"`
}

type ZoneResponse struct {
	ZoneID              string   `json:"zoneID"`
	LocationCoordinates Location `json:"locationCoordinates"`
	NumberOfPeople      int      `json:"numberOfPeople"`
	UrgencyLevel        int      `json:"urgencyLevel"`
}
