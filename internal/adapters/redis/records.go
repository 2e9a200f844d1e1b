package redis

import "evacuation-planner-service/internal/domain"

// Stored JSON shapes. Field names are PascalCase so hashes written by earlier
// deployments of the service stay readable.

type locationRecord struct {
	Latitude  float64 `json:"Latitude"`
	Longitude float64 `json:"Longitude"`
}

type zoneRecord struct {
	ZoneID              string         `json:"ZoneID"`
	LocationCoordinates locationRecord `json:"LocationCoordinates"`
	NumberOfPeople      int            `json:"NumberOfPeople"`
	UrgencyLevel        int            `json:"UrgencyLevel"`
}

type vehicleRecord struct {
	VehicleID           string         `json:"VehicleID"`
	Capacity            int            `json:"Capacity"`
	Type                string         `json:"Type"`
	LocationCoordinates locationRecord `json:"LocationCoordinates"`
	Speed               float64        `json:"Speed"`
}

type statusRecord struct {
	ZoneID          string  `json:"ZoneID"`
	TotalEvacuated  int     `json:"TotalEvacuated"`
	RemainingPeople int     `json:"RemainingPeople"`
	LastVehicleUsed *string `json:"LastVehicleUsed"`
}

func toLocationRecord(l domain.Location) locationRecord {
	return locationRecord{Latitude: l.Latitude, Longitude: l.Longitude}
}

func (r locationRecord) toDomain() domain.Location {
	return domain.Location{Latitude: r.Latitude, Longitude: r.Longitude}
}

func toZoneRecord(z *domain.Zone) zoneRecord {
	return zoneRecord{
		ZoneID:              z.ZoneID,
		LocationCoordinates: toLocationRecord(z.Location),
		NumberOfPeople:      z.Population,
		UrgencyLevel:        z.Urgency,
	}
}

func (r zoneRecord) toDomain() *domain.Zone {
	return &domain.Zone{
		ZoneID:     r.ZoneID,
		Location:   r.LocationCoordinates.toDomain(),
		Population: r.NumberOfPeople,
		Urgency:    r.UrgencyLevel,
	}
}

func toVehicleRecord(v *domain.Vehicle) vehicleRecord {
	return vehicleRecord{
		VehicleID:           v.VehicleID,
		Capacity:            v.Capacity,
		Type:                v.Type,
		LocationCoordinates: toLocationRecord(v.Location),
		Speed:               v.SpeedKmh,
	}
}

func (r vehicleRecord) toDomain() *domain.Vehicle {
	return &domain.Vehicle{
		VehicleID: r.VehicleID,
		Type:      r.Type,
		Capacity:  r.Capacity,
		SpeedKmh:  r.Speed,
		Location:  r.LocationCoordinates.toDomain(),
	}
}

func toStatusRecord(s *domain.EvacuationStatus) statusRecord {
	return statusRecord{
		ZoneID:          s.ZoneID,
		TotalEvacuated:  s.TotalEvacuated,
		RemainingPeople: s.RemainingPeople,
		LastVehicleUsed: s.LastVehicleUsed,
	}
}

func (r statusRecord) toDomain() *domain.EvacuationStatus {
	return &domain.EvacuationStatus{
		ZoneID:          r.ZoneID,
		TotalEvacuated:  r.TotalEvacuated,
		RemainingPeople: r.RemainingPeople,
		LastVehicleUsed: r.LastVehicleUsed,
	}
}
