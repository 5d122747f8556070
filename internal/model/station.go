package model

import "time"

// Station represents a radio station listed on the platform. A station is
// owned by an ADMIN user who manages its RJs and advertisement slots. The
// contact email receives booking notifications when a payment is created
// against one of the station's slots.
//
// Fields:
//
//	ID           – primary key identifier.
//	OwnerID      – admin user who manages the station.
//	Name         – display name of the station.
//	Frequency    – broadcast frequency label (e.g. "98.3 FM").
//	City         – city the station broadcasts from.
//	ContactEmail – address notified about new payments.
//	CreatedAt    – creation timestamp.
//	UpdatedAt    – last update timestamp.
type Station struct {
	ID           uint64    // stations.id
	OwnerID      uint64    // stations.owner_id
	Name         string    // stations.name
	Frequency    string    // stations.frequency
	City         string    // stations.city
	ContactEmail string    // stations.contact_email
	CreatedAt    time.Time // stations.created_at
	UpdatedAt    time.Time // stations.updated_at
}

// RJ represents a radio jockey hosting shows on a station. Slots are
// always tied to the (station, RJ) pair they air under.
//
// Fields:
//
//	ID        – primary key identifier.
//	StationID – station the RJ belongs to.
//	Name      – display name of the RJ.
//	Bio       – optional free-text description.
//	CreatedAt – creation timestamp.
//	UpdatedAt – last update timestamp.
type RJ struct {
	ID        uint64    // rjs.id
	StationID uint64    // rjs.station_id
	Name      string    // rjs.name
	Bio       *string   // rjs.bio (nullable)
	CreatedAt time.Time // rjs.created_at
	UpdatedAt time.Time // rjs.updated_at
}
