package domain

// RoomStats 房态统计（/rooms/stats）
type RoomStats struct {
	AvailableRooms      int `json:"available_rooms"`
	OccupiedRooms       int `json:"occupied_rooms"`
	ReservedRooms       int `json:"reserved_rooms"`
	PendingApplications int `json:"pending_applications"`
}
