package domain

// RoomStatus 房间状态（与 rooms.status 列一致）
type RoomStatus string

const (
	RoomAvailable RoomStatus = "available"
	RoomOccupied  RoomStatus = "occupied"
	RoomReserved  RoomStatus = "reserved"
)

// Sex restriction values stored in rooms.sex_restriction.
const (
	SexMale   = "male"
	SexFemale = "female"
	SexAny    = "any" // accepts any gender
)

// Room 房间领域模型（对应 rooms 表）
// current_occupants is owned by the capacity ledger; nothing else writes it.
type Room struct {
	ID                 string     `db:"id" json:"id"`
	Number             string     `db:"number" json:"number"`
	Description        string     `db:"description" json:"description"`
	PhotoURL           *string    `db:"photo_url" json:"photo_url,omitempty"`
	Capacity           int        `db:"capacity" json:"capacity"`
	CurrentOccupants   int        `db:"current_occupants" json:"current_occupants"`
	FacultyRestriction *string    `db:"faculty_restriction" json:"faculty_restriction,omitempty"`
	CourseRestriction  *int       `db:"course_restriction" json:"course_restriction,omitempty"`
	SexRestriction     string     `db:"sex_restriction" json:"sex_restriction"`
	Status             RoomStatus `db:"status" json:"status"`
}

// Full reports whether the room has no free slots.
func (r *Room) Full() bool {
	return r.CurrentOccupants >= r.Capacity
}
