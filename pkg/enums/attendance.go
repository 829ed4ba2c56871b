package enums

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "Present"
	AttendanceAbsent  AttendanceStatus = "Absent"
	AttendanceHalfDay AttendanceStatus = "Half-day"
	AttendanceLeave   AttendanceStatus = "Leave"
)

func AttendanceStatuses() []AttendanceStatus {
	return []AttendanceStatus{AttendancePresent, AttendanceAbsent, AttendanceHalfDay, AttendanceLeave}
}

func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceHalfDay, AttendanceLeave:
		return true
	}
	return false
}

func (s AttendanceStatus) String() string { return string(s) }

// HalfDayWeight is the effective-day contribution of a half-day mark.
const HalfDayWeight = 0.5

type Shift string

const (
	ShiftDay   Shift = "Day"
	ShiftNight Shift = "Night"
)

func (s Shift) Valid() bool {
	return s == ShiftDay || s == ShiftNight
}

func (s Shift) String() string { return string(s) }
