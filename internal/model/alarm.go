package model

// AlarmStatus represents the lifecycle state of an alarm.
type AlarmStatus string

const (
	AlarmStatusUpcoming AlarmStatus = "upcoming"
	AlarmStatusTaken    AlarmStatus = "taken"
	AlarmStatusMissed   AlarmStatus = "missed"
)

// Alarm represents a scheduled medication reminder owned by a user.
// Status transitions are not enforced by the gateway; clients send the
// status string they want persisted.
type Alarm struct {
	ID             any    `json:"id"`
	UserID         string `json:"user_id"`
	MedicationName string `json:"medication_name"`
	Dose           string `json:"dose,omitempty"`
	ScheduledTime  string `json:"scheduled_time"`
	Status         string `json:"status"`
}

// AlarmUpdate carries a partial alarm update.
type AlarmUpdate struct {
	MedicationName *string `json:"medication_name"`
	Dose           *string `json:"dose"`
	ScheduledTime  *string `json:"scheduled_time"`
	Status         *string `json:"status"`
}

// Fields returns the set of supplied fields as column/value pairs.
func (u AlarmUpdate) Fields() map[string]any {
	fields := make(map[string]any)
	if u.MedicationName != nil {
		fields["medication_name"] = *u.MedicationName
	}
	if u.Dose != nil {
		fields["dose"] = *u.Dose
	}
	if u.ScheduledTime != nil {
		fields["scheduled_time"] = *u.ScheduledTime
	}
	if u.Status != nil {
		fields["status"] = *u.Status
	}
	return fields
}
