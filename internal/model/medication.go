package model

// Medication represents a medication schedule entry owned by a user.
// The id is assigned by the row store and may be a number or a UUID string
// depending on the table definition, so it is kept opaque.
type Medication struct {
	ID           any    `json:"id"`
	UserID       string `json:"user_id"`
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
	Time         string `json:"time"`
	Instructions string `json:"instructions,omitempty"`
	Active       bool   `json:"active"`
	StartDate    string `json:"start_date,omitempty"`
}

// MedicationUpdate carries a partial medication update. Nil fields were
// not supplied by the caller and are left untouched.
type MedicationUpdate struct {
	Name         *string `json:"name"`
	Dosage       *string `json:"dosage"`
	Frequency    *string `json:"frequency"`
	Time         *string `json:"time"`
	Instructions *string `json:"instructions"`
	Active       *bool   `json:"active"`
	StartDate    *string `json:"start_date"`
}

// Fields returns the set of supplied fields as column/value pairs.
func (u MedicationUpdate) Fields() map[string]any {
	fields := make(map[string]any)
	if u.Name != nil {
		fields["name"] = *u.Name
	}
	if u.Dosage != nil {
		fields["dosage"] = *u.Dosage
	}
	if u.Frequency != nil {
		fields["frequency"] = *u.Frequency
	}
	if u.Time != nil {
		fields["time"] = *u.Time
	}
	if u.Instructions != nil {
		fields["instructions"] = *u.Instructions
	}
	if u.Active != nil {
		fields["active"] = *u.Active
	}
	if u.StartDate != nil {
		fields["start_date"] = *u.StartDate
	}
	return fields
}
