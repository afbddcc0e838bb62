package dto

// CreateMedicationRequest represents the request body for creating a medication.
type CreateMedicationRequest struct {
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
	Time         string `json:"time"`
	Instructions string `json:"instructions,omitempty"`
	Active       *bool  `json:"active,omitempty"`
	StartDate    string `json:"start_date,omitempty"`
}

// CreateCaregiverRequest represents the request body for creating a caregiver.
type CreateCaregiverRequest struct {
	Name      string `json:"name"`
	Relation  string `json:"relation,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
	IsPrimary bool   `json:"is_primary,omitempty"`
}

// CreateAlarmRequest represents the request body for creating an alarm.
type CreateAlarmRequest struct {
	MedicationName string `json:"medication_name"`
	Dose           string `json:"dose,omitempty"`
	ScheduledTime  string `json:"scheduled_time"`
	Status         string `json:"status,omitempty"`
}
