package model

// Caregiver represents a caregiver contact owned by a user.
type Caregiver struct {
	ID        any    `json:"id"`
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Relation  string `json:"relation,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
	IsPrimary bool   `json:"is_primary"`
}

// CaregiverUpdate carries a partial caregiver update.
type CaregiverUpdate struct {
	Name      *string `json:"name"`
	Relation  *string `json:"relation"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
	IsPrimary *bool   `json:"is_primary"`
}

// Fields returns the set of supplied fields as column/value pairs.
func (u CaregiverUpdate) Fields() map[string]any {
	fields := make(map[string]any)
	if u.Name != nil {
		fields["name"] = *u.Name
	}
	if u.Relation != nil {
		fields["relation"] = *u.Relation
	}
	if u.Phone != nil {
		fields["phone"] = *u.Phone
	}
	if u.Email != nil {
		fields["email"] = *u.Email
	}
	if u.IsPrimary != nil {
		fields["is_primary"] = *u.IsPrimary
	}
	return fields
}
