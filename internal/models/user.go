package models

// Identity captures the authenticated user record held by a session store.
// Its JSON form is the persisted record.
type Identity struct {
	ID          string    `json:"id"`
	Phone       string    `json:"phone"`
	Name        string    `json:"name"`
	Role        Role      `json:"role"`
	Avatar      *string   `json:"avatar,omitempty"`
	Verified    bool      `json:"verified"`
	Permissions []string  `json:"permissions,omitempty"`
	Metadata    *Metadata `json:"metadata,omitempty"`
}

// Metadata holds the optional account statistics shown on the home view.
type Metadata struct {
	Rating     *float64 `json:"rating,omitempty"`
	TotalTrips *int     `json:"totalTrips,omitempty"`
	Balance    *float64 `json:"balance,omitempty"`
	Bonuses    *float64 `json:"bonuses,omitempty"`
}

// DefaultMetadata returns the statistics every identity starts with.
func DefaultMetadata() Metadata {
	return Metadata{
		Rating:     Float(4.9),
		TotalTrips: Int(127),
		Balance:    Float(2850),
		Bonuses:    Float(1240),
	}
}

// Merge returns m with every field set in over replacing the corresponding field.
func (m Metadata) Merge(over *Metadata) Metadata {
	if over == nil {
		return m
	}
	if over.Rating != nil {
		m.Rating = over.Rating
	}
	if over.TotalTrips != nil {
		m.TotalTrips = over.TotalTrips
	}
	if over.Balance != nil {
		m.Balance = over.Balance
	}
	if over.Bonuses != nil {
		m.Bonuses = over.Bonuses
	}
	return m
}

// IdentityPatch lists the fields UpdateUser may replace. Nil fields are left alone.
type IdentityPatch struct {
	Name     *string   `json:"name,omitempty"`
	Phone    *string   `json:"phone,omitempty"`
	Avatar   *string   `json:"avatar,omitempty"`
	Verified *bool     `json:"verified,omitempty"`
	Role     *Role     `json:"role,omitempty"`
	Metadata *Metadata `json:"metadata,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p IdentityPatch) Empty() bool {
	return p.Name == nil && p.Phone == nil && p.Avatar == nil && p.Verified == nil && p.Role == nil && p.Metadata == nil
}

// Clone returns a deep copy so callers cannot mutate store-owned state.
func (i Identity) Clone() Identity {
	out := i
	if i.Avatar != nil {
		out.Avatar = String(*i.Avatar)
	}
	if i.Permissions != nil {
		out.Permissions = append([]string(nil), i.Permissions...)
	}
	if i.Metadata != nil {
		md := *i.Metadata
		out.Metadata = &md
	}
	return out
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }
