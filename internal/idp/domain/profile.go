package domain

// Profile holds what the external directory knows about an end user. All
// fields except ID may be empty; claims derived from a Profile are
// best-effort.
type Profile struct {
	ID            string
	Email         string
	EmailVerified bool
	Name          string
	GivenName     string
	FamilyName    string
	Username      string
}

// DisplayName returns the best available human-readable name.
func (p Profile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	if p.GivenName != "" && p.FamilyName != "" {
		return p.GivenName + " " + p.FamilyName
	}
	if p.Username != "" {
		return p.Username
	}
	return p.Email
}
