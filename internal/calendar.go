package internal

// Account is a calendar-platform account. Auth holds the serialized OAuth2
// token when the account was connected through the login flow; an empty Auth
// means the provider falls back to service-account impersonation.
type Account struct {
	Platform string
	Email    string
	Auth     string
}

func (a Account) ID() string {
	return a.Platform + "/" + a.Email
}

// Calendar is a bookable team-member calendar, routed to by department.
type Calendar struct {
	Department string
	Owner      string
	ProviderID string
	Account    Account
}

func (c Calendar) String() string {
	if c.Department == "" {
		return c.ProviderID
	}
	return c.Department + "/" + c.ProviderID
}
