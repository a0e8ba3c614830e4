package sqlite

import (
	"github.com/omnigo/leadbooker/internal"
)

type Calendar struct {
	Department      string `db:"department"`
	Owner           string `db:"owner"`
	ProviderID      string `db:"provider_id"`
	AccountEmail    string `db:"account_email"`
	AccountPlatform string `db:"account_platform"`
	AccountAuth     string `db:"auth"`
}

func (c Calendar) Convert() *internal.Calendar {
	return &internal.Calendar{
		Department: c.Department,
		Owner:      c.Owner,
		ProviderID: c.ProviderID,
		Account: internal.Account{
			Platform: c.AccountPlatform,
			Email:    c.AccountEmail,
			Auth:     c.AccountAuth,
		},
	}
}
