package sheets

import (
	"context"
	"fmt"
	"strings"

	"github.com/ogurasousui/hr-intake-bot/internal/core/identity"
	"github.com/ogurasousui/hr-intake-bot/internal/platform/obs"
)

// Column headers of the access-directory sheet.
const (
	tokenColToken  = "token"
	tokenColName   = "ism"
	tokenColRole   = "rol"
	tokenColBranch = "filial"
)

// IdentityDirectory resolves tokens against the access-directory
// spreadsheet export.
type IdentityDirectory struct {
	client *Client
	url    string
}

// NewIdentityDirectory creates an IdentityDirectory.
func NewIdentityDirectory(client *Client, url string) *IdentityDirectory {
	return &IdentityDirectory{client: client, url: url}
}

// Resolve looks the token up in the sheet. Tokens are compared exactly
// after trimming surrounding whitespace.
func (d *IdentityDirectory) Resolve(ctx context.Context, token string) (*identity.Access, error) {
	token = strings.TrimSpace(token)

	rows, err := d.client.fetchRows(ctx, d.url)
	if err != nil {
		obs.LookupFailures.WithLabelValues("access", "unavailable").Inc()
		return nil, fmt.Errorf("%w: %v", identity.ErrUnavailable, err)
	}

	idx := headerIndex(rows)
	tokenIdx, ok := idx[tokenColToken]
	if !ok {
		obs.LookupFailures.WithLabelValues("access", "unavailable").Inc()
		return nil, fmt.Errorf("%w: sheet has no %q column", identity.ErrUnavailable, tokenColToken)
	}

	for _, row := range rows[1:] {
		if cell(row, tokenIdx) != token {
			continue
		}
		return &identity.Access{
			Name:   cell(row, idx[tokenColName]),
			Role:   cell(row, idx[tokenColRole]),
			Branch: cell(row, idx[tokenColBranch]),
		}, nil
	}

	obs.LookupFailures.WithLabelValues("access", "miss").Inc()
	return nil, identity.ErrTokenNotFound
}
