package database

import (
	"context"

	"github.com/lib/pq"
	"github.com/pkg/errors"
)

// Credit is a row of the credits table.
type Credit struct {
	UserID string
	Amount int64
}

// CreditsByUserIDs returns the credit balance of every user id that has a
// row. Ids without a row are absent from the result.
func (c *Client) CreditsByUserIDs(ctx context.Context, userIDs []string) (map[string]int64, error) {
	result := make(map[string]int64, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	rows, err := c.db.QueryContext(ctx, `
		SELECT user_id, amount FROM credits WHERE user_id = ANY($1)
	`, pq.Array(userIDs))
	if err != nil {
		return nil, errors.Wrap(err, "failed to query credits")
	}
	defer rows.Close()

	for rows.Next() {
		var cr Credit
		if err := rows.Scan(&cr.UserID, &cr.Amount); err != nil {
			return nil, errors.Wrap(err, "failed to scan credit")
		}
		result[cr.UserID] = cr.Amount
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read credits")
	}
	return result, nil
}
