// Package mappings resolves item categories to the ledger accounts a posting
// touches. A category without a row here blocks posting entirely rather than
// letting a voucher land on a guessed account.
package mappings

import "time"

// GLMapping binds an item category to its inventory, sales and cost accounts.
type GLMapping struct {
	ID               int64     `json:"id"`
	Category         string    `json:"category"`
	InventoryAccount string    `json:"inventory_account"`
	SalesAccount     string    `json:"sales_account"`
	COGSAccount      string    `json:"cogs_account"`
	CreatedAt        time.Time `json:"created_at"`
}
