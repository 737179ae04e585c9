// Package store persists account state and appended price history. The
// engine works purely in memory; stores are consulted only at startup load
// and explicit checkpoints.
package store

import (
	"context"
	"log"
	"time"

	"stocksim/internal/model"
)

// AccountStore loads and saves one account's full snapshot. Load returns a
// fresh default account when none is stored yet.
type AccountStore interface {
	LoadAccount(ctx context.Context, username string) (model.Account, error)
	SaveAccount(ctx context.Context, acct model.Account) error
}

// PriceHistoryStore receives one price row per symbol per tick.
type PriceHistoryStore interface {
	AppendPrice(ctx context.Context, symbol string, price float64, at time.Time) error
}

// Checkpointer saves an account to the relational store and mirrors it into
// the snapshot file. The snapshot write is best-effort: its failure is
// logged and does not fail the checkpoint.
type Checkpointer struct {
	Accounts AccountStore
	Snapshot *SnapshotStore
}

func (c Checkpointer) SaveAccount(ctx context.Context, acct model.Account) error {
	var err error
	if c.Accounts != nil {
		err = c.Accounts.SaveAccount(ctx, acct)
	}
	if c.Snapshot != nil {
		if snapErr := c.Snapshot.Save(acct); snapErr != nil {
			log.Printf("snapshot save failed: %v", snapErr)
		}
	}
	return err
}

// Reconcile merges the relational row state with a snapshot of the same
// account: the copy with the longer transaction history wins, since the
// transaction log is the complete causal history of the account.
func Reconcile(primary, snapshot model.Account) model.Account {
	if len(snapshot.Transactions) > len(primary.Transactions) {
		return snapshot
	}
	return primary
}
