package db

import (
	"fmt"

	"github.com/abya-university/ABYA-Ecosystem-sub001/logx"
)

// DBTxManager runs a unit of work against a single batch so that either all
// of its writes are committed or none are.
type DBTxManager struct {
	provider DatabaseProvider
}

func NewDBTxManager(provider DatabaseProvider) *DBTxManager {
	return &DBTxManager{provider: provider}
}

// WithBatch executes fn within a batch context. The batch is committed when
// fn returns nil and discarded otherwise; fn's error is returned unwrapped so
// callers can still match domain errors.
func (tm *DBTxManager) WithBatch(fn func(batch DatabaseBatch) error) error {
	batch := tm.provider.Batch()
	defer func() {
		if err := batch.Close(); err != nil {
			logx.Error("TX_MANAGER", "failed to close batch: ", err)
		}
	}()

	if err := fn(batch); err != nil {
		batch.Reset()
		return err
	}

	if err := batch.Write(); err != nil {
		return fmt.Errorf("commit failed: %w", err)
	}

	return nil
}
