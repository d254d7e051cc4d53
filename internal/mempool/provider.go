package mempool

import (
	"context"
	"time"

	"github.com/klingon-exchange/rollupcore/internal/store"
)

// OutPoint identifies a cell on the L1 chain by transaction hash and index.
type OutPoint struct {
	TxHash [32]byte
	Index  uint32
}

// CellWithStatus is the L1 cell lookup result: the raw cell data plus
// whether it is still live.
type CellWithStatus struct {
	Raw  []byte
	Live bool
}

// DepositInfo describes a deposit cell collected from the L1 chain for
// inclusion in the next block.
type DepositInfo struct {
	Cell    OutPoint
	Account []byte
	Amount  uint64
}

// WithdrawalRequest is a pending withdrawal awaiting custodian cells.
type WithdrawalRequest struct {
	Raw []byte
}

// CollectedCustodianCells is the result of matching pending withdrawals
// against available custodian cells on L1.
type CollectedCustodianCells struct {
	Cells    []OutPoint
	Capacity uint64
}

// RollupContext carries the chain parameters needed to validate custodian
// cell selection (rollup type hash, finality rules); opaque here since
// interpreting it is the L1 bridge's concern, not this core's.
type RollupContext struct {
	Raw []byte
}

// MemPoolProvider is the mempool's collaborator for everything that needs
// L1 chain access. Every method takes a context and may block on network
// I/O; callers MUST NOT hold the mempool lock or a KV transaction across any
// of these calls.
type MemPoolProvider interface {
	EstimateNextBlocktime(ctx context.Context) (time.Duration, error)
	CollectDepositCells(ctx context.Context, localCells []OutPoint) ([]DepositInfo, error)
	QueryAvailableCustodians(ctx context.Context, withdrawals []WithdrawalRequest, lastFinalizedBlockNumber uint64, rollupCtx RollupContext, localCells []OutPoint) (CollectedCustodianCells, error)
	GetCell(ctx context.Context, outPoint OutPoint) (*CellWithStatus, error)
}

// MemPoolErrorTxHandler is a side channel for transactions that failed
// execution after being popped from the mempool; present in the original
// mem-pool traits but dropped from the distilled component table, kept here
// since the external interfaces still reference it.
type MemPoolErrorTxHandler interface {
	HandleErrorReceipt(ctx context.Context, receipt store.Receipt) error
}
