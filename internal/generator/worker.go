package generator

import (
	"runtime"

	"github.com/predelinq/riskgen/internal/config"
	"github.com/predelinq/riskgen/internal/models"
	"github.com/predelinq/riskgen/internal/simulator"
)

// WorkerResult collects one worker's simulation output. Results are merged
// back in customer-id order, so the files come out identical regardless of
// how many workers ran.
type WorkerResult struct {
	WorkerID int
	Results  []*simulator.Result
	Failed   int64
}

// GetWorkerCount returns the number of workers to use.
// If configured workers is 0, auto-detects using runtime.NumCPU().
func GetWorkerCount(configured int) int {
	if configured > 0 {
		return configured
	}
	cpus := runtime.NumCPU()
	if cpus < 1 {
		return 1
	}
	return cpus
}

// PartitionCustomers splits the population into contiguous chunks, one per
// worker. Chunks keep id order so merged output needs no re-sort. Because
// every customer carries a dedicated RNG stream and a pre-allocated
// transaction-id block, the partitioning has no effect on the data itself.
func PartitionCustomers(customers []*models.Customer, workerCount int) [][]*models.Customer {
	if workerCount <= 0 {
		workerCount = 1
	}
	partitions := make([][]*models.Customer, workerCount)
	if len(customers) == 0 {
		return partitions
	}

	chunk := (len(customers) + workerCount - 1) / workerCount
	for i := 0; i < workerCount; i++ {
		lo := i * chunk
		if lo >= len(customers) {
			break
		}
		hi := lo + chunk
		if hi > len(customers) {
			hi = len(customers)
		}
		partitions[i] = customers[lo:hi]
	}
	return partitions
}

// TxnIDStride returns the id range reserved per customer. The range scales
// with the horizon's worst-case record count so a long simulation cannot
// run a customer's ids into the next customer's block.
func TxnIDStride(horizonDays int) int64 {
	stride := int64(horizonDays) * config.MaxDailyRecords
	if stride < config.TransactionIDBlock {
		stride = config.TransactionIDBlock
	}
	return stride
}

// TxnIDBlockStart returns the first transaction id of the block reserved
// for a customer. Blocks are derived from the customer id, never from
// worker assignment, so ids are stable across worker counts.
func TxnIDBlockStart(customerID int64, horizonDays int) int64 {
	index := customerID - config.FirstCustomerID
	return config.FirstTransactionID + index*TxnIDStride(horizonDays)
}
