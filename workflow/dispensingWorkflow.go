package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bsm/redislock"
	"github.com/jahongirdev1/med333-sub000/config"
	"github.com/jahongirdev1/med333-sub000/models"
	"github.com/jahongirdev1/med333-sub000/remote"
	"github.com/jahongirdev1/med333-sub000/utils"
)

// DispenseState tracks a single submission attempt:
// Idle -> Validating -> {RejectedLocal | Submitting} -> {Applied | RejectedRemote}.
// Only Applied mutates the snapshot; every Rejected state leaves it
// byte-for-byte unchanged.
type DispenseState string

const (
	DispenseStateIdle           DispenseState = "idle"
	DispenseStateValidating     DispenseState = "validating"
	DispenseStateRejectedLocal  DispenseState = "rejected_local"
	DispenseStateSubmitting     DispenseState = "submitting"
	DispenseStateApplied        DispenseState = "applied"
	DispenseStateRejectedRemote DispenseState = "rejected_remote"
)

// StockViolation is one line that failed the advisory client-side check.
type StockViolation struct {
	ItemId    string `json:"item_id"`
	Name      string `json:"name"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

func (v StockViolation) String() string {
	name := v.Name
	if name == "" {
		name = v.ItemId
	}
	return fmt.Sprintf("%s: requested %d, available %d", name, v.Requested, v.Available)
}

type DispenseResult struct {
	State       DispenseState     `json:"state"`
	Violations  []StockViolation  `json:"violations,omitempty"`
	Diagnostics []string          `json:"diagnostics,omitempty"`
	ResetLines  []models.CartLine `json:"reset_lines,omitempty"`
}

// SubmitDispense validates the cart against the snapshot, submits it as
// one remote transaction, and applies the local mirror only after the
// remote confirms. The cart is never partially applied.
func SubmitDispense(ctx context.Context, client *remote.Client, snapshot *models.StockSnapshotCache, patientId, employeeId string, cart []models.CartLine) (*DispenseResult, error) {
	logger := config.GetLogger()
	result := &DispenseResult{State: DispenseStateValidating}

	active := models.ActiveCartLines(cart)
	if len(active) == 0 {
		result.State = DispenseStateRejectedLocal
		return result, utils.NewValidationError("nothing to dispense: no line has an item and a quantity")
	}

	// Advisory precondition: every requested quantity must fit the cached
	// snapshot. Violations are reported without contacting the remote.
	for _, line := range active {
		item, known := snapshot.Get(line.ItemId)
		available := 0
		if known {
			available = item.Quantity
		}
		if line.Quantity > available {
			result.Violations = append(result.Violations, StockViolation{
				ItemId:    line.ItemId,
				Name:      item.Name,
				Requested: line.Quantity,
				Available: available,
			})
		}
	}
	if len(result.Violations) > 0 {
		result.State = DispenseStateRejectedLocal
		reports := make([]string, 0, len(result.Violations))
		for _, v := range result.Violations {
			reports = append(reports, v.String())
		}
		return result, utils.NewValidationError(strings.Join(reports, "\n"))
	}

	req := remote.DispenseRequest{
		PatientId:  patientId,
		EmployeeId: employeeId,
		BranchId:   snapshot.Scope(),
	}
	for _, line := range active {
		item, _ := snapshot.Get(line.ItemId)
		wire := remote.DispenseLine{ItemId: line.ItemId, Quantity: line.Quantity}
		if item.Type == models.ItemTypeDevice {
			req.DeviceLines = append(req.DeviceLines, wire)
		} else {
			req.MedicineLines = append(req.MedicineLines, wire)
		}
	}

	// Best-effort cross-replica serialization. Correctness never depends
	// on it: the snapshot's own lock keeps local mutation atomic.
	if locker := config.GetRedisLock(); locker != nil {
		lock, err := locker.Obtain(ctx, "DispenseLock:"+snapshot.Scope(), 30*time.Second, &redislock.Options{
			RetryStrategy: redislock.LinearBackoff(250 * time.Millisecond),
		})
		if err == nil {
			defer lock.Release(context.Background())
		} else {
			config.LogError(logger, "dispensingWorkflow", "SubmitDispense", "obtain dispense lock", snapshot.Scope(), err)
		}
	}

	result.State = DispenseStateSubmitting
	if err := client.SubmitDispense(ctx, req); err != nil {
		if ise, ok := remote.IsInsufficientStock(err); ok {
			result.State = DispenseStateRejectedRemote
			for _, item := range ise.Items {
				result.Diagnostics = append(result.Diagnostics, fmt.Sprintf("%s: requested %d, available %d", item.Type, item.Requested, item.Available))
			}
			return result, err
		}
		result.State = DispenseStateRejectedRemote
		return result, err
	}

	// Remote confirmed: roll the mirror forward in one pass.
	for _, line := range active {
		if err := snapshot.ApplyDelta(line.ItemId, -line.Quantity); err != nil {
			// Pre-validated quantities cannot underflow unless another
			// actor raced this session. Surface it, the next wholesale
			// refresh resolves the mirror.
			config.LogError(logger, "dispensingWorkflow", "SubmitDispense", "apply delta after confirm", line.ItemId, err)
			continue
		}
		snapshot.DropIfZero(line.ItemId)
	}

	result.State = DispenseStateApplied
	// The form is handed back ready for the next transaction: every line
	// zeroed and unselected, no catalog refetch required.
	result.ResetLines = make([]models.CartLine, len(cart))
	return result, nil
}
