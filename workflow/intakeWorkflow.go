package workflow

import (
	"context"
	"fmt"

	"github.com/jahongirdev1/med333-sub000/config"
	"github.com/jahongirdev1/med333-sub000/models"
	"github.com/jahongirdev1/med333-sub000/remote"
	"github.com/jahongirdev1/med333-sub000/utils"
)

// IntakeSummary is the human-readable per-submission report: one entry
// per collaborator that actually received lines.
type IntakeSummary struct {
	ItemType    models.ItemType `json:"item_type"`
	UniqueItems int             `json:"unique_items"`
	TotalUnits  int             `json:"total_units"`
}

func (s IntakeSummary) String() string {
	return fmt.Sprintf("%d unique items, %d total units", s.UniqueItems, s.TotalUnits)
}

type IntakeResult struct {
	Summaries []IntakeSummary `json:"summaries"`
}

// SubmitIntake aggregates the draft lines, splits the canonical batch into
// per-collaborator submissions (one call for medicine lines, one for
// device lines), and refreshes the snapshot wholesale after any remote
// mutation. An input that aggregates to nothing is refused locally.
func SubmitIntake(ctx context.Context, client *remote.Client, snapshot *models.StockSnapshotCache, branchId string, lines []models.DraftLine) (*IntakeResult, error) {
	aggregated, err := models.AggregateDraftLines(lines)
	if err != nil {
		return nil, err
	}
	if len(aggregated) == 0 {
		return nil, utils.NewValidationError("nothing to submit: no line has an item chosen")
	}

	byType := make(map[models.ItemType][]models.DraftLine)
	typeOrder := make([]models.ItemType, 0, 2)
	for _, line := range aggregated {
		if _, seen := byType[line.ItemType]; !seen {
			typeOrder = append(typeOrder, line.ItemType)
		}
		byType[line.ItemType] = append(byType[line.ItemType], line)
	}

	result := &IntakeResult{}
	submitted := false
	for _, itemType := range typeOrder {
		group := byType[itemType]
		req := remote.IntakeRequest{BranchId: branchId}
		for _, line := range group {
			req.Lines = append(req.Lines, remote.IntakeLine{
				ItemId:        line.ItemId,
				Quantity:      line.Quantity,
				PurchasePrice: line.PurchasePrice,
				SellPrice:     line.SellPrice,
			})
		}
		if err := client.SubmitIntake(ctx, itemType, req); err != nil {
			// A submission may already have landed; the snapshot must not
			// keep serving pre-mutation quantities.
			if submitted {
				refreshErr := RefreshSnapshot(ctx, client, snapshot)
				if refreshErr != nil {
					config.LogError(config.GetLogger(), "intakeWorkflow", "SubmitIntake", "refresh after partial submit", branchId, refreshErr)
				}
			}
			return nil, err
		}
		submitted = true
		result.Summaries = append(result.Summaries, IntakeSummary{
			ItemType:    itemType,
			UniqueItems: len(group),
			TotalUnits:  models.SumQuantities(group),
		})
	}

	if err := RefreshSnapshot(ctx, client, snapshot); err != nil {
		return nil, err
	}
	return result, nil
}

// RefreshSnapshot replaces the cached mirror with an authoritative read
// for the snapshot's scope.
func RefreshSnapshot(ctx context.Context, client *remote.Client, snapshot *models.StockSnapshotCache) error {
	if snapshot == nil {
		return nil
	}
	medicines, err := client.ListItems(ctx, models.ItemTypeMedicine, snapshot.Scope())
	if err != nil {
		return err
	}
	devices, err := client.ListItems(ctx, models.ItemTypeDevice, snapshot.Scope())
	if err != nil {
		return err
	}
	snapshot.ReplaceAll(append(medicines, devices...))
	return nil
}
