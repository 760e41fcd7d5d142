package workflow

import (
	"context"
	"strings"

	"github.com/jahongirdev1/med333-sub000/models"
	"github.com/jahongirdev1/med333-sub000/remote"
	"github.com/jahongirdev1/med333-sub000/utils"
)

// ListShipmentView fetches the branch's shipments and applies the pure
// read-side transform: classification-based filtering and a stable
// time ordering. The remote list is passed through untouched otherwise.
func ListShipmentView(ctx context.Context, client *remote.Client, branchId string, sortOrder models.ShipmentSortOrder, statusFilter models.ShipmentStatusFilter) ([]models.Shipment, error) {
	shipments, err := client.ListShipments(ctx, branchId)
	if err != nil {
		return nil, err
	}
	return models.ShipmentView(shipments, sortOrder, statusFilter), nil
}

func CreateShipment(ctx context.Context, client *remote.Client, input models.NewShipment) (*models.Shipment, error) {
	if len(input.MedicineLines)+len(input.DeviceLines) == 0 {
		return nil, utils.NewValidationError("shipment has no lines")
	}
	for _, line := range append(append([]models.ShipmentLine{}, input.MedicineLines...), input.DeviceLines...) {
		if line.ItemId == "" {
			return nil, utils.NewValidationError("shipment line has no item chosen")
		}
		if line.Quantity < 1 {
			return nil, utils.NewValidationError("shipment line quantity must be at least 1")
		}
	}
	return client.CreateShipment(ctx, input)
}

// ApplyShipmentAction forwards accept/reject/cancel/retry to the remote.
// The remote owns the lifecycle (pending -> accepted|rejected|cancelled,
// rejected -> pending on retry); this client only enforces what it can
// check locally: a reject must carry a reason.
func ApplyShipmentAction(ctx context.Context, client *remote.Client, id string, action remote.ShipmentAction, reason string) error {
	if id == "" {
		return utils.NewValidationError("shipment id is required")
	}
	switch action {
	case remote.ShipmentActionAccept, remote.ShipmentActionCancel, remote.ShipmentActionRetry:
	case remote.ShipmentActionReject:
		if strings.TrimSpace(reason) == "" {
			return utils.NewValidationError("a rejection reason is required")
		}
	default:
		return utils.NewValidationError("unknown shipment action")
	}
	return client.ApplyShipmentAction(ctx, id, action, reason)
}
