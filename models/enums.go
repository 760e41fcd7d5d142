package models

import "errors"

type ItemType string

const (
	ItemTypeMedicine ItemType = "medicine"
	ItemTypeDevice   ItemType = "device"
)

func (t ItemType) IsValid() bool {
	return t == ItemTypeMedicine || t == ItemTypeDevice
}

func ParseItemType(str string) (ItemType, error) {
	switch str {
	case "medicine":
		return ItemTypeMedicine, nil
	case "device":
		return ItemTypeDevice, nil
	default:
		return "", errors.New("invalid item type")
	}
}

// ShipmentStatus is the canonical classification this client derives from
// whatever status vocabulary the remote system used. The client never
// invents a status; it only classifies what it receives.
type ShipmentStatus string

const (
	ShipmentStatusPending   ShipmentStatus = "pending"
	ShipmentStatusAccepted  ShipmentStatus = "accepted"
	ShipmentStatusDeclined  ShipmentStatus = "declined"
	ShipmentStatusCancelled ShipmentStatus = "cancelled"
	ShipmentStatusUnknown   ShipmentStatus = "unknown"
)

type ShipmentSortOrder string

const (
	ShipmentSortNew ShipmentSortOrder = "new"
	ShipmentSortOld ShipmentSortOrder = "old"
)

func ParseShipmentSortOrder(str string) (ShipmentSortOrder, error) {
	switch str {
	case "", "new":
		return ShipmentSortNew, nil
	case "old":
		return ShipmentSortOld, nil
	default:
		return "", errors.New("invalid sort order")
	}
}

type ShipmentStatusFilter string

const (
	ShipmentFilterAll      ShipmentStatusFilter = "all"
	ShipmentFilterAccepted ShipmentStatusFilter = "accepted"
	ShipmentFilterDeclined ShipmentStatusFilter = "declined"
)

func ParseShipmentStatusFilter(str string) (ShipmentStatusFilter, error) {
	switch str {
	case "", "all":
		return ShipmentFilterAll, nil
	case "accepted":
		return ShipmentFilterAccepted, nil
	case "declined":
		return ShipmentFilterDeclined, nil
	default:
		return "", errors.New("invalid status filter")
	}
}
