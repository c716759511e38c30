package resource

import (
	"fmt"

	"github.com/aarondl/null/v8"
)

// Reagent is the listing projection of a reagents row.
type Reagent struct {
	ID              string      `boil:"id" json:"id"`
	Name            string      `boil:"name" json:"name"`
	Formula         null.String `boil:"formula" json:"formula"`
	CASNumber       null.String `boil:"cas_number" json:"cas_number"`
	Manufacturer    null.String `boil:"manufacturer" json:"manufacturer"`
	Status          string      `boil:"status" json:"status"`
	Hazardous       bool        `boil:"hazardous" json:"hazardous"`
	StorageLocation null.String `boil:"storage_location" json:"storage_location"`
	TotalQuantity   float64     `boil:"total_quantity" json:"total_quantity"`
	Unit            string      `boil:"unit" json:"unit"`
	CreatedAt       string      `boil:"created_at" json:"created_at"`
	UpdatedAt       string      `boil:"updated_at" json:"updated_at"`
}

func (r Reagent) RowID() string { return r.ID }

func (r Reagent) SortValue(column string) (any, bool) {
	switch column {
	case "name":
		return r.Name, true
	case "total_quantity":
		return r.TotalQuantity, true
	case "created_at":
		return r.CreatedAt, true
	case "updated_at":
		return r.UpdatedAt, true
	}
	return nil, false
}

// EquipmentItem is the listing projection of an equipment row.
type EquipmentItem struct {
	ID            string      `boil:"id" json:"id"`
	Name          string      `boil:"name" json:"name"`
	Model         null.String `boil:"model" json:"model"`
	SerialNumber  null.String `boil:"serial_number" json:"serial_number"`
	Manufacturer  null.String `boil:"manufacturer" json:"manufacturer"`
	EquipmentType string      `boil:"equipment_type" json:"equipment_type"`
	Status        string      `boil:"status" json:"status"`
	RoomID        null.String `boil:"room_id" json:"room_id"`
	PurchasePrice float64     `boil:"purchase_price" json:"purchase_price"`
	PurchaseDate  null.String `boil:"purchase_date" json:"purchase_date"`
	CreatedAt     string      `boil:"created_at" json:"created_at"`
	UpdatedAt     string      `boil:"updated_at" json:"updated_at"`
}

func (e EquipmentItem) RowID() string { return e.ID }

func (e EquipmentItem) SortValue(column string) (any, bool) {
	switch column {
	case "purchase_price":
		return e.PurchasePrice, true
	case "purchase_date":
		if !e.PurchaseDate.Valid {
			return nil, false
		}
		return e.PurchaseDate.String, true
	case "created_at":
		return e.CreatedAt, true
	case "updated_at":
		return e.UpdatedAt, true
	}
	return nil, false
}

// Record is a row of any resource keyed by column name. It is what generic
// tooling lists when no typed projection exists.
type Record map[string]any

func (r Record) RowID() string {
	switch v := r["id"].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

func (r Record) SortValue(column string) (any, bool) {
	v, ok := r[column]
	if !ok || v == nil {
		return nil, false
	}
	if b, isBytes := v.([]byte); isBytes {
		return string(b), true
	}
	return v, true
}
