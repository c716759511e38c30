package resource

import (
	"github.com/nrfta/records-paging/whitelist"
)

var Reagents = define(&Definition{
	Name:  "reagents",
	Table: "reagents",
	Fields: whitelist.MustNew(whitelist.DefaultFieldConfig(),
		"id", "name", "formula", "cas_number", "manufacturer", "status", "hazardous",
		"storage_location", "total_quantity", "unit", "created_at", "updated_at",
	),
	Sorts: whitelist.NewSortWhitelist().
		Field("name", "name", whitelist.SortText).
		Field("manufacturer", "manufacturer", whitelist.SortText).
		Field("status", "status", whitelist.SortText).
		KeysetField("total_quantity", "total_quantity", whitelist.SortNumeric).
		KeysetField("updated_at", "updated_at", whitelist.SortTime).
		DefaultKeysetField("created_at", "created_at", whitelist.SortTime),
	Filters: map[string]FilterSpec{
		"status":       OneOf("status", ReagentStatuses),
		"manufacturer": Eq("manufacturer"),
		"hazardous":    Flag("hazardous"),
		"location":     Eq("storage_location"),
		"quantity":     FloatBetween("total_quantity"),
		"created":      DateBetween("created_at"),
	},
	Search: []string{"name", "formula", "cas_number", "manufacturer"},
})

var Batches = define(&Definition{
	Name:  "batches",
	Table: "batches",
	Fields: whitelist.MustNew(whitelist.DefaultFieldConfig(),
		"id", "reagent_id", "lot_number", "supplier", "status", "quantity", "unit",
		"received_date", "expiry_date", "created_at", "updated_at",
	),
	Sorts: whitelist.NewSortWhitelist().
		Field("lot_number", "lot_number", whitelist.SortText).
		Field("supplier", "supplier", whitelist.SortText).
		KeysetField("quantity", "quantity", whitelist.SortNumeric).
		Field("expiry_date", "expiry_date", whitelist.SortTime).
		Field("received_date", "received_date", whitelist.SortTime).
		DefaultKeysetField("created_at", "created_at", whitelist.SortTime),
	Filters: map[string]FilterSpec{
		"status":     OneOf("status", BatchStatuses),
		"reagent_id": Eq("reagent_id"),
		"supplier":   Eq("supplier"),
		"quantity":   FloatBetween("quantity"),
		"expiry":     DateBetween("expiry_date"),
		"received":   DateBetween("received_date"),
	},
	Search: []string{"lot_number", "supplier"},
})

var Equipment = define(&Definition{
	Name:  "equipment",
	Table: "equipment",
	Fields: whitelist.MustNew(whitelist.DefaultFieldConfig(),
		"id", "name", "model", "serial_number", "manufacturer", "equipment_type", "status",
		"room_id", "purchase_price", "purchase_date", "created_at", "updated_at",
	),
	Sorts: whitelist.NewSortWhitelist().
		Field("name", "name", whitelist.SortText).
		Field("model", "model", whitelist.SortText).
		Field("status", "status", whitelist.SortText).
		KeysetField("purchase_price", "purchase_price", whitelist.SortNumeric).
		Field("purchase_date", "purchase_date", whitelist.SortTime).
		DefaultKeysetField("created_at", "created_at", whitelist.SortTime),
	Filters: map[string]FilterSpec{
		"status":       OneOf("status", EquipmentStatuses),
		"type":         Eq("equipment_type"),
		"room_id":      Eq("room_id"),
		"manufacturer": Eq("manufacturer"),
		"price":        FloatBetween("purchase_price"),
	},
	Search: []string{"name", "model", "serial_number", "manufacturer"},
})

var EquipmentParts = define(&Definition{
	Name:  "equipment_parts",
	Table: "equipment_parts",
	Fields: whitelist.MustNew(whitelist.DefaultFieldConfig(),
		"id", "equipment_id", "name", "part_number", "quantity", "unit_cost",
		"created_at", "updated_at",
	),
	Sorts: whitelist.NewSortWhitelist().
		Field("name", "name", whitelist.SortText).
		Field("part_number", "part_number", whitelist.SortText).
		KeysetField("quantity", "quantity", whitelist.SortNumeric).
		KeysetField("unit_cost", "unit_cost", whitelist.SortNumeric).
		DefaultKeysetField("created_at", "created_at", whitelist.SortTime),
	Filters: map[string]FilterSpec{
		"equipment_id": Eq("equipment_id"),
		"quantity":     IntBetween("quantity"),
	},
	Search: []string{"name", "part_number"},
})

var EquipmentMaintenance = define(&Definition{
	Name:  "equipment_maintenance",
	Table: "equipment_maintenance",
	Fields: whitelist.MustNew(whitelist.DefaultFieldConfig(),
		"id", "equipment_id", "maintenance_type", "status", "performed_by", "cost",
		"scheduled_date", "completed_date", "notes", "created_at", "updated_at",
	),
	Sorts: whitelist.NewSortWhitelist().
		Field("maintenance_type", "maintenance_type", whitelist.SortText).
		Field("status", "status", whitelist.SortText).
		KeysetField("cost", "cost", whitelist.SortNumeric).
		Field("scheduled_date", "scheduled_date", whitelist.SortTime).
		DefaultKeysetField("created_at", "created_at", whitelist.SortTime),
	Filters: map[string]FilterSpec{
		"equipment_id": Eq("equipment_id"),
		"type":         OneOf("maintenance_type", MaintenanceTypes),
		"status":       OneOf("status", MaintenanceStatuses),
		"scheduled":    DateBetween("scheduled_date"),
	},
	Search: []string{"performed_by", "notes"},
})

var EquipmentFiles = define(&Definition{
	Name:  "equipment_files",
	Table: "equipment_files",
	Fields: whitelist.MustNew(whitelist.DefaultFieldConfig(),
		"id", "equipment_id", "file_name", "content_type", "size_bytes", "uploaded_by",
		"created_at",
	),
	Sorts: whitelist.NewSortWhitelist().
		Field("file_name", "file_name", whitelist.SortText).
		KeysetField("size_bytes", "size_bytes", whitelist.SortNumeric).
		DefaultKeysetField("created_at", "created_at", whitelist.SortTime),
	Filters: map[string]FilterSpec{
		"equipment_id": Eq("equipment_id"),
		"content_type": Eq("content_type"),
		"size":         IntBetween("size_bytes"),
	},
	Search: []string{"file_name"},
})

var Rooms = define(&Definition{
	Name:  "rooms",
	Table: "rooms",
	Fields: whitelist.MustNew(whitelist.DefaultFieldConfig(),
		"id", "name", "building", "floor", "room_type", "capacity", "created_at", "updated_at",
	),
	Sorts: whitelist.NewSortWhitelist().
		Field("name", "name", whitelist.SortText).
		Field("building", "building", whitelist.SortText).
		KeysetField("capacity", "capacity", whitelist.SortNumeric).
		KeysetField("floor", "floor", whitelist.SortNumeric).
		DefaultKeysetField("created_at", "created_at", whitelist.SortTime),
	Filters: map[string]FilterSpec{
		"type":     OneOf("room_type", RoomTypes),
		"building": Eq("building"),
		"capacity": IntBetween("capacity"),
	},
	Search: []string{"name", "building"},
})

var Experiments = define(&Definition{
	Name:  "experiments",
	Table: "experiments",
	Fields: whitelist.MustNew(whitelist.DefaultFieldConfig(),
		"id", "title", "description", "status", "room_id", "principal_investigator",
		"started_at", "finished_at", "created_at", "updated_at",
	),
	Sorts: whitelist.NewSortWhitelist().
		Field("title", "title", whitelist.SortText).
		Field("status", "status", whitelist.SortText).
		Field("started_at", "started_at", whitelist.SortTime).
		KeysetField("updated_at", "updated_at", whitelist.SortTime).
		DefaultKeysetField("created_at", "created_at", whitelist.SortTime),
	Filters: map[string]FilterSpec{
		"status":       OneOf("status", ExperimentStatuses),
		"room_id":      Eq("room_id"),
		"investigator": Eq("principal_investigator"),
		"started":      DateBetween("started_at"),
	},
	Search: []string{"title", "description", "principal_investigator"},
})

// Reports lists generated report runs. Its columns are checked with the
// report preset, which also accepts qualified names.
var Reports = define(&Definition{
	Name:  "reports",
	Table: "reports",
	Fields: whitelist.MustNew(whitelist.ReportFieldConfig(),
		"id", "title", "report_type", "generated_by", "row_count", "generated_at",
		"reports.generated_at", "reports.row_count",
	),
	Sorts: whitelist.NewSortWhitelist().
		Field("title", "title", whitelist.SortText).
		Field("report_type", "report_type", whitelist.SortText).
		KeysetField("row_count", "row_count", whitelist.SortNumeric).
		DefaultKeysetField("generated_at", "generated_at", whitelist.SortTime),
	Filters: map[string]FilterSpec{
		"type":         Eq("report_type"),
		"generated_by": Eq("generated_by"),
		"generated":    DateBetween("generated_at"),
		"rows":         IntBetween("row_count"),
	},
	Search: []string{"title"},
})
