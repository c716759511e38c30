package resource

import "github.com/nrfta/records-paging/enum"

// ReagentStatus is the stock state of a reagent.
type ReagentStatus int

const (
	ReagentAvailable ReagentStatus = iota + 1
	ReagentLowStock
	ReagentOutOfStock
	ReagentExpired
	ReagentDisposed
)

var ReagentStatuses = enum.New(map[ReagentStatus]string{
	ReagentAvailable:  "available",
	ReagentLowStock:   "low_stock",
	ReagentOutOfStock: "out_of_stock",
	ReagentExpired:    "expired",
	ReagentDisposed:   "disposed",
}, enum.FoldCase())

func (s ReagentStatus) String() string { return ReagentStatuses.String(s) }

// BatchStatus is the state of one received lot of a reagent.
type BatchStatus int

const (
	BatchAvailable BatchStatus = iota + 1
	BatchReserved
	BatchDepleted
	BatchExpired
	BatchQuarantined
)

var BatchStatuses = enum.New(map[BatchStatus]string{
	BatchAvailable:   "available",
	BatchReserved:    "reserved",
	BatchDepleted:    "depleted",
	BatchExpired:     "expired",
	BatchQuarantined: "quarantined",
}, enum.FoldCase())

func (s BatchStatus) String() string { return BatchStatuses.String(s) }

// EquipmentStatus is the operating state of an instrument.
type EquipmentStatus int

const (
	EquipmentOperational EquipmentStatus = iota + 1
	EquipmentInMaintenance
	EquipmentBroken
	EquipmentRetired
)

var EquipmentStatuses = enum.New(map[EquipmentStatus]string{
	EquipmentOperational:   "operational",
	EquipmentInMaintenance: "maintenance",
	EquipmentBroken:        "broken",
	EquipmentRetired:       "retired",
}, enum.FoldCase())

func (s EquipmentStatus) String() string { return EquipmentStatuses.String(s) }

// MaintenanceType classifies an equipment maintenance record.
type MaintenanceType int

const (
	MaintenancePreventive MaintenanceType = iota + 1
	MaintenanceCorrective
	MaintenanceCalibration
	MaintenanceInspection
)

var MaintenanceTypes = enum.New(map[MaintenanceType]string{
	MaintenancePreventive:  "preventive",
	MaintenanceCorrective:  "corrective",
	MaintenanceCalibration: "calibration",
	MaintenanceInspection:  "inspection",
}, enum.FoldCase())

func (t MaintenanceType) String() string { return MaintenanceTypes.String(t) }

// MaintenanceStatus is the progress of a maintenance record.
type MaintenanceStatus int

const (
	MaintenanceScheduled MaintenanceStatus = iota + 1
	MaintenanceInProgress
	MaintenanceCompleted
	MaintenanceCancelled
)

var MaintenanceStatuses = enum.New(map[MaintenanceStatus]string{
	MaintenanceScheduled:  "scheduled",
	MaintenanceInProgress: "in_progress",
	MaintenanceCompleted:  "completed",
	MaintenanceCancelled:  "cancelled",
}, enum.FoldCase())

func (s MaintenanceStatus) String() string { return MaintenanceStatuses.String(s) }

// ExperimentStatus is the lifecycle state of an experiment.
type ExperimentStatus int

const (
	ExperimentPlanned ExperimentStatus = iota + 1
	ExperimentInProgress
	ExperimentCompleted
	ExperimentCancelled
)

var ExperimentStatuses = enum.New(map[ExperimentStatus]string{
	ExperimentPlanned:    "planned",
	ExperimentInProgress: "in_progress",
	ExperimentCompleted:  "completed",
	ExperimentCancelled:  "cancelled",
}, enum.FoldCase())

func (s ExperimentStatus) String() string { return ExperimentStatuses.String(s) }

// RoomType classifies a room.
type RoomType int

const (
	RoomLaboratory RoomType = iota + 1
	RoomStorage
	RoomColdRoom
	RoomOffice
)

var RoomTypes = enum.New(map[RoomType]string{
	RoomLaboratory: "laboratory",
	RoomStorage:    "storage",
	RoomColdRoom:   "cold_room",
	RoomOffice:     "office",
}, enum.FoldCase())

func (t RoomType) String() string { return RoomTypes.String(t) }
