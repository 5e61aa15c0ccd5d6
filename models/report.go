package models

import (
	"context"
	"time"

	"github.com/RichardToddFidelis/reporting-backend/config"
	"github.com/RichardToddFidelis/reporting-backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Report is a simulation/aggregation configuration. Nothing in this
// service executes it; jobs only track the status of external runs.
type Report struct {
	ID              int             `gorm:"primary_key" json:"id"`
	Name            string          `gorm:"size:255;not null" json:"name"`
	Peril           string          `gorm:"size:255;not null" json:"peril"`
	DR              decimal.Decimal `gorm:"type:decimal(10,4);not null" json:"dr"`
	Cron            *string         `gorm:"size:100" json:"cron"`
	Cob             *string         `gorm:"size:255" json:"cob"`
	LossPerspective string          `gorm:"size:255;not null" json:"loss_perspective"`

	IsApplyCalibration    *bool `gorm:"not null;default:true" json:"is_apply_calibration"`
	IsApplyInflation      *bool `gorm:"not null;default:true" json:"is_apply_inflation"`
	IsTagOutwardsPtns     *bool `gorm:"not null;default:false" json:"is_tag_outwards_ptns"`
	IsLocationBreakout    *bool `gorm:"not null;default:false" json:"is_location_breakout"`
	IsIgnoreMissingLatLon *bool `gorm:"not null;default:true" json:"is_ignore_missing_lat_lon"`

	LocationBreakoutMaxEvents    int `gorm:"not null;default:500000" json:"location_breakout_max_events"`
	LocationBreakoutMaxLocations int `gorm:"not null;default:1000000" json:"location_breakout_max_locations"`

	Priority string `gorm:"size:50;not null;default:AboveNormal" json:"priority"`
	Ncores   int    `gorm:"not null;default:24" json:"ncores"`

	GrossNodeId     *int `json:"gross_node_id"`
	NetNodeId       *int `json:"net_node_id"`
	RollupContextId *int `json:"rollup_context_id"`

	DynamicRingLossThreshold int      `gorm:"not null;default:5000000" json:"dynamic_ring_loss_threshold"`
	BlastRadius              *float64 `json:"blast_radius"`
	NoOverlapRadius          *float64 `json:"no_overlap_radius"`

	IsValid *bool `gorm:"not null;default:true" json:"is_valid"`

	EventGroups []*EventGroup     `gorm:"many2many:report_event_groups" json:"-"`
	Modifiers   []*ReportModifier `gorm:"many2many:report_report_modifiers" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated"`
}

type NewReport struct {
	Name            string           `json:"name" binding:"required,max=255"`
	Peril           string           `json:"peril" binding:"required,max=255"`
	DR              *decimal.Decimal `json:"dr"`
	EventGroups     []int            `json:"event_groups"`
	Cron            *string          `json:"cron" binding:"omitempty,max=100"`
	Cob             *string          `json:"cob" binding:"omitempty,max=255"`
	LossPerspective string           `json:"loss_perspective" binding:"required,max=255"`

	IsApplyCalibration    *bool `json:"is_apply_calibration"`
	IsApplyInflation      *bool `json:"is_apply_inflation"`
	IsTagOutwardsPtns     *bool `json:"is_tag_outwards_ptns"`
	IsLocationBreakout    *bool `json:"is_location_breakout"`
	IsIgnoreMissingLatLon *bool `json:"is_ignore_missing_lat_lon"`

	LocationBreakoutMaxEvents    *int `json:"location_breakout_max_events"`
	LocationBreakoutMaxLocations *int `json:"location_breakout_max_locations"`

	Priority *string `json:"priority" binding:"omitempty,max=50"`
	Ncores   *int    `json:"ncores" binding:"omitempty,gte=1"`

	GrossNodeId     *int `json:"gross_node_id"`
	NetNodeId       *int `json:"net_node_id"`
	RollupContextId *int `json:"rollup_context_id"`

	DynamicRingLossThreshold *int     `json:"dynamic_ring_loss_threshold"`
	BlastRadius              *float64 `json:"blast_radius"`
	NoOverlapRadius          *float64 `json:"no_overlap_radius"`

	IsValid *bool `json:"is_valid"`
}

func (input *NewReport) validate() error {
	if input.Cron != nil && *input.Cron != "" && !utils.IsValidCron(*input.Cron) {
		return utils.Validationf("Invalid cron expression: %s", *input.Cron)
	}
	return nil
}

// reportCacheEntry carries the linked event group ids beside the row:
// the association is json:"-" on the model and would vanish from the cache.
type reportCacheEntry struct {
	Report        *Report `json:"report"`
	EventGroupIds []int   `json:"event_group_ids"`
}

// ReportInfo is the wire shape for a report: linked event group ids, not rows.
type ReportInfo struct {
	ID                           int             `json:"id"`
	Name                         string          `json:"name"`
	Peril                        string          `json:"peril"`
	DR                           decimal.Decimal `json:"dr"`
	EventGroups                  []int           `json:"event_groups"`
	Cron                         *string         `json:"cron"`
	Cob                          *string         `json:"cob"`
	LossPerspective              string          `json:"loss_perspective"`
	IsApplyCalibration           *bool           `json:"is_apply_calibration"`
	IsApplyInflation             *bool           `json:"is_apply_inflation"`
	IsTagOutwardsPtns            *bool           `json:"is_tag_outwards_ptns"`
	IsLocationBreakout           *bool           `json:"is_location_breakout"`
	IsIgnoreMissingLatLon        *bool           `json:"is_ignore_missing_lat_lon"`
	LocationBreakoutMaxEvents    int             `json:"location_breakout_max_events"`
	LocationBreakoutMaxLocations int             `json:"location_breakout_max_locations"`
	Priority                     string          `json:"priority"`
	Ncores                       int             `json:"ncores"`
	GrossNodeId                  *int            `json:"gross_node_id"`
	NetNodeId                    *int            `json:"net_node_id"`
	RollupContextId              *int            `json:"rollup_context_id"`
	DynamicRingLossThreshold     int             `json:"dynamic_ring_loss_threshold"`
	BlastRadius                  *float64        `json:"blast_radius"`
	NoOverlapRadius              *float64        `json:"no_overlap_radius"`
	IsValid                      *bool           `json:"is_valid"`
	Created                      string          `json:"created"`
	Updated                      string          `json:"updated"`
}

// Info converts for responses. EventGroups must be preloaded.
func (r *Report) Info() *ReportInfo {
	groupIds := make([]int, 0, len(r.EventGroups))
	for _, group := range r.EventGroups {
		groupIds = append(groupIds, group.ID)
	}
	return &ReportInfo{
		ID:                           r.ID,
		Name:                         r.Name,
		Peril:                        r.Peril,
		DR:                           r.DR,
		EventGroups:                  groupIds,
		Cron:                         r.Cron,
		Cob:                          r.Cob,
		LossPerspective:              r.LossPerspective,
		IsApplyCalibration:           r.IsApplyCalibration,
		IsApplyInflation:             r.IsApplyInflation,
		IsTagOutwardsPtns:            r.IsTagOutwardsPtns,
		IsLocationBreakout:           r.IsLocationBreakout,
		IsIgnoreMissingLatLon:        r.IsIgnoreMissingLatLon,
		LocationBreakoutMaxEvents:    r.LocationBreakoutMaxEvents,
		LocationBreakoutMaxLocations: r.LocationBreakoutMaxLocations,
		Priority:                     r.Priority,
		Ncores:                       r.Ncores,
		GrossNodeId:                  r.GrossNodeId,
		NetNodeId:                    r.NetNodeId,
		RollupContextId:              r.RollupContextId,
		DynamicRingLossThreshold:     r.DynamicRingLossThreshold,
		BlastRadius:                  r.BlastRadius,
		NoOverlapRadius:              r.NoOverlapRadius,
		IsValid:                      r.IsValid,
		Created:                      r.CreatedAt.UTC().Format(time.RFC3339),
		Updated:                      r.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func defaultBlastRadius() *float64 {
	v := 50.0
	return &v
}

func CreateReport(ctx context.Context, input *NewReport) (*Report, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	dr := decimal.NewFromInt(1)
	if input.DR != nil {
		dr = *input.DR
	}

	report := Report{
		Name:                         input.Name,
		Peril:                        input.Peril,
		DR:                           dr,
		Cron:                         input.Cron,
		Cob:                          input.Cob,
		LossPerspective:              input.LossPerspective,
		IsApplyCalibration:           utils.NewTrue(),
		IsApplyInflation:             utils.NewTrue(),
		IsTagOutwardsPtns:            utils.NewFalse(),
		IsLocationBreakout:           utils.NewFalse(),
		IsIgnoreMissingLatLon:        utils.NewTrue(),
		LocationBreakoutMaxEvents:    500000,
		LocationBreakoutMaxLocations: 1000000,
		Priority:                     "AboveNormal",
		Ncores:                       24,
		GrossNodeId:                  input.GrossNodeId,
		NetNodeId:                    input.NetNodeId,
		RollupContextId:              input.RollupContextId,
		DynamicRingLossThreshold:     5000000,
		BlastRadius:                  defaultBlastRadius(),
		NoOverlapRadius:              input.NoOverlapRadius,
		IsValid:                      utils.NewTrue(),
	}
	if input.IsApplyCalibration != nil {
		report.IsApplyCalibration = input.IsApplyCalibration
	}
	if input.IsApplyInflation != nil {
		report.IsApplyInflation = input.IsApplyInflation
	}
	if input.IsTagOutwardsPtns != nil {
		report.IsTagOutwardsPtns = input.IsTagOutwardsPtns
	}
	if input.IsLocationBreakout != nil {
		report.IsLocationBreakout = input.IsLocationBreakout
	}
	if input.IsIgnoreMissingLatLon != nil {
		report.IsIgnoreMissingLatLon = input.IsIgnoreMissingLatLon
	}
	if input.LocationBreakoutMaxEvents != nil {
		report.LocationBreakoutMaxEvents = *input.LocationBreakoutMaxEvents
	}
	if input.LocationBreakoutMaxLocations != nil {
		report.LocationBreakoutMaxLocations = *input.LocationBreakoutMaxLocations
	}
	if input.Priority != nil {
		report.Priority = *input.Priority
	}
	if input.Ncores != nil {
		report.Ncores = *input.Ncores
	}
	if input.DynamicRingLossThreshold != nil {
		report.DynamicRingLossThreshold = *input.DynamicRingLossThreshold
	}
	if input.BlastRadius != nil {
		report.BlastRadius = input.BlastRadius
	}
	if input.IsValid != nil {
		report.IsValid = input.IsValid
	}

	db := config.GetDB()
	unqIds := utils.UniqueSlice(input.EventGroups)
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		missing, err := utils.MissingIds[EventGroup](ctx, tx, unqIds)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return utils.Validationf("Invalid event group IDs: %v", missing)
		}

		if err := tx.Create(&report).Error; err != nil {
			return err
		}
		if len(unqIds) > 0 {
			groups := make([]*EventGroup, 0, len(unqIds))
			for _, id := range unqIds {
				groups = append(groups, &EventGroup{ID: id})
			}
			if err := tx.Model(&report).Association("EventGroups").Append(groups); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// GetReport fetches one report with its event groups, redis first then db.
// (may return RecordNotFound error)
func GetReport(ctx context.Context, id int) (*Report, error) {
	cached, err := utils.RetrieveRedis[reportCacheEntry](id)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		report := cached.Report
		report.EventGroups = make([]*EventGroup, 0, len(cached.EventGroupIds))
		for _, groupId := range cached.EventGroupIds {
			report.EventGroups = append(report.EventGroups, &EventGroup{ID: groupId})
		}
		return report, nil
	}

	db := config.GetDB()
	var report Report
	if err := db.WithContext(ctx).Preload("EventGroups").
		First(&report, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	groupIds := make([]int, 0, len(report.EventGroups))
	for _, group := range report.EventGroups {
		groupIds = append(groupIds, group.ID)
	}
	entry := reportCacheEntry{Report: &report, EventGroupIds: groupIds}
	if err := utils.StoreRedis[reportCacheEntry](&entry, report.ID); err != nil {
		return nil, err
	}
	return &report, nil
}

func ListReports(ctx context.Context, page, perPage int) (*PaginatedResult[*Report], error) {
	db := config.GetDB()
	query := db.Model(&Report{}).Preload("EventGroups")
	return Paginate[Report](ctx, query, page, perPage)
}

// LinkReportEventGroup adds an existing group to an existing report.
// Linking the same group twice is a validation error.
func LinkReportEventGroup(ctx context.Context, reportId, eventGroupId int) error {
	db := config.GetDB()

	var report Report
	if err := db.WithContext(ctx).First(&report, reportId).Error; err != nil {
		return utils.ErrorRecordNotFound
	}
	if err := utils.ValidateResourceId[EventGroup](ctx, eventGroupId); err != nil {
		return err
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Table("report_event_groups").
			Where("report_id = ? AND event_group_id = ?", reportId, eventGroupId).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return utils.Validationf("Event group is already linked to this report")
		}
		return tx.Model(&report).Association("EventGroups").
			Append(&EventGroup{ID: eventGroupId})
	})
	if err != nil {
		return err
	}

	return utils.RemoveRedis[reportCacheEntry](reportId)
}

// GetReportWithModifiers returns the report and all linked modifiers.
func GetReportWithModifiers(ctx context.Context, id int) (*Report, []*ReportModifier, error) {
	db := config.GetDB()
	var report Report
	if err := db.WithContext(ctx).
		Preload("EventGroups").
		Preload("Modifiers").
		Preload("Modifiers.Reports").
		First(&report, id).Error; err != nil {
		return nil, nil, utils.ErrorRecordNotFound
	}
	return &report, report.Modifiers, nil
}

// GetReportWithEventGroups returns the report and its groups with member events.
func GetReportWithEventGroups(ctx context.Context, id int) (*Report, []*EventGroup, error) {
	db := config.GetDB()
	var report Report
	if err := db.WithContext(ctx).
		Preload("EventGroups").
		Preload("EventGroups.Events").
		First(&report, id).Error; err != nil {
		return nil, nil, utils.ErrorRecordNotFound
	}
	return &report, report.EventGroups, nil
}

// IsEventGroupLinkedToReport reports membership in report_event_groups.
func IsEventGroupLinkedToReport(ctx context.Context, reportId, eventGroupId int) (bool, error) {
	db := config.GetDB()
	var count int64
	if err := db.WithContext(ctx).Table("report_event_groups").
		Where("report_id = ? AND event_group_id = ?", reportId, eventGroupId).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
