package models

import (
	"context"
	"time"

	"github.com/RichardToddFidelis/reporting-backend/config"
	"github.com/RichardToddFidelis/reporting-backend/utils"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// ReportModifier shifts the as-at / fx dates of the reports it is linked
// to. Quarter/year/month/day are derived from the as-at date at creation.
type ReportModifier struct {
	ID       int        `gorm:"primary_key" json:"id"`
	AsAtDate *time.Time `json:"as_at_date"`
	FxDate   *time.Time `json:"fx_date"`
	Quarter  *int       `json:"quarter"`
	Year     *int       `json:"year"`
	Month    *int       `json:"month"`
	Day      *int       `json:"day"`

	Reports []*Report `gorm:"many2many:report_report_modifiers" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated"`
}

type NewReportModifier struct {
	AsAtDate  *string `json:"as_at_date"`
	FxDate    *string `json:"fx_date"`
	ReportIds []int   `json:"report_ids"`
}

type ReportModifierInfo struct {
	ID        int     `json:"id"`
	AsAtDate  *string `json:"as_at_date"`
	FxDate    *string `json:"fx_date"`
	ReportIds []int   `json:"report_ids"`
	Quarter   *int    `json:"quarter"`
	Year      *int    `json:"year"`
	Month     *int    `json:"month"`
	Day       *int    `json:"day"`
}

// Info converts for responses. Reports must be preloaded.
func (m *ReportModifier) Info() *ReportModifierInfo {
	reportIds := make([]int, 0, len(m.Reports))
	for _, report := range m.Reports {
		reportIds = append(reportIds, report.ID)
	}
	info := &ReportModifierInfo{
		ID:        m.ID,
		ReportIds: reportIds,
		Quarter:   m.Quarter,
		Year:      m.Year,
		Month:     m.Month,
		Day:       m.Day,
	}
	if m.AsAtDate != nil {
		s := m.AsAtDate.UTC().Format(dateLayout)
		info.AsAtDate = &s
	}
	if m.FxDate != nil {
		s := m.FxDate.UTC().Format(dateLayout)
		info.FxDate = &s
	}
	return info
}

func parseDate(field string, value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *value)
	if err != nil {
		return nil, utils.Validationf("Invalid %s: %s", field, *value)
	}
	return &t, nil
}

// DatePartsOf decomposes a date into quarter, year, month and day.
func DatePartsOf(t time.Time) (quarter, year, month, day int) {
	quarter = (int(t.Month())-1)/3 + 1
	return quarter, t.Year(), int(t.Month()), t.Day()
}

func CreateReportModifier(ctx context.Context, input *NewReportModifier) (*ReportModifier, error) {
	asAtDate, err := parseDate("as_at_date", input.AsAtDate)
	if err != nil {
		return nil, err
	}
	fxDate, err := parseDate("fx_date", input.FxDate)
	if err != nil {
		return nil, err
	}

	modifier := ReportModifier{
		AsAtDate: asAtDate,
		FxDate:   fxDate,
	}
	if asAtDate != nil {
		quarter, year, month, day := DatePartsOf(*asAtDate)
		modifier.Quarter = &quarter
		modifier.Year = &year
		modifier.Month = &month
		modifier.Day = &day
	}

	db := config.GetDB()
	unqIds := utils.UniqueSlice(input.ReportIds)
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		missing, err := utils.MissingIds[Report](ctx, tx, unqIds)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return utils.Validationf("Invalid report IDs: %v", missing)
		}

		if err := tx.Create(&modifier).Error; err != nil {
			return err
		}
		if len(unqIds) > 0 {
			reports := make([]*Report, 0, len(unqIds))
			for _, id := range unqIds {
				reports = append(reports, &Report{ID: id})
			}
			if err := tx.Model(&modifier).Association("Reports").Append(reports); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return GetReportModifier(ctx, modifier.ID)
}

// GetReportModifier fetches one modifier with its linked reports.
// (may return RecordNotFound error)
func GetReportModifier(ctx context.Context, id int) (*ReportModifier, error) {
	db := config.GetDB()
	var modifier ReportModifier
	if err := db.WithContext(ctx).Preload("Reports").
		First(&modifier, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &modifier, nil
}

// LinkModifierReports links an existing modifier to the given reports.
// All report ids must exist; linking is additive and idempotent per pair.
func LinkModifierReports(ctx context.Context, modifierId int, reportIds []int) (*ReportModifier, error) {
	db := config.GetDB()

	var modifier ReportModifier
	if err := db.WithContext(ctx).First(&modifier, modifierId).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	unqIds := utils.UniqueSlice(reportIds)
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		missing, err := utils.MissingIds[Report](ctx, tx, unqIds)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return utils.Validationf("Invalid report IDs: %v", missing)
		}

		reports := make([]*Report, 0, len(unqIds))
		for _, id := range unqIds {
			reports = append(reports, &Report{ID: id})
		}
		return tx.Model(&modifier).Association("Reports").Append(reports)
	})
	if err != nil {
		return nil, err
	}

	for _, id := range unqIds {
		if err := utils.RemoveRedis[reportCacheEntry](id); err != nil {
			return nil, err
		}
	}
	return GetReportModifier(ctx, modifierId)
}

// IsModifierLinkedToReport reports membership in report_report_modifiers.
func IsModifierLinkedToReport(ctx context.Context, modifierId, reportId int) (bool, error) {
	db := config.GetDB()
	var count int64
	if err := db.WithContext(ctx).Table("report_report_modifiers").
		Where("report_modifier_id = ? AND report_id = ?", modifierId, reportId).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
