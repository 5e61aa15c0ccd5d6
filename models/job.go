package models

import (
	"context"
	"time"

	"github.com/RichardToddFidelis/reporting-backend/config"
	"github.com/RichardToddFidelis/reporting-backend/utils"
	"gorm.io/gorm"
)

// Job tracks the status of one externally executed report run.
// The status is set by clients; nothing in this service runs the job.
type Job struct {
	ID               int       `gorm:"primary_key" json:"id"`
	ReportID         int       `gorm:"not null;index" json:"report_id"`
	Report           *Report   `gorm:"foreignKey:ReportID" json:"-"`
	ReportModifierID *int      `json:"report_modifier_id"`
	Status           JobStatus `gorm:"size:20;not null;default:PENDING" json:"status"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated"`
}

type NewJob struct {
	ReportID         int       `json:"report_id" binding:"required"`
	ReportModifierID *int      `json:"report_modifier_id"`
	Status           JobStatus `json:"status" binding:"omitempty,oneof=PENDING RUNNING COMPLETED FAILED"`
}

type JobStatusUpdate struct {
	Status JobStatus `json:"status" binding:"required,oneof=PENDING RUNNING COMPLETED FAILED"`
}

type JobInfo struct {
	ID               int       `json:"id"`
	ReportID         int       `json:"report_id"`
	ReportModifierID *int      `json:"report_modifier_id"`
	Status           JobStatus `json:"status"`
	Created          string    `json:"created"`
	Updated          string    `json:"updated"`
}

func (j *Job) Info() *JobInfo {
	return &JobInfo{
		ID:               j.ID,
		ReportID:         j.ReportID,
		ReportModifierID: j.ReportModifierID,
		Status:           j.Status,
		Created:          j.CreatedAt.UTC().Format(time.RFC3339),
		Updated:          j.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// CreateJob records a job for an existing report. A modifier, when given,
// must already be linked to that report.
func CreateJob(ctx context.Context, input *NewJob) (*Job, error) {
	db := config.GetDB()

	status := input.Status
	if status == "" {
		status = JobStatusPending
	}
	if !status.IsValid() {
		return nil, utils.Validationf("Invalid job status: %s", status)
	}

	job := Job{
		ReportID:         input.ReportID,
		ReportModifierID: input.ReportModifierID,
		Status:           status,
	}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Report{}).Where("id = ?", input.ReportID).
			Count(&count).Error; err != nil {
			return err
		}
		if count <= 0 {
			return utils.ErrorRecordNotFound
		}

		if input.ReportModifierID != nil {
			modifierId := *input.ReportModifierID
			if err := tx.Model(&ReportModifier{}).Where("id = ?", modifierId).
				Count(&count).Error; err != nil {
				return err
			}
			if count <= 0 {
				return utils.Validationf("Invalid report modifier ID: %d", modifierId)
			}
			if err := tx.Table("report_report_modifiers").
				Where("report_modifier_id = ? AND report_id = ?", modifierId, input.ReportID).
				Count(&count).Error; err != nil {
				return err
			}
			if count <= 0 {
				return utils.Validationf("Report modifier %d is not linked to report %d", modifierId, input.ReportID)
			}
		}

		return tx.Create(&job).Error
	})
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func UpdateJobStatus(ctx context.Context, id int, input *JobStatusUpdate) (*Job, error) {
	if !input.Status.IsValid() {
		return nil, utils.Validationf("Invalid job status: %s", input.Status)
	}

	db := config.GetDB()

	var job Job
	if err := db.WithContext(ctx).First(&job, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	if err := db.WithContext(ctx).Model(&job).Updates(map[string]interface{}{
		"Status": input.Status,
	}).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// GetJob fetches one job. (may return RecordNotFound error)
func GetJob(ctx context.Context, id int) (*Job, error) {
	db := config.GetDB()
	var job Job
	if err := db.WithContext(ctx).First(&job, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &job, nil
}

func ListJobs(ctx context.Context, page, perPage int) (*PaginatedResult[*Job], error) {
	db := config.GetDB()
	query := db.Model(&Job{})
	return Paginate[Job](ctx, query, page, perPage)
}
