package main

import (
	"net/http"

	"github.com/RichardToddFidelis/reporting-backend/models"
	"github.com/gin-gonic/gin"
)

func createJobHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewJob
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, "createJob", err)
			return
		}
		job, err := models.CreateJob(c.Request.Context(), &input)
		if err != nil {
			respondError(c, "createJob", err)
			return
		}
		c.JSON(http.StatusCreated, job.Info())
	}
}

func updateJobStatusHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathId(c, "id")
		if err != nil {
			respondError(c, "updateJobStatus", err)
			return
		}
		var input models.JobStatusUpdate
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, "updateJobStatus", err)
			return
		}
		job, err := models.UpdateJobStatus(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, "updateJobStatus", err)
			return
		}
		c.JSON(http.StatusOK, job.Info())
	}
}

func getJobHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathId(c, "id")
		if err != nil {
			respondError(c, "getJob", err)
			return
		}
		job, err := models.GetJob(c.Request.Context(), id)
		if err != nil {
			respondError(c, "getJob", err)
			return
		}
		c.JSON(http.StatusOK, job.Info())
	}
}

func listJobsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		page, perPage, err := pageParams(c)
		if err != nil {
			respondError(c, "listJobs", err)
			return
		}
		result, err := models.ListJobs(c.Request.Context(), page, perPage)
		if err != nil {
			respondError(c, "listJobs", err)
			return
		}
		items := make([]*models.JobInfo, 0, len(result.Items))
		for _, job := range result.Items {
			items = append(items, job.Info())
		}
		c.JSON(http.StatusOK, models.PaginatedResult[*models.JobInfo]{
			Items:      items,
			Total:      result.Total,
			Page:       result.Page,
			PerPage:    result.PerPage,
			TotalPages: result.TotalPages,
		})
	}
}
