package main

import (
	"net/http"

	"github.com/RichardToddFidelis/reporting-backend/models"
	"github.com/RichardToddFidelis/reporting-backend/utils"
	"github.com/gin-gonic/gin"
)

type eventGroupWithEvents struct {
	EventGroup *models.EventGroupInfo `json:"event_group"`
	Events     []*models.Event        `json:"events"`
}

type reportWithModifiers struct {
	Report    *models.ReportInfo           `json:"report"`
	Modifiers []*models.ReportModifierInfo `json:"modifiers"`
}

type reportWithEventGroups struct {
	Report      *models.ReportInfo      `json:"report"`
	EventGroups []*eventGroupWithEvents `json:"event_groups"`
}

type reportWithModifierAndEventGroup struct {
	Report     *models.ReportInfo         `json:"report"`
	Modifier   *models.ReportModifierInfo `json:"modifier"`
	EventGroup *eventGroupWithEvents      `json:"event_group"`
}

func groupWithEvents(group *models.EventGroup) *eventGroupWithEvents {
	return &eventGroupWithEvents{
		EventGroup: group.Info(),
		Events:     group.Events,
	}
}

func createReportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewReport
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, "createReport", err)
			return
		}
		report, err := models.CreateReport(c.Request.Context(), &input)
		if err != nil {
			respondError(c, "createReport", err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"id":   report.ID,
			"name": report.Name,
		})
	}
}

func getReportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathId(c, "id")
		if err != nil {
			respondError(c, "getReport", err)
			return
		}
		report, err := models.GetReport(c.Request.Context(), id)
		if err != nil {
			respondError(c, "getReport", err)
			return
		}
		c.JSON(http.StatusOK, report.Info())
	}
}

func listReportsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		page, perPage, err := pageParams(c)
		if err != nil {
			respondError(c, "listReports", err)
			return
		}
		result, err := models.ListReports(c.Request.Context(), page, perPage)
		if err != nil {
			respondError(c, "listReports", err)
			return
		}
		items := make([]*models.ReportInfo, 0, len(result.Items))
		for _, report := range result.Items {
			items = append(items, report.Info())
		}
		c.JSON(http.StatusOK, models.PaginatedResult[*models.ReportInfo]{
			Items:      items,
			Total:      result.Total,
			Page:       result.Page,
			PerPage:    result.PerPage,
			TotalPages: result.TotalPages,
		})
	}
}

func createReportModifierHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewReportModifier
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, "createReportModifier", err)
			return
		}
		modifier, err := models.CreateReportModifier(c.Request.Context(), &input)
		if err != nil {
			respondError(c, "createReportModifier", err)
			return
		}
		c.JSON(http.StatusCreated, modifier.Info())
	}
}

func getReportModifierHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathId(c, "id")
		if err != nil {
			respondError(c, "getReportModifier", err)
			return
		}
		modifier, err := models.GetReportModifier(c.Request.Context(), id)
		if err != nil {
			respondError(c, "getReportModifier", err)
			return
		}
		c.JSON(http.StatusOK, modifier.Info())
	}
}

type linkReportsRequest struct {
	ReportIds []int `json:"report_ids" binding:"required"`
}

func linkModifierReportsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathId(c, "id")
		if err != nil {
			respondError(c, "linkModifierReports", err)
			return
		}
		var input linkReportsRequest
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, "linkModifierReports", err)
			return
		}
		modifier, err := models.LinkModifierReports(c.Request.Context(), id, input.ReportIds)
		if err != nil {
			respondError(c, "linkModifierReports", err)
			return
		}
		c.JSON(http.StatusOK, modifier.Info())
	}
}

func getReportWithModifiersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathId(c, "id")
		if err != nil {
			respondError(c, "getReportWithModifiers", err)
			return
		}
		report, modifiers, err := models.GetReportWithModifiers(c.Request.Context(), id)
		if err != nil {
			respondError(c, "getReportWithModifiers", err)
			return
		}
		infos := make([]*models.ReportModifierInfo, 0, len(modifiers))
		for _, modifier := range modifiers {
			infos = append(infos, modifier.Info())
		}
		c.JSON(http.StatusOK, reportWithModifiers{
			Report:    report.Info(),
			Modifiers: infos,
		})
	}
}

func getReportWithEventGroupsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathId(c, "id")
		if err != nil {
			respondError(c, "getReportWithEventGroups", err)
			return
		}
		report, groups, err := models.GetReportWithEventGroups(c.Request.Context(), id)
		if err != nil {
			respondError(c, "getReportWithEventGroups", err)
			return
		}
		items := make([]*eventGroupWithEvents, 0, len(groups))
		for _, group := range groups {
			items = append(items, groupWithEvents(group))
		}
		c.JSON(http.StatusOK, reportWithEventGroups{
			Report:      report.Info(),
			EventGroups: items,
		})
	}
}

func linkReportEventGroupHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		reportId, err := pathId(c, "id")
		if err != nil {
			respondError(c, "linkReportEventGroup", err)
			return
		}
		eventGroupId, err := pathId(c, "event_group_id")
		if err != nil {
			respondError(c, "linkReportEventGroup", err)
			return
		}
		if err := models.LinkReportEventGroup(c.Request.Context(), reportId, eventGroupId); err != nil {
			respondError(c, "linkReportEventGroup", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"report_id":      reportId,
			"event_group_id": eventGroupId,
		})
	}
}

func getReportAndModifierHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		reportId, err := pathId(c, "id")
		if err != nil {
			respondError(c, "getReportAndModifier", err)
			return
		}
		modifierId, err := pathId(c, "modifier_id")
		if err != nil {
			respondError(c, "getReportAndModifier", err)
			return
		}
		ctx := c.Request.Context()

		report, err := models.GetReport(ctx, reportId)
		if err != nil {
			respondError(c, "getReportAndModifier", err)
			return
		}
		modifier, err := models.GetReportModifier(ctx, modifierId)
		if err != nil {
			respondError(c, "getReportAndModifier", err)
			return
		}
		linked, err := models.IsModifierLinkedToReport(ctx, modifierId, reportId)
		if err != nil {
			respondError(c, "getReportAndModifier", err)
			return
		}
		if !linked {
			respondError(c, "getReportAndModifier", utils.NotFoundf("Modifier is not linked to this report"))
			return
		}
		c.JSON(http.StatusOK, reportWithModifiers{
			Report:    report.Info(),
			Modifiers: []*models.ReportModifierInfo{modifier.Info()},
		})
	}
}

func getReportAndEventGroupHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		reportId, err := pathId(c, "id")
		if err != nil {
			respondError(c, "getReportAndEventGroup", err)
			return
		}
		eventGroupId, err := pathId(c, "event_group_id")
		if err != nil {
			respondError(c, "getReportAndEventGroup", err)
			return
		}
		ctx := c.Request.Context()

		report, err := models.GetReport(ctx, reportId)
		if err != nil {
			respondError(c, "getReportAndEventGroup", err)
			return
		}
		group, err := models.GetEventGroup(ctx, eventGroupId)
		if err != nil {
			respondError(c, "getReportAndEventGroup", err)
			return
		}
		linked, err := models.IsEventGroupLinkedToReport(ctx, reportId, eventGroupId)
		if err != nil {
			respondError(c, "getReportAndEventGroup", err)
			return
		}
		if !linked {
			respondError(c, "getReportAndEventGroup", utils.NotFoundf("Event group is not linked to this report"))
			return
		}
		c.JSON(http.StatusOK, reportWithEventGroups{
			Report:      report.Info(),
			EventGroups: []*eventGroupWithEvents{groupWithEvents(group)},
		})
	}
}

func getReportModifierEventGroupHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		reportId, err := pathId(c, "id")
		if err != nil {
			respondError(c, "getReportModifierEventGroup", err)
			return
		}
		modifierId, err := pathId(c, "modifier_id")
		if err != nil {
			respondError(c, "getReportModifierEventGroup", err)
			return
		}
		eventGroupId, err := pathId(c, "event_group_id")
		if err != nil {
			respondError(c, "getReportModifierEventGroup", err)
			return
		}
		ctx := c.Request.Context()

		report, err := models.GetReport(ctx, reportId)
		if err != nil {
			respondError(c, "getReportModifierEventGroup", err)
			return
		}
		modifier, err := models.GetReportModifier(ctx, modifierId)
		if err != nil {
			respondError(c, "getReportModifierEventGroup", err)
			return
		}
		group, err := models.GetEventGroup(ctx, eventGroupId)
		if err != nil {
			respondError(c, "getReportModifierEventGroup", err)
			return
		}
		linked, err := models.IsModifierLinkedToReport(ctx, modifierId, reportId)
		if err != nil {
			respondError(c, "getReportModifierEventGroup", err)
			return
		}
		if !linked {
			respondError(c, "getReportModifierEventGroup", utils.NotFoundf("Modifier is not linked to this report"))
			return
		}
		linked, err = models.IsEventGroupLinkedToReport(ctx, reportId, eventGroupId)
		if err != nil {
			respondError(c, "getReportModifierEventGroup", err)
			return
		}
		if !linked {
			respondError(c, "getReportModifierEventGroup", utils.NotFoundf("Event group is not linked to this report"))
			return
		}
		c.JSON(http.StatusOK, reportWithModifierAndEventGroup{
			Report:     report.Info(),
			Modifier:   modifier.Info(),
			EventGroup: groupWithEvents(group),
		})
	}
}
