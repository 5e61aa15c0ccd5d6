package main

import (
	"net/http"

	"github.com/RichardToddFidelis/reporting-backend/models"
	"github.com/gin-gonic/gin"
)

func createRingEventHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewRingEvent
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, "createRingEvent", err)
			return
		}
		event, err := models.CreateRingEvent(c.Request.Context(), &input)
		if err != nil {
			respondError(c, "createRingEvent", err)
			return
		}
		c.JSON(http.StatusCreated, event)
	}
}

func createBoxEventHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewBoxEvent
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, "createBoxEvent", err)
			return
		}
		event, err := models.CreateBoxEvent(c.Request.Context(), &input)
		if err != nil {
			respondError(c, "createBoxEvent", err)
			return
		}
		c.JSON(http.StatusCreated, event)
	}
}

func createGeoEventHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewGeoEvent
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, "createGeoEvent", err)
			return
		}
		event, err := models.CreateGeoEvent(c.Request.Context(), &input)
		if err != nil {
			respondError(c, "createGeoEvent", err)
			return
		}
		c.JSON(http.StatusCreated, event)
	}
}

func getEventHandler(eventType models.EventType) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathId(c, "id")
		if err != nil {
			respondError(c, "getEvent", err)
			return
		}
		event, err := models.GetEventByType(c.Request.Context(), id, eventType)
		if err != nil {
			respondError(c, "getEvent", err)
			return
		}
		c.JSON(http.StatusOK, event)
	}
}

func listEventsHandler(eventType models.EventType) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, perPage, err := pageParams(c)
		if err != nil {
			respondError(c, "listEvents", err)
			return
		}
		result, err := models.ListEventsByType(c.Request.Context(), eventType, page, perPage)
		if err != nil {
			respondError(c, "listEvents", err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func createEventGroupHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewEventGroup
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, "createEventGroup", err)
			return
		}
		group, err := models.CreateEventGroup(c.Request.Context(), &input)
		if err != nil {
			respondError(c, "createEventGroup", err)
			return
		}
		c.JSON(http.StatusCreated, group.Info())
	}
}

func getEventGroupHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathId(c, "id")
		if err != nil {
			respondError(c, "getEventGroup", err)
			return
		}
		group, err := models.GetEventGroup(c.Request.Context(), id)
		if err != nil {
			respondError(c, "getEventGroup", err)
			return
		}
		c.JSON(http.StatusOK, group.Info())
	}
}

func listEventGroupsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		page, perPage, err := pageParams(c)
		if err != nil {
			respondError(c, "listEventGroups", err)
			return
		}
		result, err := models.ListEventGroups(c.Request.Context(), page, perPage)
		if err != nil {
			respondError(c, "listEventGroups", err)
			return
		}
		items := make([]*models.EventGroupInfo, 0, len(result.Items))
		for _, group := range result.Items {
			items = append(items, group.Info())
		}
		c.JSON(http.StatusOK, models.PaginatedResult[*models.EventGroupInfo]{
			Items:      items,
			Total:      result.Total,
			Page:       result.Page,
			PerPage:    result.PerPage,
			TotalPages: result.TotalPages,
		})
	}
}

type assignGroupsRequest struct {
	GroupIds []int `json:"group_ids" binding:"required"`
}

func assignEventGroupsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathId(c, "id")
		if err != nil {
			respondError(c, "assignEventGroups", err)
			return
		}
		var input assignGroupsRequest
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, "assignEventGroups", err)
			return
		}
		event, groupIds, err := models.AssignEventToGroups(c.Request.Context(), id, input.GroupIds)
		if err != nil {
			respondError(c, "assignEventGroups", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"event_id":  event.ID,
			"group_ids": groupIds,
		})
	}
}
