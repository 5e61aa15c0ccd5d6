package models

import (
	"context"
	"time"

	"github.com/RichardToddFidelis/reporting-backend/config"
	"github.com/RichardToddFidelis/reporting-backend/utils"
	"gorm.io/gorm"
)

type EventGroup struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"size:255" json:"name"`
	Events    []*Event  `gorm:"many2many:event_group_events" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated"`
}

type NewEventGroup struct {
	Name     string `json:"name" binding:"omitempty,max=255"`
	EventIds []int  `json:"event_ids" binding:"required"`
}

// eventGroupCacheEntry carries the member events beside the row: the
// association is json:"-" on the model and would vanish from the cache.
type eventGroupCacheEntry struct {
	Group  *EventGroup `json:"group"`
	Events []*Event    `json:"events"`
}

// EventGroupInfo is the wire shape for a group: member ids, not rows.
type EventGroupInfo struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	EventIds []int  `json:"event_ids"`
	Created  string `json:"created"`
	Updated  string `json:"updated"`
}

// Info converts for responses. Events must be preloaded.
func (g *EventGroup) Info() *EventGroupInfo {
	eventIds := make([]int, 0, len(g.Events))
	for _, event := range g.Events {
		eventIds = append(eventIds, event.ID)
	}
	return &EventGroupInfo{
		ID:       g.ID,
		Name:     g.Name,
		EventIds: eventIds,
		Created:  g.CreatedAt.UTC().Format(time.RFC3339),
		Updated:  g.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func CreateEventGroup(ctx context.Context, input *NewEventGroup) (*EventGroup, error) {
	db := config.GetDB()
	unqIds := utils.UniqueSlice(input.EventIds)

	var group EventGroup
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		missing, err := utils.MissingIds[Event](ctx, tx, unqIds)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return utils.Validationf("One or more event IDs are invalid")
		}

		group = EventGroup{Name: input.Name}
		if err := tx.Create(&group).Error; err != nil {
			return err
		}
		if len(unqIds) > 0 {
			events := make([]*Event, 0, len(unqIds))
			for _, id := range unqIds {
				events = append(events, &Event{ID: id})
			}
			if err := tx.Model(&group).Association("Events").Append(events); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return GetEventGroup(ctx, group.ID)
}

// GetEventGroup fetches one group with its member events, redis first then db.
// (may return RecordNotFound error)
func GetEventGroup(ctx context.Context, id int) (*EventGroup, error) {
	cached, err := utils.RetrieveRedis[eventGroupCacheEntry](id)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		group := cached.Group
		group.Events = cached.Events
		return group, nil
	}

	db := config.GetDB()
	var group EventGroup
	if err := db.WithContext(ctx).Preload("Events").
		First(&group, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	entry := eventGroupCacheEntry{Group: &group, Events: group.Events}
	if err := utils.StoreRedis[eventGroupCacheEntry](&entry, group.ID); err != nil {
		return nil, err
	}
	return &group, nil
}

func ListEventGroups(ctx context.Context, page, perPage int) (*PaginatedResult[*EventGroup], error) {
	db := config.GetDB()
	query := db.Model(&EventGroup{}).Preload("Events")
	return Paginate[EventGroup](ctx, query, page, perPage)
}
