package models

import (
	"context"
	"time"

	"github.com/RichardToddFidelis/reporting-backend/config"
	"github.com/RichardToddFidelis/reporting-backend/utils"
	"gorm.io/gorm"
)

// Event is stored as a single table; Type selects which variant columns
// are populated (ring coordinates, box bounds or geo names).
type Event struct {
	ID          int       `gorm:"primary_key" json:"id"`
	Type        EventType `gorm:"size:10;not null;index" json:"-"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"size:255;not null" json:"description"`
	IsValid     *bool     `gorm:"not null;default:true" json:"is_valid"`

	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Radius    *float64 `json:"radius,omitempty"`

	MaxLat *float64 `json:"max_lat,omitempty"`
	MinLat *float64 `json:"min_lat,omitempty"`
	MaxLon *float64 `json:"max_lon,omitempty"`
	MinLon *float64 `json:"min_lon,omitempty"`

	Country  *string `gorm:"size:255" json:"country,omitempty"`
	Area     *string `gorm:"size:255" json:"area,omitempty"`
	Subarea  *string `gorm:"size:255" json:"subarea,omitempty"`
	Subarea2 *string `gorm:"size:255" json:"subarea2,omitempty"`

	Groups []*EventGroup `gorm:"many2many:event_group_events" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated"`
}

// eventCacheEntry carries the type discriminator beside the row: the
// model's own json:"-" tag would drop it from the cached value.
type eventCacheEntry struct {
	Event *Event    `json:"event"`
	Type  EventType `json:"type"`
}

type NewRingEvent struct {
	Name        string   `json:"name" binding:"required,max=255"`
	Description string   `json:"description" binding:"required,max=255"`
	IsValid     *bool    `json:"is_valid"`
	Latitude    *float64 `json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude   *float64 `json:"longitude" binding:"required,gte=-180,lte=180"`
	Radius      *float64 `json:"radius" binding:"required,gte=0"`
}

type NewBoxEvent struct {
	Name        string   `json:"name" binding:"required,max=255"`
	Description string   `json:"description" binding:"required,max=255"`
	IsValid     *bool    `json:"is_valid"`
	MaxLat      *float64 `json:"max_lat" binding:"required,gte=-90,lte=90"`
	MinLat      *float64 `json:"min_lat" binding:"required,gte=-90,lte=90"`
	MaxLon      *float64 `json:"max_lon" binding:"required,gte=-180,lte=180"`
	MinLon      *float64 `json:"min_lon" binding:"required,gte=-180,lte=180"`
}

func (input *NewBoxEvent) validate() error {
	if *input.MaxLat <= *input.MinLat {
		return utils.Validationf("max_lat must be greater than min_lat")
	}
	if *input.MaxLon <= *input.MinLon {
		return utils.Validationf("max_lon must be greater than min_lon")
	}
	return nil
}

type NewGeoEvent struct {
	Name        string  `json:"name" binding:"required,max=255"`
	Description string  `json:"description" binding:"required,max=255"`
	IsValid     *bool   `json:"is_valid"`
	Country     *string `json:"country" binding:"omitempty,max=255"`
	Area        *string `json:"area" binding:"omitempty,max=255"`
	Subarea     *string `json:"subarea" binding:"omitempty,max=255"`
	Subarea2    *string `json:"subarea2" binding:"omitempty,max=255"`
}

func isValidOrDefault(isValid *bool) *bool {
	if isValid == nil {
		return utils.NewTrue()
	}
	return isValid
}

func CreateRingEvent(ctx context.Context, input *NewRingEvent) (*Event, error) {
	db := config.GetDB()
	event := Event{
		Type:        EventTypeRing,
		Name:        input.Name,
		Description: input.Description,
		IsValid:     isValidOrDefault(input.IsValid),
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		Radius:      input.Radius,
	}
	if err := db.WithContext(ctx).Create(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func CreateBoxEvent(ctx context.Context, input *NewBoxEvent) (*Event, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	db := config.GetDB()
	event := Event{
		Type:        EventTypeBox,
		Name:        input.Name,
		Description: input.Description,
		IsValid:     isValidOrDefault(input.IsValid),
		MaxLat:      input.MaxLat,
		MinLat:      input.MinLat,
		MaxLon:      input.MaxLon,
		MinLon:      input.MinLon,
	}
	if err := db.WithContext(ctx).Create(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func CreateGeoEvent(ctx context.Context, input *NewGeoEvent) (*Event, error) {
	db := config.GetDB()
	event := Event{
		Type:        EventTypeGeo,
		Name:        input.Name,
		Description: input.Description,
		IsValid:     isValidOrDefault(input.IsValid),
		Country:     input.Country,
		Area:        input.Area,
		Subarea:     input.Subarea,
		Subarea2:    input.Subarea2,
	}
	if err := db.WithContext(ctx).Create(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// GetEventByType fetches one event of the given variant, redis first then db.
// (may return RecordNotFound error)
func GetEventByType(ctx context.Context, id int, eventType EventType) (*Event, error) {
	cached, err := utils.RetrieveRedis[eventCacheEntry](id)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		if cached.Type != eventType {
			return nil, utils.ErrorRecordNotFound
		}
		event := cached.Event
		event.Type = cached.Type
		return event, nil
	}

	db := config.GetDB()
	var event Event
	if err := db.WithContext(ctx).
		Where("type = ?", eventType).
		First(&event, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	entry := eventCacheEntry{Event: &event, Type: event.Type}
	if err := utils.StoreRedis[eventCacheEntry](&entry, event.ID); err != nil {
		return nil, err
	}
	return &event, nil
}

func ListEventsByType(ctx context.Context, eventType EventType, page, perPage int) (*PaginatedResult[*Event], error) {
	db := config.GetDB()
	query := db.Model(&Event{}).Where("type = ?", eventType)
	return Paginate[Event](ctx, query, page, perPage)
}

// AssignEventToGroups links one event into each of the given groups.
// Groups the event is already a member of are left as-is.
func AssignEventToGroups(ctx context.Context, eventId int, groupIds []int) (*Event, []int, error) {
	db := config.GetDB()

	var event Event
	if err := db.WithContext(ctx).First(&event, eventId).Error; err != nil {
		return nil, nil, utils.ErrorRecordNotFound
	}

	unqIds := utils.UniqueSlice(groupIds)
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		missing, err := utils.MissingIds[EventGroup](ctx, tx, unqIds)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return utils.Validationf("One or more event group IDs are invalid")
		}

		groups := make([]*EventGroup, 0, len(unqIds))
		for _, id := range unqIds {
			groups = append(groups, &EventGroup{ID: id})
		}
		return tx.Model(&event).Association("Groups").Append(groups)
	})
	if err != nil {
		return nil, nil, err
	}

	for _, id := range unqIds {
		if err := utils.RemoveRedis[eventGroupCacheEntry](id); err != nil {
			return nil, nil, err
		}
	}

	var linkedGroupIds []int
	if err := db.WithContext(ctx).Table("event_group_events").
		Where("event_id = ?", eventId).
		Order("event_group_id").
		Pluck("event_group_id", &linkedGroupIds).Error; err != nil {
		return nil, nil, err
	}
	return &event, linkedGroupIds, nil
}
