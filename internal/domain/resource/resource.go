package resource

import (
	"fmt"
	"strings"
	"time"
)

// Name identifies one mirrored collection.
type Name string

const (
	Categories   Name = "categories"
	Countries    Name = "countries"
	Competitions Name = "competitions"
	Teams        Name = "teams"
	Players      Name = "players"
	Coaches      Name = "coaches"
	Referees     Name = "referees"
	Venues       Name = "venues"
	Seasons      Name = "seasons"
	Stages       Name = "stages"
	Matches      Name = "matches"
)

type Kind string

const (
	KindEntity Kind = "entity"
	KindMatch  Kind = "match"
)

// RefreshPolicy decides what a full sync does with records the provider
// no longer returns.
type RefreshPolicy string

const (
	// RefreshDestructive clears the collection before a full walk.
	RefreshDestructive RefreshPolicy = "destructive"
	// RefreshAdditive keeps existing records and only upserts.
	RefreshAdditive RefreshPolicy = "additive"
)

func ParseRefreshPolicy(raw string) (RefreshPolicy, error) {
	switch RefreshPolicy(strings.ToLower(strings.TrimSpace(raw))) {
	case RefreshDestructive:
		return RefreshDestructive, nil
	case RefreshAdditive:
		return RefreshAdditive, nil
	default:
		return "", fmt.Errorf("invalid refresh policy %q: valid values are %s, %s", raw, RefreshDestructive, RefreshAdditive)
	}
}

// Descriptor is the static definition of a mirrored resource.
type Descriptor struct {
	Name     Name
	Kind     Kind
	Endpoint string
	Refresh  RefreshPolicy
	Interval time.Duration
	Enabled  bool
	// PageSize is the provider's page size; an incremental delta of this
	// size may have been cut short.
	PageSize int
}

func (d Descriptor) Table() string {
	return string(d.Name)
}

// Defaults returns the built-in resource catalog in sync order.
func Defaults(interval time.Duration) []Descriptor {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	entity := func(name Name, endpoint string, refresh RefreshPolicy) Descriptor {
		return Descriptor{
			Name:     name,
			Kind:     KindEntity,
			Endpoint: endpoint,
			Refresh:  refresh,
			Interval: interval,
			Enabled:  true,
			PageSize: 1000,
		}
	}

	return []Descriptor{
		entity(Categories, "category/list", RefreshAdditive),
		entity(Countries, "country/list", RefreshAdditive),
		entity(Competitions, "competition/additional/list", RefreshAdditive),
		entity(Teams, "team/additional/list", RefreshDestructive),
		entity(Players, "player/with_stat/list", RefreshAdditive),
		entity(Coaches, "coach/list", RefreshAdditive),
		entity(Referees, "referee/list", RefreshDestructive),
		entity(Venues, "venue/list", RefreshAdditive),
		entity(Seasons, "season/list", RefreshAdditive),
		entity(Stages, "stage/list", RefreshAdditive),
		{
			Name:     Matches,
			Kind:     KindMatch,
			Endpoint: "match/recent/list",
			Refresh:  RefreshAdditive,
			Interval: interval,
			Enabled:  true,
			PageSize: 1000,
		},
	}
}

func ParseName(raw string) (Name, bool) {
	candidate := Name(strings.ToLower(strings.TrimSpace(raw)))
	for _, item := range Defaults(0) {
		if item.Name == candidate {
			return candidate, true
		}
	}
	return "", false
}

// IsCatalog reports whether the name is one of the entity collections.
func IsCatalog(name Name) bool {
	for _, item := range Defaults(0) {
		if item.Name == name {
			return item.Kind == KindEntity
		}
	}
	return false
}
