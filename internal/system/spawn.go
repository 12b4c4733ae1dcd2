package system

import (
	"fmt"

	"github.com/l1jgo/simcore/internal/component"
	"github.com/l1jgo/simcore/internal/core/ecs"
	"github.com/l1jgo/simcore/internal/data"
)

// SpawnRooms creates one entity per room, tags it with its key and links
// exits once every room exists. Returns room key -> entity.
func SpawnRooms(w *ecs.World, table *data.RoomTable) map[string]ecs.Entity {
	ids := make(map[string]ecs.Entity, table.Count())
	for _, r := range table.All() {
		e := w.Create()
		w.Tag(e, roomTag(r.Key))
		ids[r.Key] = e
	}
	for _, r := range table.All() {
		exits := make(map[string]ecs.Entity, len(r.Exits))
		for dir, to := range r.Exits {
			exits[dir] = ids[to]
		}
		ecs.Add(w, ids[r.Key], component.Room{
			Key:         r.Key,
			Name:        r.Name,
			Description: r.Description,
			Exits:       exits,
		})
	}
	return ids
}

// SpawnPlayer creates the console-controlled actor in room startKey.
func SpawnPlayer(w *ecs.World, startKey, tag string) (ecs.Entity, error) {
	room, ok := w.Lookup(roomTag(startKey))
	if !ok {
		return 0, fmt.Errorf("start room %q not found", startKey)
	}
	player := w.Create()
	w.Tag(player, tag)
	ecs.Add(w, player, component.Actor{Name: tag, Room: room})
	ecs.Add(w, player, component.Controlled{Source: "console"})
	if r, ok := ecs.GetMut[component.Room](w, room); ok {
		r.Occupants = append(r.Occupants, player)
	}
	return player, nil
}

func roomTag(key string) string { return "room:" + key }
