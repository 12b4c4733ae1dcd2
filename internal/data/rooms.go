package data

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// RoomEntry is one room of the adventure map.
type RoomEntry struct {
	Key         string            `yaml:"key"`
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Exits       map[string]string `yaml:"exits"` // direction -> room key
}

// RoomTable holds every room in file order with lookup by key.
type RoomTable struct {
	rooms []*RoomEntry
	byKey map[string]*RoomEntry
}

type roomListFile struct {
	Rooms []RoomEntry `yaml:"rooms"`
}

// LoadRoomTable loads rooms.yaml and checks that every exit leads somewhere.
func LoadRoomTable(path string) (*RoomTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read room list: %w", err)
	}
	return ParseRoomTable(raw)
}

// ParseRoomTable builds a RoomTable from YAML bytes.
func ParseRoomTable(raw []byte) (*RoomTable, error) {
	var f roomListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse room list: %w", err)
	}
	t := &RoomTable{
		rooms: make([]*RoomEntry, 0, len(f.Rooms)),
		byKey: make(map[string]*RoomEntry, len(f.Rooms)),
	}
	for i := range f.Rooms {
		r := &f.Rooms[i]
		if r.Key == "" {
			return nil, fmt.Errorf("room #%d has no key", i)
		}
		if _, dup := t.byKey[r.Key]; dup {
			return nil, fmt.Errorf("duplicate room key %q", r.Key)
		}
		t.rooms = append(t.rooms, r)
		t.byKey[r.Key] = r
	}
	for _, r := range t.rooms {
		for _, dir := range r.Directions() {
			to := r.Exits[dir]
			if _, ok := t.byKey[to]; !ok {
				return nil, fmt.Errorf("room %q: exit %s leads to unknown room %q", r.Key, dir, to)
			}
		}
	}
	return t, nil
}

// Get returns a room by key, or nil if not found.
func (t *RoomTable) Get(key string) *RoomEntry {
	return t.byKey[key]
}

// All returns the rooms in file order.
func (t *RoomTable) All() []*RoomEntry {
	return t.rooms
}

// Count returns the number of rooms loaded.
func (t *RoomTable) Count() int {
	return len(t.rooms)
}

// Directions returns the exit names of a room, sorted.
func (r *RoomEntry) Directions() []string {
	dirs := make([]string, 0, len(r.Exits))
	for d := range r.Exits {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	return dirs
}
