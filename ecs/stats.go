package ecs

import "reflect"

// StorageStats is a point-in-time summary of a ComponentStorage.
type StorageStats struct {
	TypeCount   int
	TotalSlots  int
	TotalFilled int
	Types       []TypeStats
}

// TypeStats describes the array of a single component type.
type TypeStats struct {
	Type   reflect.Type
	Name   string
	Len    int
	Count  int
	Blocks int
}

// CollectStats gathers per-type array statistics, ordered by type name.
func (s *ComponentStorage) CollectStats() *StorageStats {
	stats := &StorageStats{
		TypeCount: s.registry.len(),
		Types:     make([]TypeStats, 0, s.registry.len()),
	}

	s.registry.each(func(arr iComponentArray) {
		stats.Types = append(stats.Types, TypeStats{
			Type:   arr.Type(),
			Name:   arr.Type().String(),
			Len:    arr.Len(),
			Count:  arr.Count(),
			Blocks: arr.Blocks(),
		})
		stats.TotalSlots += arr.Len()
		stats.TotalFilled += arr.Count()
	})

	return stats
}
