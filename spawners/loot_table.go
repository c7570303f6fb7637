package spawners

import (
	"math/rand"

	"ebiten-floors/data"
)

// LootTable defines a table of possible templates and their drop chances
type LootTable struct {
	Entries []LootTableEntry
}

// LootTableEntry represents a single entry in a loot table
type LootTableEntry struct {
	TemplateID string
	Weight     int
	MinCount   int
	MaxCount   int
}

// NewLootTable creates a new loot table
func NewLootTable(entries []LootTableEntry) *LootTable {
	return &LootTable{
		Entries: entries,
	}
}

// ItemLootTable builds a table from every item template with a spawn weight,
// dropping one of each on a hit
func ItemLootTable(templates *data.TemplateManager) *LootTable {
	var entries []LootTableEntry
	for _, t := range templates.ItemsByID() {
		if t.SpawnWeight > 0 {
			entries = append(entries, LootTableEntry{TemplateID: t.ID, Weight: t.SpawnWeight, MinCount: 1, MaxCount: 1})
		}
	}
	return NewLootTable(entries)
}

// MonsterTable builds a table from the entity templates tagged "enemy"
func MonsterTable(templates *data.TemplateManager) *LootTable {
	var entries []LootTableEntry
	for _, t := range templates.EntitiesTagged("enemy") {
		if t.SpawnWeight > 0 {
			entries = append(entries, LootTableEntry{TemplateID: t.ID, Weight: t.SpawnWeight, MinCount: 1, MaxCount: 1})
		}
	}
	return NewLootTable(entries)
}

func (lt *LootTable) totalWeight() int {
	total := 0
	for _, entry := range lt.Entries {
		total += max(entry.Weight, 0)
	}
	return total
}

// Roll gives every entry its own chance of weight/total and returns the
// template ids of everything that dropped
func (lt *LootTable) Roll(rng *rand.Rand) []string {
	total := lt.totalWeight()
	if total == 0 {
		return nil
	}

	var ids []string
	for _, entry := range lt.Entries {
		if rng.Intn(total) >= entry.Weight {
			continue
		}
		count := entry.MinCount
		if entry.MaxCount > entry.MinCount {
			count += rng.Intn(entry.MaxCount - entry.MinCount + 1)
		}
		for i := 0; i < count; i++ {
			ids = append(ids, entry.TemplateID)
		}
	}
	return ids
}

// Pick chooses exactly one entry by weight
func (lt *LootTable) Pick(rng *rand.Rand) (string, bool) {
	total := lt.totalWeight()
	if total == 0 {
		return "", false
	}
	roll := rng.Intn(total)
	for _, entry := range lt.Entries {
		w := max(entry.Weight, 0)
		if roll < w {
			return entry.TemplateID, true
		}
		roll -= w
	}
	return "", false
}
