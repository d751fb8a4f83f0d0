// Package gacha implements the rarity-weighted draw used by the pull/roll
// mechanic. Selection probability (operator-configured weights) is kept
// separate from population count (how many collectibles each rarity has), so
// drop rates can be tuned independently of how many photos exist per tier.
package gacha

import (
	"math/rand"

	"github.com/Shobuki/gfchristmastwebsite/models"
)

// Weights maps each rarity to its non-negative draw weight. Missing rarities
// weigh zero.
type Weights map[models.Rarity]int

func (w Weights) of(r models.Rarity) int {
	weight := w[r]
	if weight < 0 {
		return 0
	}
	return weight
}

// AvailableRarities returns, in canonical order, the rarities that currently
// have at least one collectible item.
func AvailableRarities(itemsByRarity map[models.Rarity][]models.GachaItem) []models.Rarity {
	var available []models.Rarity
	for _, r := range models.RarityOrder {
		if len(itemsByRarity[r]) > 0 {
			available = append(available, r)
		}
	}
	return available
}

// DrawRarity performs a weighted random selection over the available rarities.
// The draw walks the rarities in canonical order subtracting weights until the
// roll lands in an interval. A zero total weight degrades to the first
// available rarity; an empty available set degrades to common. It never fails.
func DrawRarity(rng *rand.Rand, weights Weights, available []models.Rarity) models.Rarity {
	if len(available) == 0 {
		return models.RarityCommon
	}
	total := 0
	for _, r := range available {
		total += weights.of(r)
	}
	if total <= 0 {
		return available[0]
	}
	roll := rng.Float64() * float64(total)
	for _, r := range available {
		weight := float64(weights.of(r))
		if roll < weight {
			return r
		}
		roll -= weight
	}
	return available[0]
}

// PickItem selects uniformly at random within a rarity's item pool.
func PickItem(rng *rand.Rand, pool []models.GachaItem) (models.GachaItem, bool) {
	if len(pool) == 0 {
		return models.GachaItem{}, false
	}
	return pool[rng.Intn(len(pool))], true
}

// GroupByRarity buckets items for AvailableRarities and PickItem.
func GroupByRarity(items []models.GachaItem) map[models.Rarity][]models.GachaItem {
	byRarity := make(map[models.Rarity][]models.GachaItem, len(models.RarityOrder))
	for _, item := range items {
		byRarity[item.Rarity] = append(byRarity[item.Rarity], item)
	}
	return byRarity
}
