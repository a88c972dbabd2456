package catalog

import (
	"sort"

	"cravecart/internal/domain"
	"cravecart/internal/pricing"
)

const topDishCount = 3

// MergePage appends the incoming cuisines whose ids are not already present,
// preserving incoming order. anyNew=false tells the caller the page
// contributed nothing and pagination can stop.
func MergePage(existing, incoming []domain.Cuisine) ([]domain.Cuisine, bool) {
	seen := make(map[string]struct{}, len(existing))
	for _, cuisine := range existing {
		seen[cuisine.ID] = struct{}{}
	}

	merged := existing
	anyNew := false
	for _, cuisine := range incoming {
		if _, ok := seen[cuisine.ID]; ok {
			continue
		}
		seen[cuisine.ID] = struct{}{}
		merged = append(merged, cuisine)
		anyNew = true
	}
	return merged, anyNew
}

// DedupCuisines keeps the first occurrence per cuisine id, preserving order.
func DedupCuisines(cuisines []domain.Cuisine) []domain.Cuisine {
	seen := make(map[string]struct{}, len(cuisines))
	unique := make([]domain.Cuisine, 0, len(cuisines))
	for _, cuisine := range cuisines {
		if _, ok := seen[cuisine.ID]; ok {
			continue
		}
		seen[cuisine.ID] = struct{}{}
		unique = append(unique, cuisine)
	}
	return unique
}

// TopDishes ranks the dishes across the sampled cuisines and returns at most
// three, highest rating first. When the sample yields nothing the fallback
// cuisines are ranked instead. This is a sample-based heuristic, not a
// global maximum.
func TopDishes(sampled, fallback []domain.Cuisine) []domain.MenuItem {
	top := rankDishes(sampled)
	if len(top) == 0 {
		top = rankDishes(fallback)
	}
	return top
}

// rankDishes flattens all items, dedups by item id keeping the first
// occurrence, and stable-sorts by rating so ties keep flatten order.
func rankDishes(cuisines []domain.Cuisine) []domain.MenuItem {
	seen := make(map[string]struct{})
	var dishes []domain.MenuItem
	for _, cuisine := range cuisines {
		for _, item := range cuisine.Items {
			if _, ok := seen[item.ID]; ok {
				continue
			}
			seen[item.ID] = struct{}{}
			dishes = append(dishes, item)
		}
	}

	sort.SliceStable(dishes, func(i, j int) bool {
		return pricing.Rating(dishes[i].Rating) > pricing.Rating(dishes[j].Rating)
	})

	if len(dishes) > topDishCount {
		dishes = dishes[:topDishCount]
	}
	return dishes
}
