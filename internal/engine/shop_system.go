package engine

import (
	"github.com/MRamiBalles/fatsim/server/internal/domain/game"
	"github.com/MRamiBalles/fatsim/server/internal/domain/item"
	"github.com/MRamiBalles/fatsim/server/internal/domain/rules"
)

// BuyCosmetic equips a hairstyle or clothing, or adds an accessory to the set.
// Buying an owned accessory still costs calories.
func BuyCosmetic(s game.State, c item.Cosmetic) game.State {
	if s.Currency.Calories < c.Price {
		return s
	}

	next := s.Clone()
	next.Currency.Calories -= c.Price

	switch c.Type {
	case item.CosmeticHairstyle:
		next.Cosmetics.Hairstyle = c.ID
	case item.CosmeticClothing:
		next.Cosmetics.Clothing = c.ID
	case item.CosmeticAccessory:
		if !next.Cosmetics.HasAccessory(c.ID) {
			next.Cosmetics.Accessories = append(next.Cosmetics.Accessories, c.ID)
		}
	}
	return next
}

// BuyUpgrade pays the current price of an upgrade and applies it.
func BuyUpgrade(s game.State, u item.Upgrade) game.State {
	price := rules.UpgradePrice(s, u)
	if s.Currency.Calories < price {
		return s
	}

	next := s.Clone()
	next.Currency.Calories -= price

	switch u.Effect {
	case item.EffectClickPower:
		next.Character.ClickPower *= 2
	case item.EffectClickMultiplier:
		next.Upgrades.ClickMultiplier++
	case item.EffectAutoEater:
		next.Upgrades.AutoEater++
	case item.EffectMetabolismBooster:
		next.Upgrades.MetabolismBooster++
	case item.EffectHappinessMultiplier:
		next.Upgrades.HappinessMultiplier++
	}
	return next
}

// UpgradePrice exposes the current price of an upgrade for shop listings.
func UpgradePrice(s game.State, u item.Upgrade) float64 {
	return rules.UpgradePrice(s, u)
}
