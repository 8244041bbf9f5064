// Package item defines the static shop catalogs: food, cosmetics, upgrades and achievements.
// This package is PURE and must NOT import any infrastructure packages.
package item

// FoodCategory groups food items in the shop.
type FoodCategory string

const (
	CategoryHealthy FoodCategory = "healthy"
	CategoryJunk    FoodCategory = "junk"
	CategoryDessert FoodCategory = "dessert"
)

// CosmeticType decides which cosmetic slot an item fills.
type CosmeticType string

const (
	CosmeticHairstyle CosmeticType = "hairstyle"
	CosmeticClothing  CosmeticType = "clothing"
	CosmeticAccessory CosmeticType = "accessory"
)

// UpgradeEffect names the stat an upgrade raises.
type UpgradeEffect string

const (
	EffectClickPower          UpgradeEffect = "clickPower"
	EffectClickMultiplier     UpgradeEffect = "clickMultiplier"
	EffectAutoEater           UpgradeEffect = "autoEater"
	EffectMetabolismBooster   UpgradeEffect = "metabolismBooster"
	EffectHappinessMultiplier UpgradeEffect = "happinessMultiplier"
)

// Food is something the character can eat. Effects are applied once per purchase.
type Food struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Emoji           string       `json:"emoji"`
	Category        FoodCategory `json:"category"`
	WeightGain      float64      `json:"weightGain"`
	HealthEffect    float64      `json:"healthEffect"`
	HappinessEffect float64      `json:"happinessEffect"`
	EnergyEffect    float64      `json:"energyEffect"`
	Price           float64      `json:"price"`
}

// Cosmetic is a purchasable look.
type Cosmetic struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	Type  CosmeticType `json:"type"`
	Price float64      `json:"price"`
	Emoji string       `json:"emoji,omitempty"`
}

// Upgrade is a permanent boost. Price is the baseline before level scaling.
type Upgrade struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Icon        string        `json:"icon"`
	Price       float64       `json:"price"`
	Effect      UpgradeEffect `json:"effect"`
}

// AchievementKind selects the progress rule of an achievement.
type AchievementKind string

const (
	KindClicks AchievementKind = "clicks"
	KindWeight AchievementKind = "weight"
)

// AchievementDef is the immutable part of an achievement.
type AchievementDef struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Kind        AchievementKind `json:"kind"`
	Requirement float64         `json:"requirement"`
	Reward      float64         `json:"reward"`
}

// Foods lists every food in shop order.
var Foods = []Food{
	// Healthy
	{ID: "salad", Name: "Salad", Emoji: "🥗", Category: CategoryHealthy, WeightGain: 5, HealthEffect: 10, HappinessEffect: 0, EnergyEffect: 5, Price: 50},
	{ID: "apple", Name: "Apple", Emoji: "🍎", Category: CategoryHealthy, WeightGain: 3, HealthEffect: 8, HappinessEffect: 2, EnergyEffect: 3, Price: 30},
	{ID: "carrot", Name: "Carrot", Emoji: "🥕", Category: CategoryHealthy, WeightGain: 2, HealthEffect: 6, HappinessEffect: 1, EnergyEffect: 2, Price: 25},
	{ID: "broccoli", Name: "Broccoli", Emoji: "🥦", Category: CategoryHealthy, WeightGain: 4, HealthEffect: 12, HappinessEffect: -2, EnergyEffect: 4, Price: 40},

	// Junk
	{ID: "burger", Name: "Burger", Emoji: "🍔", Category: CategoryJunk, WeightGain: 15, HealthEffect: -5, HappinessEffect: 8, EnergyEffect: -3, Price: 100},
	{ID: "pizza", Name: "Pizza", Emoji: "🍕", Category: CategoryJunk, WeightGain: 20, HealthEffect: -8, HappinessEffect: 10, EnergyEffect: -5, Price: 150},
	{ID: "fries", Name: "Fries", Emoji: "🍟", Category: CategoryJunk, WeightGain: 12, HealthEffect: -3, HappinessEffect: 6, EnergyEffect: -2, Price: 80},
	{ID: "hotdog", Name: "Hot Dog", Emoji: "🌭", Category: CategoryJunk, WeightGain: 18, HealthEffect: -6, HappinessEffect: 7, EnergyEffect: -4, Price: 120},
	{ID: "taco", Name: "Taco", Emoji: "🌮", Category: CategoryJunk, WeightGain: 14, HealthEffect: -4, HappinessEffect: 8, EnergyEffect: -2, Price: 90},
	{ID: "chicken", Name: "Fried Chicken", Emoji: "🍗", Category: CategoryJunk, WeightGain: 22, HealthEffect: -7, HappinessEffect: 9, EnergyEffect: -3, Price: 140},

	// Desserts
	{ID: "cake", Name: "Cake", Emoji: "🍰", Category: CategoryDessert, WeightGain: 30, HealthEffect: -10, HappinessEffect: 15, EnergyEffect: 5, Price: 200},
	{ID: "cookie", Name: "Cookie", Emoji: "🍪", Category: CategoryDessert, WeightGain: 8, HealthEffect: -2, HappinessEffect: 5, EnergyEffect: 2, Price: 60},
	{ID: "donut", Name: "Donut", Emoji: "🍩", Category: CategoryDessert, WeightGain: 25, HealthEffect: -8, HappinessEffect: 12, EnergyEffect: 3, Price: 180},
	{ID: "icecream", Name: "Ice Cream", Emoji: "🍦", Category: CategoryDessert, WeightGain: 22, HealthEffect: -6, HappinessEffect: 10, EnergyEffect: 4, Price: 160},
	{ID: "chocolate", Name: "Chocolate", Emoji: "🍫", Category: CategoryDessert, WeightGain: 16, HealthEffect: -4, HappinessEffect: 8, EnergyEffect: 6, Price: 120},
	{ID: "candy", Name: "Candy", Emoji: "🍬", Category: CategoryDessert, WeightGain: 10, HealthEffect: -3, HappinessEffect: 6, EnergyEffect: 8, Price: 70},
}

// Cosmetics lists every cosmetic in shop order.
var Cosmetics = []Cosmetic{
	{ID: "short-hair", Name: "Short Hair", Type: CosmeticHairstyle, Price: 200},
	{ID: "long-hair", Name: "Long Hair", Type: CosmeticHairstyle, Price: 250},
	{ID: "curly-hair", Name: "Curly Hair", Type: CosmeticHairstyle, Price: 300},
	{ID: "spiky-hair", Name: "Spiky Hair", Type: CosmeticHairstyle, Price: 280},
	{ID: "bald", Name: "Bald", Type: CosmeticHairstyle, Price: 150},

	{ID: "tshirt", Name: "T-Shirt", Type: CosmeticClothing, Price: 150, Emoji: "👕"},
	{ID: "suit", Name: "Suit", Type: CosmeticClothing, Price: 500, Emoji: "👔"},
	{ID: "dress", Name: "Dress", Type: CosmeticClothing, Price: 300, Emoji: "👗"},
	{ID: "jeans", Name: "Jeans", Type: CosmeticClothing, Price: 200, Emoji: "👖"},
	{ID: "hoodie", Name: "Hoodie", Type: CosmeticClothing, Price: 250},
	{ID: "tank-top", Name: "Tank Top", Type: CosmeticClothing, Price: 120},
	{ID: "sweater", Name: "Sweater", Type: CosmeticClothing, Price: 280},
	{ID: "jacket", Name: "Jacket", Type: CosmeticClothing, Price: 350},

	{ID: "glasses", Name: "Glasses", Type: CosmeticAccessory, Price: 100, Emoji: "👓"},
	{ID: "hat", Name: "Hat", Type: CosmeticAccessory, Price: 120, Emoji: "🎩"},
	{ID: "sunglasses", Name: "Sunglasses", Type: CosmeticAccessory, Price: 150, Emoji: "🕶️"},
	{ID: "watch", Name: "Watch", Type: CosmeticAccessory, Price: 200, Emoji: "⌚"},
}

// Upgrades lists every upgrade. The click-multiplier item doubles click power
// rather than raising the clickMultiplier level.
var Upgrades = []Upgrade{
	{ID: "click-multiplier", Name: "Click Multiplier", Description: "Doubles your click power", Icon: "fas fa-mouse-pointer", Price: 1000, Effect: EffectClickPower},
	{ID: "auto-eater", Name: "Auto Eater", Description: "Automatically gains weight per second", Icon: "fas fa-robot", Price: 2000, Effect: EffectAutoEater},
	{ID: "metabolism-booster", Name: "Metabolism Booster", Description: "Improves health regeneration", Icon: "fas fa-heart", Price: 1500, Effect: EffectMetabolismBooster},
	{ID: "happiness-multiplier", Name: "Happiness Multiplier", Description: "Increases happiness gain from food", Icon: "fas fa-smile", Price: 3000, Effect: EffectHappinessMultiplier},
}

// Achievements is the fixed achievement catalog.
var Achievements = []AchievementDef{
	{ID: "first-click", Description: "Click your character 10 times", Kind: KindClicks, Requirement: 10, Reward: 100},
	{ID: "chubby", Description: "Reach 200 lbs", Kind: KindWeight, Requirement: 200, Reward: 500},
	{ID: "heavyweight", Description: "Reach 300 lbs", Kind: KindWeight, Requirement: 300, Reward: 1500},
	{ID: "half-ton", Description: "Reach 1,000 lbs", Kind: KindWeight, Requirement: 1000, Reward: 5000},
	{ID: "colossal", Description: "Reach 10,000 lbs", Kind: KindWeight, Requirement: 10000, Reward: 25000},
}

var (
	foodIndex        = make(map[string]Food, len(Foods))
	cosmeticIndex    = make(map[string]Cosmetic, len(Cosmetics))
	upgradeIndex     = make(map[string]Upgrade, len(Upgrades))
	achievementIndex = make(map[string]AchievementDef, len(Achievements))
)

func init() {
	for _, f := range Foods {
		foodIndex[f.ID] = f
	}
	for _, c := range Cosmetics {
		cosmeticIndex[c.ID] = c
	}
	for _, u := range Upgrades {
		upgradeIndex[u.ID] = u
	}
	for _, a := range Achievements {
		achievementIndex[a.ID] = a
	}
}

// GetFood returns the food with the given id.
func GetFood(id string) (Food, bool) {
	f, ok := foodIndex[id]
	return f, ok
}

// GetCosmetic returns the cosmetic with the given id.
func GetCosmetic(id string) (Cosmetic, bool) {
	c, ok := cosmeticIndex[id]
	return c, ok
}

// GetUpgrade returns the upgrade with the given id.
func GetUpgrade(id string) (Upgrade, bool) {
	u, ok := upgradeIndex[id]
	return u, ok
}

// GetAchievement returns the catalog entry for an achievement id.
func GetAchievement(id string) (AchievementDef, bool) {
	a, ok := achievementIndex[id]
	return a, ok
}
