// internal/models/menu.go
package models

type MenuItem struct {
	ItemID         string          `json:"item_id" yaml:"item_id"`
	Name           string          `json:"name" yaml:"name"`
	Description    string          `json:"description" yaml:"description"`
	Price          int             `json:"price" yaml:"price"` // smallest currency unit
	HasStapleFood  bool            `json:"has_staple_food" yaml:"has_staple_food"`
	IsAlcohol      bool            `json:"is_alcohol" yaml:"is_alcohol"`
	Allergens      []Allergen      `json:"allergens" yaml:"allergens"`
	CustomizeItems []CustomizeItem `json:"customize_items,omitempty" yaml:"customize_items,omitempty"`
}

type CustomizeItem struct {
	ItemID string `json:"item_id" yaml:"item_id"`
	Name   string `json:"name" yaml:"name"`
	Price  int    `json:"price" yaml:"price"`
}

type Allergen string

const (
	AllergenCrab   Allergen = "ALLERGEN_TYPE_CRAB"
	AllergenEgg    Allergen = "ALLERGEN_TYPE_EGG"
	AllergenMilk   Allergen = "ALLERGEN_TYPE_MILK"
	AllergenShrimp Allergen = "ALLERGEN_TYPE_SHRIMP"
	AllergenWheat  Allergen = "ALLERGEN_TYPE_WHEAT"
)

type AllergenInfo struct {
	Label string   `json:"label"`
	Value Allergen `json:"value"`
}

var AllergenMetadata = map[Allergen]AllergenInfo{
	AllergenCrab:   {Label: "カニ", Value: AllergenCrab},
	AllergenEgg:    {Label: "卵", Value: AllergenEgg},
	AllergenMilk:   {Label: "乳", Value: AllergenMilk},
	AllergenShrimp: {Label: "エビ", Value: AllergenShrimp},
	AllergenWheat:  {Label: "小麦", Value: AllergenWheat},
}

// Label returns the display label, or the raw value for unknown allergens.
func (a Allergen) Label() string {
	if info, ok := AllergenMetadata[a]; ok {
		return info.Label
	}
	return string(a)
}

// Known reports whether a is one of the labeled allergen types.
func (a Allergen) Known() bool {
	_, ok := AllergenMetadata[a]
	return ok
}
