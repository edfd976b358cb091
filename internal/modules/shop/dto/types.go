package dto

import "time"

type ItemOutput struct {
	Type     string
	Name     string
	Price    int
	Owned    bool
	Equipped bool
}

type PurchaseInput struct {
	UserID   string
	Date     time.Time
	ItemType string
	Name     string
}

type PurchaseOutput struct {
	Item    ItemOutput
	Balance int
}

type EquipInput struct {
	UserID   string
	Date     time.Time
	ItemType string
	Name     string
}

type EquipOutput struct {
	Theme  string
	Sound  string
	Mascot string
}
