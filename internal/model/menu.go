package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Category groups menu items on the menu.
type Category string

const (
	CategoryAppetizer Category = "appetizer"
	CategoryMain      Category = "main"
	CategoryDessert   Category = "dessert"
	CategoryBeverage  Category = "beverage"
)

// Categories lists the valid categories in menu order.
var Categories = []Category{CategoryAppetizer, CategoryMain, CategoryDessert, CategoryBeverage}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryAppetizer, CategoryMain, CategoryDessert, CategoryBeverage:
		return true
	default:
		return false
	}
}

// ParseCategory normalises s and checks it against the known categories.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", Errorf(ErrCodeInvalidArgument, "invalid category %q", s)
	}
	return c, nil
}

// MaxPrice is the largest price a NUMERIC(10,2) column can hold.
var MaxPrice = decimal.RequireFromString("99999999.99")

// MenuItem represents a dish or drink on the restaurant menu.
type MenuItem struct {
	ID        int64           `json:"id" db:"id"`
	Name      string          `json:"name" db:"name"`
	Category  Category        `json:"category" db:"category"`
	Price     decimal.Decimal `json:"price" db:"price"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
}

// NewMenuItem builds a validated, not yet persisted menu item.
func NewMenuItem(name string, category Category, price decimal.Decimal) (*MenuItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewDomainError(ErrCodeInvalidArgument, "menu item name cannot be empty")
	}
	if !category.Valid() {
		return nil, Errorf(ErrCodeInvalidArgument, "invalid category %q", category)
	}
	rounded := price.Round(2)
	if !rounded.IsPositive() {
		return nil, Errorf(ErrCodeInvalidArgument, "price must be positive, got %s", price.String())
	}
	if rounded.GreaterThan(MaxPrice) {
		return nil, Errorf(ErrCodeInvalidArgument, "price must not exceed %s, got %s", MaxPrice.StringFixed(2), price.String())
	}

	return &MenuItem{
		Name:     name,
		Category: category,
		Price:    rounded,
	}, nil
}
