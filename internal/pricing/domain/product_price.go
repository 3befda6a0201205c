package domain

import "time"

// Marketplace enumerates the Swedish marketplaces the price corpus covers.
type Marketplace string

const (
	MarketplaceTradera  Marketplace = "tradera"
	MarketplaceBlocket  Marketplace = "blocket"
	MarketplaceFacebook Marketplace = "facebook"
	MarketplaceSellpy   Marketplace = "sellpy"
	MarketplacePlick    Marketplace = "plick"
)

// ProductPrice is one scraped reference price. The table is written by the
// (not yet implemented) scrapers; the rest of the platform only counts and
// reads it.
type ProductPrice struct {
	ID              string      `json:"id" gorm:"primaryKey"`
	ProductID       string      `json:"product_id" gorm:"index;not null"`
	Title           string      `json:"title" gorm:"not null"`
	Category        string      `json:"category" gorm:"index"`
	Price           float64     `json:"price"`
	Currency        string      `json:"currency" gorm:"default:SEK"`
	Marketplace     Marketplace `json:"marketplace" gorm:"index"`
	MarketplaceURL  string      `json:"marketplace_url"`
	Condition       string      `json:"condition,omitempty"`
	SellerLocation  string      `json:"seller_location,omitempty"`
	ConfidenceScore float64     `json:"confidence_score" gorm:"default:0.8"`
	DataSource      string      `json:"data_source" gorm:"default:scraper"`
	ScrapedAt       time.Time   `json:"scraped_at"`
	CreatedAt       time.Time   `json:"created_at"`
}
