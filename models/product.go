package models

import "gorm.io/gorm"

// Product categories
const (
	CategoryServiceTier    = "service_tier"
	CategoryAdvertising    = "advertising"
	CategorySEO            = "seo"
	CategorySocialMedia    = "social_media"
	CategoryWebDevelopment = "web_development"
	CategoryBranding       = "branding"
)

// Product represents a purchasable service package. Rows in the database are
// authoritative; DefaultProducts below is the compiled-in fallback catalog.
type Product struct {
	gorm.Model
	Name        string  `json:"name"`
	Slug        string  `json:"slug" gorm:"uniqueIndex;not null"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	PriceUSD    float64 `json:"price_usd"`
	Features    string  `json:"features" gorm:"type:text"` // JSON array of feature strings
	IsActive    bool    `json:"is_active" gorm:"default:true"`
}

// DefaultProducts is the static catalog used when a slug has no database row.
var DefaultProducts = []Product{
	{Name: "Starter Tier", Slug: "tier-starter", Category: CategoryServiceTier, PriceUSD: 1000,
		Description: "Entry service tier for small businesses getting started with digital marketing"},
	{Name: "Growth Tier", Slug: "tier-growth", Category: CategoryServiceTier, PriceUSD: 2500,
		Description: "Mid-level tier with multi-channel campaign management"},
	{Name: "Enterprise Tier", Slug: "tier-enterprise", Category: CategoryServiceTier, PriceUSD: 7500,
		Description: "Full-service engagement with a dedicated account team"},
	{Name: "Google Ads - Starter Campaign", Slug: "google-ads-starter", Category: CategoryAdvertising, PriceUSD: 1500,
		Description: "Launch your first Google Ads campaign with professional setup and optimization"},
	{Name: "Google Ads - Professional Campaign", Slug: "google-ads-pro", Category: CategoryAdvertising, PriceUSD: 3500,
		Description: "Comprehensive Google Ads management for serious growth"},
	{Name: "Facebook & Instagram Ads - Starter", Slug: "meta-ads-starter", Category: CategoryAdvertising, PriceUSD: 1200,
		Description: "Get started with social media advertising on Meta platforms"},
	{Name: "Facebook & Instagram Ads - Professional", Slug: "meta-ads-pro", Category: CategoryAdvertising, PriceUSD: 3000,
		Description: "Advanced Meta advertising with retargeting and optimization"},
	{Name: "Local SEO Package", Slug: "seo-local", Category: CategorySEO, PriceUSD: 2000,
		Description: "Dominate local search results in your area"},
	{Name: "National SEO Package", Slug: "seo-national", Category: CategorySEO, PriceUSD: 5000,
		Description: "Comprehensive SEO for nationwide visibility"},
	{Name: "Social Media Management - Basic", Slug: "social-media-basic", Category: CategorySocialMedia, PriceUSD: 1800,
		Description: "Professional social media presence across 2 platforms"},
	{Name: "Social Media Management - Premium", Slug: "social-media-premium", Category: CategorySocialMedia, PriceUSD: 4000,
		Description: "Comprehensive social media marketing across all platforms"},
	{Name: "Custom Web Design", Slug: "web-design-custom", Category: CategoryWebDevelopment, PriceUSD: 5000,
		Description: "Bespoke website design tailored to your brand"},
	{Name: "Web Application Development", Slug: "web-app-development", Category: CategoryWebDevelopment, PriceUSD: 12000,
		Description: "Custom web application built to your specifications"},
	{Name: "Brand Identity - Starter", Slug: "branding-starter", Category: CategoryBranding, PriceUSD: 2500,
		Description: "Essential branding package for new businesses"},
	{Name: "Complete Brand Identity", Slug: "branding-complete", Category: CategoryBranding, PriceUSD: 6000,
		Description: "Comprehensive branding for established businesses"},
}

// FindDefaultProduct looks up a slug in the static fallback catalog.
func FindDefaultProduct(slug string) (Product, bool) {
	for _, p := range DefaultProducts {
		if p.Slug == slug {
			return p, true
		}
	}
	return Product{}, false
}
