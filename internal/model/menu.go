package model

import (
	"math"
	"time"
)

// MenuItem represents a purchasable entry in the remote catalogue.
type MenuItem struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Price       float64    `json:"price"`
	CategoryID  string     `json:"categoryId,omitempty"`
	UserID      int        `json:"userId,omitempty"`
	Calories    string     `json:"calories,omitempty"`
	Description string     `json:"description,omitempty"`
	Category    Category   `json:"category"`
	Ratings     []Rating   `json:"ratings"`
	MenuImages  MenuImages `json:"menuImages"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// Category is the nested category object of a menu item.
type Category struct {
	Name string `json:"name"`
}

// Rating is a single customer rating, typically 1 to 5.
type Rating struct {
	Rating float64 `json:"rating"`
}

// MenuImages holds the image references of a menu item.
type MenuImages struct {
	Img1 string `json:"img1,omitempty"`
	Img2 string `json:"img2,omitempty"`
	Img3 string `json:"img3,omitempty"`
	Img4 string `json:"img4,omitempty"`
}

// MenusResponse is the payload of GET /menus.
type MenusResponse struct {
	Menus []MenuItem `json:"menus"`
}

// RatingBucket returns floor(average rating). ok is false when the item has no ratings.
func (m MenuItem) RatingBucket() (bucket int, ok bool) {
	if len(m.Ratings) == 0 {
		return 0, false
	}

	var sum float64
	for _, r := range m.Ratings {
		sum += r.Rating
	}

	return int(math.Floor(sum / float64(len(m.Ratings)))), true
}

// KnownCategories lists the categories offered by the storefront filter panel.
var KnownCategories = []string{"Nasi", "Daging", "Sayur", "Minuman", "Cemilan", "Ikan"}

// CatalogView is the current state of a session's menu page.
type CatalogView struct {
	Menus              []MenuItem `json:"menus"`
	Page               int        `json:"page"`
	PageSize           int        `json:"pageSize"`
	TotalPages         int        `json:"totalPages"`
	TotalCount         int        `json:"totalCount"`
	HasPrev            bool       `json:"hasPrev"`
	HasNext            bool       `json:"hasNext"`
	ShowPager          bool       `json:"showPager"`
	Categories         []string   `json:"categories"`
	SelectedCategories []string   `json:"selectedCategories"`
	SelectedRating     *int       `json:"selectedRating"`
	Query              string     `json:"query"`
	QueryMode          string     `json:"queryMode"`
	Loaded             bool       `json:"loaded"`
}

// RatingRequest sets or clears the rating bucket filter.
type RatingRequest struct {
	Rating *int `json:"rating"`
}

// QueryRequest is a free-text menu search.
type QueryRequest struct {
	Query string `json:"query"`
}
