package models

import "time"

const (
	StatusDraft     = "draft"
	StatusPublished = "published"

	RoleUser    = "user"
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"not null"                 json:"name"`
	Email        string    `gorm:"unique;not null"          json:"email"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	Role         string    `gorm:"not null;default:user"    json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"      json:"id"`
	Token     string    `gorm:"unique;not null" json:"token"`
	UserID    uint      `gorm:"index;not null"  json:"user_id"`
	ExpiresAt time.Time `gorm:"not null"        json:"expires_at"`
	Revoked   bool      `gorm:"default:false"   json:"revoked"`
}

type Category struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"unique;not null"          json:"name"`
}

type Product struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CategoryID  uint           `gorm:"index"                    json:"category_id"`
	Category    *Category      `json:"category,omitempty"`
	Title       string         `gorm:"not null"                 json:"title"`
	Description string         `gorm:"not null"                 json:"description"`
	About       string         `json:"about"`
	Price       float64        `gorm:"not null"                 json:"price"`
	Discount    float64        `gorm:"not null;default:0"       json:"discount"`
	Status      string         `gorm:"not null;default:draft"   json:"status"`
	Images      []ProductImage `gorm:"constraint:OnDelete:CASCADE" json:"images,omitempty"`
	Ratings     []Rating       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type ProductImage struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID uint   `gorm:"index;not null"           json:"product_id"`
	Image     string `gorm:"not null"                 json:"image"`
}

type Rating struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"                        json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_rating_user_product;not null"    json:"user_id"`
	ProductID uint      `gorm:"uniqueIndex:idx_rating_user_product;not null"    json:"product_id"`
	Rating    int       `gorm:"not null;check:rating BETWEEN 1 AND 5"           json:"rating"`
	Review    string    `json:"review"`
	User      *User     `json:"user,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Price is snapshotted when the row is first created and never refreshed
// from the catalog afterwards.
type CartItem struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"                      json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_cart_user_product;not null"    json:"user_id"`
	ProductID uint      `gorm:"uniqueIndex:idx_cart_user_product;not null"    json:"product_id"`
	Quantity  uint      `gorm:"not null;check:quantity > 0"                   json:"quantity"`
	Price     float64   `gorm:"not null"                                      json:"price"`
	Product   *Product  `gorm:"constraint:OnDelete:CASCADE" json:"product,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CartItem) TableName() string {
	return "cart_items"
}
