package domain

import (
	"time"
)

// CREATE TABLE public.products (
//     id              BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     sku             TEXT,
//     product_name    TEXT,
//     product_category TEXT,
//     normal_price    NUMERIC,
//     sale_price      NUMERIC,
//     quantity        NUMERIC,
//     variation_of    BIGINT,
//     created_at      TIMESTAMPTZ DEFAULT NOW()
// );

type Product struct {
	ID              uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	SKU             string    `gorm:"column:sku;type:text" json:"sku"`
	ProductName     string    `gorm:"column:product_name;type:text" json:"product_name"`
	ProductCategory string    `gorm:"column:product_category;type:text" json:"product_category"`
	NormalPrice     float64   `gorm:"column:normal_price;type:numeric" json:"normal_price"`
	SalePrice       float64   `gorm:"column:sale_price;type:numeric" json:"sale_price"`
	Quantity        float64   `gorm:"column:quantity;type:numeric" json:"quantity"`
	VariationOf     *uint64   `gorm:"column:variation_of" json:"variation_of,omitempty"`
	CreatedAt       time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Product) TableName() string {
	return "products"
}
