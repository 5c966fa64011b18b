package filestore

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/webstore/shopstock/internal/shop"
)

// orderRecord is the on-disk order shape. Legacy order files store the
// product reference either as a JSON number or as a quoted string, so the
// field is coerced to an integer on load and always written back as a number.
type orderRecord struct {
	ID        string      `json:"orderId"`
	Address   string      `json:"address"`
	ProductID looseInt    `json:"productId"`
	Status    shop.Status `json:"status"`
	TotalCost float64     `json:"totalCost"`
	Quantity  int         `json:"quantity"`
}

func fromOrder(o *shop.Order) orderRecord {
	return orderRecord{
		ID:        o.ID,
		Address:   o.Address,
		ProductID: looseInt(o.ProductID),
		Status:    o.Status,
		TotalCost: o.TotalCost,
		Quantity:  o.Quantity,
	}
}

func (r orderRecord) toOrder() shop.Order {
	return shop.Order{
		ID:        r.ID,
		Address:   r.Address,
		ProductID: int(r.ProductID),
		Status:    r.Status,
		TotalCost: r.TotalCost,
		Quantity:  r.Quantity,
	}
}

type looseInt int

func (n *looseInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("productId %q is not numeric", s)
	}
	*n = looseInt(int(v))
	return nil
}
