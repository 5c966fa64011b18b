package shop

// Product is a catalog entry. The id is caller-assigned and unique across
// the store; stock must stay >= 0 after every mutation.
type Product struct {
	ID          int     `json:"productId" bson:"productId"`
	Name        string  `json:"productName" bson:"productName"`
	Description string  `json:"description" bson:"description"`
	Price       float64 `json:"price" bson:"price"`
	Stock       int     `json:"stock" bson:"stock"`
	ImageURL    string  `json:"imageUrl" bson:"imageUrl"`
}

// Order is created atomically with a stock decrement at checkout and deleted
// atomically with a stock increment at cancellation. TotalCost is fixed at
// checkout time and never recomputed.
type Order struct {
	ID        string  `json:"orderId" bson:"orderId"`
	Address   string  `json:"address" bson:"address"`
	ProductID int     `json:"productId" bson:"productId"`
	Status    Status  `json:"status" bson:"status"`
	TotalCost float64 `json:"totalCost" bson:"totalCost"`
	Quantity  int     `json:"quantity" bson:"quantity"`
}
