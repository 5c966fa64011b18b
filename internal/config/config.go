package config

import (
	"os"
	"strings"
)

type Config struct {
	HTTPAddr     string
	StoreBackend string // "file" or "mongo"
	MongoURI     string
	MongoDB      string
	ProductsFile string
	OrdersFile   string
	RedisAddr    string // empty disables the status cache
	KafkaBrokers []string
	ServiceName  string
}

func Load() Config {
	return Config{
		HTTPAddr:     getenv("HTTP_ADDR", ":8080"),
		StoreBackend: getenv("STORE_BACKEND", "file"),
		MongoURI:     getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:      getenv("MONGO_DB", "ecommerce_db"),
		ProductsFile: getenv("PRODUCTS_FILE", "jsondb/products.json"),
		OrdersFile:   getenv("ORDERS_FILE", "jsondb/order.json"),
		RedisAddr:    getenv("REDIS_ADDR", ""),
		KafkaBrokers: splitCSV(getenv("KAFKA_BROKERS", "")),
		ServiceName:  getenv("SERVICE_NAME", "shop-api"),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
