package redisx

import "time"

const (
	// Idempotency for order webhooks: idem:bridge:order:{org}:{external_id} -> order_id
	KeyIdemOrder = "idem:bridge:order:%s:%s"

	// Cache of an order's current status: order_status:{org}:{order_id} -> status
	KeyOrderStatus = "order_status:%s:%s"

	// Rendered catalog response per org: catalog:{org} -> JSON body
	KeyCatalog = "catalog:%s"

	// Dedup for event consumers: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLIdempotency = 24 * time.Hour
	TTLStatusCache = 5 * time.Minute
	TTLCatalog     = 30 * time.Second
	TTLDedup       = 48 * time.Hour
)
