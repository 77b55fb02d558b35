package wms

const (
	TopicOrderCreated = "shop.order.created"
	TopicOrderStatus  = "shop.order.status"
)

// Partition key = order id, so all events of one order keep their order.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
