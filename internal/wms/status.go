package wms

// Workflow statuses as the WMS frontend stores them. The Russian strings are
// the actual join keys inside the blob, so they stay verbatim.
const (
	StatusNew        = "Новые заказы"
	StatusInProgress = "Взят в работу"
	StatusDelivered  = "Доставлено"
	StatusCompleted  = "Завершено"
	StatusCancelled  = "Отменён"
)

var shopToWMS = map[string]string{
	"created":     StatusNew,
	"paid":        StatusNew,
	"in_progress": StatusInProgress,
	"fulfilled":   StatusDelivered,
	"delivered":   StatusDelivered,
	"completed":   StatusCompleted,
	"cancelled":   StatusCancelled,
}

// MapShopStatus translates a shop platform status into the WMS workflow
// vocabulary. Unknown statuses fall back to StatusNew so an upstream rename
// never breaks the pipeline.
func MapShopStatus(s string) string {
	if mapped, ok := shopToWMS[s]; ok {
		return mapped
	}
	return StatusNew
}
