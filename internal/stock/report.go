package stock

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"billing-service/internal/model"
)

// Report lists the items that need attention
type Report struct {
	Low        []model.InventoryItem `json:"low"`
	OutOfStock []model.InventoryItem `json:"out_of_stock"`
}

// Summarize classifies every item and collects the ones that are low or out of stock
func Summarize(items []model.InventoryItem) Report {
	r := Report{
		Low:        []model.InventoryItem{},
		OutOfStock: []model.InventoryItem{},
	}
	for i := range items {
		switch Classify(&items[i]) {
		case Low:
			r.Low = append(r.Low, items[i])
		case OutOfStock:
			r.OutOfStock = append(r.OutOfStock, items[i])
		}
	}
	return r
}

// Empty reports whether no item needs attention
func (r Report) Empty() bool {
	return len(r.Low) == 0 && len(r.OutOfStock) == 0
}

// key identifies the set of flagged items independent of their order
func (r Report) key() string {
	return "low:" + joinIDs(r.Low) + "|out:" + joinIDs(r.OutOfStock)
}

func joinIDs(items []model.InventoryItem) string {
	ids := make([]int, 0, len(items))
	for _, it := range items {
		ids = append(ids, int(it.ID))
	}
	sort.Ints(ids)

	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

// AlertDeduper suppresses repeated low-stock alerts within a session. An alert
// is raised only when the set of flagged items differs from the last one
// alerted for the same session.
type AlertDeduper struct {
	mu   sync.Mutex
	seen map[string]string
}

// NewAlertDeduper creates an empty deduper
func NewAlertDeduper() *AlertDeduper {
	return &AlertDeduper{seen: make(map[string]string)}
}

// ShouldAlert reports whether report should be shown to session and records it
func (d *AlertDeduper) ShouldAlert(session string, report Report) bool {
	if report.Empty() {
		return false
	}

	key := report.key()

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.seen[session] == key {
		return false
	}
	d.seen[session] = key
	return true
}

// Forget drops what was recorded for session, e.g. on logout
func (d *AlertDeduper) Forget(session string) {
	d.mu.Lock()
	delete(d.seen, session)
	d.mu.Unlock()
}
