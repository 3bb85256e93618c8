package seed

import "strings"

// Merge combines documents in order. A later item with the same name (case
// insensitive) replaces the earlier one in place; inventory overrides and a
// non-zero initial quantity from later documents win.
func Merge(docs ...*Document) *Document {
	out := &Document{Inventory: map[string]int{}}
	index := map[string]int{}

	for _, doc := range docs {
		if doc == nil {
			continue
		}
		for _, item := range doc.MenuItems {
			key := strings.ToLower(strings.TrimSpace(item.Name))
			if i, ok := index[key]; ok {
				out.MenuItems[i] = item
				continue
			}
			index[key] = len(out.MenuItems)
			out.MenuItems = append(out.MenuItems, item)
		}
		for name, qty := range doc.Inventory {
			out.Inventory[name] = qty
		}
		if doc.InitialInventoryQuantity != 0 {
			out.InitialInventoryQuantity = doc.InitialInventoryQuantity
		}
	}

	return out
}
