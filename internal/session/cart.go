package session

// CartItem is one distinct place in a cart. Repeated adds of the same place
// increment Count instead of duplicating the item.
type CartItem struct {
	PlaceName string `json:"place_name"`
	AddedBy   string `json:"added_by"`
	Count     int    `json:"count"`
}

// Cart is the shared, per-chat collection of candidate places pending
// itinerary generation.
type Cart struct {
	Items     []CartItem `json:"items"`
	NumDays   int        `json:"num_days"`
	NumPeople int        `json:"num_people"`
}

const (
	maxCartItems     = 10
	defaultNumDays   = 3
	defaultNumPeople = 2
)

func newCart() Cart {
	return Cart{Items: []CartItem{}, NumDays: defaultNumDays, NumPeople: defaultNumPeople}
}

// add enforces the distinct-item cap at add time: a cart holding 10 distinct
// items rejects new names but still accepts count increments.
func (c *Cart) add(placeName, addedBy string) error {
	for i := range c.Items {
		if c.Items[i].PlaceName == placeName {
			c.Items[i].Count++
			return nil
		}
	}
	if len(c.Items) >= maxCartItems {
		return ErrCartFull
	}
	c.Items = append(c.Items, CartItem{PlaceName: placeName, AddedBy: addedBy, Count: 1})
	return nil
}

// remove decrements the item's count, deleting it at zero. Removing an
// absent place is a no-op, not an error.
func (c *Cart) remove(placeName string) {
	for i := range c.Items {
		if c.Items[i].PlaceName == placeName {
			if c.Items[i].Count > 1 {
				c.Items[i].Count--
			} else {
				c.Items = append(c.Items[:i], c.Items[i+1:]...)
			}
			return
		}
	}
}

func (c Cart) clone() Cart {
	out := c
	out.Items = make([]CartItem, len(c.Items))
	copy(out.Items, c.Items)
	return out
}
