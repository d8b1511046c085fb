package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
)

func TestRecordMessageTriggerEverySeventhLine(t *testing.T) {
	store := NewStore()

	for i := 1; i <= 6; i++ {
		count, triggered, _ := store.RecordMessage("chat-1", "alice", fmt.Sprintf("line %d", i))
		if count != i {
			t.Fatalf("count after line %d = %d", i, count)
		}
		if triggered {
			t.Fatalf("triggered early at line %d", i)
		}
	}

	count, triggered, query := store.RecordMessage("chat-1", "bob", "line 7")
	if count != 7 || !triggered {
		t.Fatalf("count = %d, triggered = %v, want 7/true", count, triggered)
	}
	want := "line 1 line 2 line 3 line 4 line 5 line 6 line 7"
	if query != want {
		t.Errorf("query = %q, want %q", query, want)
	}
}

func TestRecordMessageMultiLineCrossesThreshold(t *testing.T) {
	store := NewStore()

	fourLines := "beach day\nwater sports\nsome seafood\nnightlife"
	count, triggered, _ := store.RecordMessage("chat-1", "alice", fourLines)
	if count != 4 || triggered {
		t.Fatalf("after first batch: count = %d, triggered = %v", count, triggered)
	}

	// 4 + 4 = 8 crosses the 7 threshold mid-batch; fires exactly once.
	count, triggered, query := store.RecordMessage("chat-1", "bob", "trekking\nwaterfalls\nold churches\nmuseums")
	if count != 8 || !triggered {
		t.Fatalf("after second batch: count = %d, triggered = %v, want 8/true", count, triggered)
	}
	// Query is the last 7 lines of the buffer, oldest line aged out.
	if strings.Contains(query, "beach day") {
		t.Errorf("query %q should not contain the aged-out first line", query)
	}
	if !strings.HasSuffix(query, "museums") {
		t.Errorf("query %q should end with the newest line", query)
	}
	if got := len(strings.Split(query, " ")); got < 7 {
		t.Errorf("query has %d words, want lines from a 7-line window", got)
	}

	// Buffer was consumed; next trigger needs a fresh multiple of 7.
	for i := 9; i <= 13; i++ {
		_, triggered, _ = store.RecordMessage("chat-1", "alice", "more chat")
		if triggered {
			t.Fatalf("triggered again at count %d before reaching 14", i)
		}
	}
	count, triggered, _ = store.RecordMessage("chat-1", "alice", "final line")
	if count != 14 || !triggered {
		t.Errorf("count = %d, triggered = %v, want 14/true", count, triggered)
	}
}

func TestRecordMessageSingleSevenLinePaste(t *testing.T) {
	store := NewStore()
	msg := "a\nb\nc\nd\ne\nf\ng"
	count, triggered, query := store.RecordMessage("chat-1", "alice", msg)
	if count != 7 || !triggered {
		t.Fatalf("count = %d, triggered = %v, want 7/true", count, triggered)
	}
	if query != "a b c d e f g" {
		t.Errorf("query = %q", query)
	}
}

func TestRecordMessageIgnoresBlankLines(t *testing.T) {
	store := NewStore()
	count, triggered, _ := store.RecordMessage("chat-1", "alice", "  hello  \n\n   \nworld\n")
	if count != 2 {
		t.Errorf("count = %d, want 2 (blank lines must not count)", count)
	}
	if triggered {
		t.Error("triggered on 2 lines")
	}
}

func TestRecordMessageIsolatesChats(t *testing.T) {
	store := NewStore()
	for i := 0; i < 6; i++ {
		store.RecordMessage("chat-1", "alice", "line")
	}
	count, triggered, _ := store.RecordMessage("chat-2", "alice", "line")
	if count != 1 || triggered {
		t.Errorf("chat-2 count = %d, triggered = %v, want 1/false", count, triggered)
	}
}

func TestParticipants(t *testing.T) {
	store := NewStore()
	store.RecordMessage("chat-1", "alice", "hi")
	store.RecordMessage("chat-1", "bob", "hey")
	store.RecordMessage("chat-1", "alice", "again")
	if got := store.Participants("chat-1"); got != 2 {
		t.Errorf("participants = %d, want 2", got)
	}
}

func TestAddToCartMergesDuplicates(t *testing.T) {
	store := NewStore()
	if _, err := store.AddToCart("chat-1", "Baga Beach", "alice"); err != nil {
		t.Fatalf("first add: %v", err)
	}
	cart, err := store.AddToCart("chat-1", "Baga Beach", "bob")
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if len(cart.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(cart.Items))
	}
	item := cart.Items[0]
	if item.Count != 2 {
		t.Errorf("count = %d, want 2", item.Count)
	}
	if item.AddedBy != "alice" {
		t.Errorf("addedBy = %q, want first adder", item.AddedBy)
	}
}

func TestAddToCartFull(t *testing.T) {
	store := NewStore()
	for i := 0; i < 10; i++ {
		if _, err := store.AddToCart("chat-1", fmt.Sprintf("Place %d", i), "alice"); err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
	}

	cart, err := store.AddToCart("chat-1", "Place 11", "bob")
	if !errors.Is(err, ErrCartFull) {
		t.Fatalf("err = %v, want ErrCartFull", err)
	}
	if len(cart.Items) != 10 {
		t.Errorf("items = %d after rejected add, want 10", len(cart.Items))
	}

	// A full cart still accepts increments of existing items.
	cart, err = store.AddToCart("chat-1", "Place 3", "bob")
	if err != nil {
		t.Fatalf("increment on full cart: %v", err)
	}
	for _, item := range cart.Items {
		if item.PlaceName == "Place 3" && item.Count != 2 {
			t.Errorf("Place 3 count = %d, want 2", item.Count)
		}
	}
}

func TestRemoveFromCart(t *testing.T) {
	store := NewStore()
	store.AddToCart("chat-1", "Baga Beach", "alice")
	store.AddToCart("chat-1", "Baga Beach", "bob")

	cart := store.RemoveFromCart("chat-1", "Baga Beach")
	if len(cart.Items) != 1 || cart.Items[0].Count != 1 {
		t.Fatalf("after decrement: %+v", cart.Items)
	}

	cart = store.RemoveFromCart("chat-1", "Baga Beach")
	if len(cart.Items) != 0 {
		t.Fatalf("after delete: %+v", cart.Items)
	}

	// Removing an absent place is a quiet no-op.
	cart = store.RemoveFromCart("chat-1", "Nowhere")
	if len(cart.Items) != 0 {
		t.Errorf("no-op remove changed cart: %+v", cart.Items)
	}
}

func TestCartDefaultsAndSettings(t *testing.T) {
	store := NewStore()
	cart := store.Cart("chat-1")
	if cart.NumDays != 3 || cart.NumPeople != 2 {
		t.Errorf("defaults = %d days / %d people, want 3/2", cart.NumDays, cart.NumPeople)
	}

	if err := store.UpdateCartSettings("chat-1", 5, 4); err != nil {
		t.Fatalf("update: %v", err)
	}
	cart = store.Cart("chat-1")
	if cart.NumDays != 5 || cart.NumPeople != 4 {
		t.Errorf("settings = %d/%d, want 5/4", cart.NumDays, cart.NumPeople)
	}

	for _, bad := range [][2]int{{0, 2}, {3, 0}, {-1, -1}} {
		if err := store.UpdateCartSettings("chat-1", bad[0], bad[1]); !errors.Is(err, ErrInvalidSettings) {
			t.Errorf("UpdateCartSettings(%d, %d) = %v, want ErrInvalidSettings", bad[0], bad[1], err)
		}
	}
}

func TestCartPlaceNamesSorted(t *testing.T) {
	store := NewStore()
	store.AddToCart("chat-1", "Zoo", "alice")
	store.AddToCart("chat-1", "Aguada Fort", "alice")
	store.AddToCart("chat-1", "Baga Beach", "bob")

	names := store.CartPlaceNames("chat-1")
	want := []string{"Aguada Fort", "Baga Beach", "Zoo"}
	if len(names) != len(want) {
		t.Fatalf("names = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestCartSnapshotIsIsolated(t *testing.T) {
	store := NewStore()
	store.AddToCart("chat-1", "Baga Beach", "alice")

	cart := store.Cart("chat-1")
	cart.Items[0].Count = 99

	if got := store.Cart("chat-1").Items[0].Count; got != 1 {
		t.Errorf("mutating a snapshot leaked into the store: count = %d", got)
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	store := NewStore()
	var wg sync.WaitGroup
	for g := 0; g < 10; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			user := fmt.Sprintf("user-%d", g)
			for i := 0; i < 10; i++ {
				store.RecordMessage("chat-1", user, "hello")
				store.AddToCart("chat-1", "Baga Beach", user)
			}
		}(g)
	}
	wg.Wait()

	count, _, _ := store.RecordMessage("chat-1", "final", "done")
	if count != 101 {
		t.Errorf("count = %d, want 101", count)
	}
	if got := store.Participants("chat-1"); got != 11 {
		t.Errorf("participants = %d, want 11", got)
	}
	if got := store.Cart("chat-1").Items[0].Count; got != 100 {
		t.Errorf("cart count = %d, want 100", got)
	}
}
