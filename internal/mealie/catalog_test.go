package mealie

import "testing"

func TestCatalog(t *testing.T) {
	t.Run("NormalizesNames", func(t *testing.T) {
		c := NewCatalog()
		c.Add("  Pasta Bolognese ", "id1")

		entries := c.Entries()
		if len(entries) != 1 {
			t.Fatalf("Expected 1 entry, got %d", len(entries))
		}
		if entries[0].NormalizedName != "pasta bolognese" {
			t.Errorf("Expected normalized name 'pasta bolognese', got %q", entries[0].NormalizedName)
		}
	})

	t.Run("PreservesInsertionOrder", func(t *testing.T) {
		c := NewCatalog()
		c.Add("Beta", "id2")
		c.Add("Alpha", "id1")
		c.Add("Gamma", "id3")

		want := []string{"beta", "alpha", "gamma"}
		for i, entry := range c.Entries() {
			if entry.NormalizedName != want[i] {
				t.Errorf("Entry %d: expected %q, got %q", i, want[i], entry.NormalizedName)
			}
		}
	})

	t.Run("LastWriteWinsOnCollision", func(t *testing.T) {
		c := NewCatalog()
		c.Add("Tacos", "id1")
		c.Add("Other", "id2")
		c.Add("TACOS", "id3")

		if c.Len() != 2 {
			t.Fatalf("Expected 2 entries after collision, got %d", c.Len())
		}
		entries := c.Entries()
		if entries[0].NormalizedName != "tacos" || entries[0].RecipeID != "id3" {
			t.Errorf("Expected tacos to keep position 0 with id3, got %+v", entries[0])
		}
	})

	t.Run("IgnoresEmptyNames", func(t *testing.T) {
		c := NewCatalog()
		c.Add("   ", "id1")
		if c.Len() != 0 {
			t.Errorf("Expected empty catalog, got %d entries", c.Len())
		}
	})
}
