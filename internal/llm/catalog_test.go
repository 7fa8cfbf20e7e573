package llm

import "testing"

func TestCatalogCoversEveryProvider(t *testing.T) {
	t.Parallel()
	for _, id := range providerOrder {
		models := Catalog(id)
		if len(models) == 0 {
			t.Errorf("provider %s has no catalog models", id)
			continue
		}
		for _, m := range models {
			if m.Provider != id {
				t.Errorf("model %s carries provider %s, want %s", m.ID, m.Provider, id)
			}
			if m.ID == "" || m.Name == "" {
				t.Errorf("provider %s has a model without id or name: %+v", id, m)
			}
		}
		if DefaultModel(id) == nil {
			t.Errorf("provider %s has no default model", id)
		}
	}
}

func TestCatalogReturnsCopy(t *testing.T) {
	t.Parallel()
	models := Catalog(ProviderOpenAI)
	if len(models) == 0 {
		t.Fatal("openai catalog empty")
	}
	models[0].Name = "mutated"
	if again := Catalog(ProviderOpenAI); again[0].Name == "mutated" {
		t.Error("Catalog should return a copy")
	}
}

func TestDefaultModelUnknownProvider(t *testing.T) {
	t.Parallel()
	if m := DefaultModel(ProviderID("nope")); m != nil {
		t.Errorf("DefaultModel(nope) = %+v, want nil", m)
	}
}
