package entity

// WorkingCatalog é a cópia de trabalho do catálogo de uma sessão. Tem
// semântica de valor: toda mutação produz um snapshot novo, quem lê um
// snapshot antigo nunca observa um merge pela metade.
type WorkingCatalog []CatalogEntry

// NewWorkingCatalog cria um catálogo de trabalho zerado a partir da lista
// ordenada de nomes de produtos
func NewWorkingCatalog(names []string) WorkingCatalog {
	catalog := make(WorkingCatalog, len(names))
	for i, name := range names {
		catalog[i] = CatalogEntry{Name: name}
	}
	return catalog
}

// Clone devolve uma cópia independente
func (c WorkingCatalog) Clone() WorkingCatalog {
	clone := make(WorkingCatalog, len(c))
	copy(clone, c)
	return clone
}

// Reset devolve uma cópia com todas as quantidades zeradas
func (c WorkingCatalog) Reset() WorkingCatalog {
	reset := make(WorkingCatalog, len(c))
	for i, entry := range c {
		reset[i] = CatalogEntry{Name: entry.Name}
	}
	return reset
}

// Names lista ordenada dos nomes de produto
func (c WorkingCatalog) Names() []string {
	names := make([]string, len(c))
	for i, entry := range c {
		names[i] = entry.Name
	}
	return names
}

// HasItems informa se alguma quantidade é positiva
func (c WorkingCatalog) HasItems() bool {
	for _, entry := range c {
		if entry.Quantity > 0 {
			return true
		}
	}
	return false
}

// Items devolve apenas as entradas com quantidade positiva
func (c WorkingCatalog) Items() map[string]int {
	items := make(map[string]int)
	for _, entry := range c {
		if entry.Quantity > 0 {
			items[entry.Name] = entry.Quantity
		}
	}
	return items
}
