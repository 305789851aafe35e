package assembler

// SymbolType distinguishes a label (resolved to a byte offset once its
// section is known) from an integer constant symbol.
type SymbolType int

const (
	SymbolLabel SymbolType = iota
	SymbolInteger
)

// Symbol is one entry in a SymbolTable. Offset is nil until resolved;
// spec.md §3 calls this "offset initially unset".
type Symbol struct {
	Name   string
	Type   SymbolType
	Offset *uint32
}

// SymbolTable is an append-only, linearly-scanned table of symbols
// collected during phase one and consulted during phase two. Ported
// directly from original_source/src/assembler/symbols.rs, which spec.md
// §4.6 names as exactly these four operations.
type SymbolTable struct {
	symbols []Symbol
}

// NewSymbolTable returns an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{}
}

// Add appends a new symbol. Callers must check Has first: a duplicate
// name is appended silently rather than erroring, and is itself
// shadowed by the earlier entry for Value/SetOffset (both scan from the
// front), so duplicate
// detection belongs to the caller (see SymbolAlreadyDeclaredError).
func (t *SymbolTable) Add(s Symbol) {
	t.symbols = append(t.symbols, s)
}

// Has reports whether name has already been declared.
func (t *SymbolTable) Has(name string) bool {
	for _, s := range t.symbols {
		if s.Name == name {
			return true
		}
	}
	return false
}

// SetOffset resolves name's offset. Reports false if name was never
// declared.
func (t *SymbolTable) SetOffset(name string, offset uint32) bool {
	for i := range t.symbols {
		if t.symbols[i].Name == name {
			o := offset
			t.symbols[i].Offset = &o
			return true
		}
	}
	return false
}

// Value returns name's resolved offset. Reports false if name is
// undeclared or its offset has not yet been resolved.
func (t *SymbolTable) Value(name string) (uint32, bool) {
	for _, s := range t.symbols {
		if s.Name == name {
			if s.Offset == nil {
				return 0, false
			}
			return *s.Offset, true
		}
	}
	return 0, false
}
