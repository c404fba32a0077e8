package feed

// DTOs raw del snapshot indexer. Solo se usan dentro de este paquete.
// La conversión a domain entities se hace en mapping.go.

// bookSnapshotResponse es la respuesta de GET /v1/books/{market}.
type bookSnapshotResponse struct {
	Market string         `json:"market"`
	Slot   uint64         `json:"slot"`
	Bids   []bookLevelRaw `json:"bids"`
	Asks   []bookLevelRaw `json:"asks"`
}

// bookLevelRaw es un nivel de precio raw del indexer.
// Los u64 viajan como strings JSON (convención Solana para amounts).
type bookLevelRaw struct {
	Price string `json:"price"`
	Size  string `json:"size"`
}

// poolSnapshotResponse es la respuesta de GET /v1/pools/{address}.
type poolSnapshotResponse struct {
	Address      string `json:"address"`
	BaseMint     string `json:"base_mint"`
	QuoteMint    string `json:"quote_mint"`
	BaseReserve  string `json:"base_reserve"`
	QuoteReserve string `json:"quote_reserve"`
	FeeBps       uint32 `json:"fee_bps"`
	Slot         uint64 `json:"slot"`
}
