package scanner

import (
	"sync"

	"github.com/Sailo001/SolanaJitoArbBot-sub000/internal/domain"
)

// Cursor reparte el universo de pares en lotes rotatorios de tamaño fijo.
// Cada llamada a Next avanza la posición, con wrap-around, así que todos
// los pares acaban escaneados aunque el universo no quepa en un ciclo.
// Es seguro para ciclos solapados: Next puede llamarse concurrentemente.
type Cursor struct {
	mu    sync.Mutex
	pairs []domain.Pair
	size  int
	next  int
}

// NewCursor crea un cursor sobre el universo dado. size <= 0 o mayor que
// el universo significa escanear todo en cada ciclo.
func NewCursor(pairs []domain.Pair, size int) *Cursor {
	return &Cursor{pairs: pairs, size: size}
}

// Next devuelve el siguiente lote. El slice devuelto es una copia.
func (c *Cursor) Next() []domain.Pair {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.pairs)
	if n == 0 {
		return nil
	}
	if c.size <= 0 || c.size >= n {
		out := make([]domain.Pair, n)
		copy(out, c.pairs)
		return out
	}

	out := make([]domain.Pair, 0, c.size)
	for i := 0; i < c.size; i++ {
		out = append(out, c.pairs[(c.next+i)%n])
	}
	c.next = (c.next + c.size) % n
	return out
}
