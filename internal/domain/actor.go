package domain

// Actor identidad de quien ejecuta una operación sobre órdenes o stock.
// Viene del colaborador de autenticación (JWT en la capa HTTP).
type Actor struct {
	ID      string
	IsAdmin bool
}
