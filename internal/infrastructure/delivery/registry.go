package delivery

import (
	"github.com/dokanify/backend/internal/domain/courier"
)

// StaticRegistry resolves provider clients from a fixed set built at startup
type StaticRegistry struct {
	clients map[courier.Code]courier.Client
}

var _ courier.Registry = (*StaticRegistry)(nil)

// NewRegistry creates a registry over the given clients
func NewRegistry(clients ...courier.Client) *StaticRegistry {
	r := &StaticRegistry{clients: make(map[courier.Code]courier.Client, len(clients))}
	for _, c := range clients {
		r.clients[c.Code()] = c
	}
	return r
}

// Resolve returns the client for the given code
func (r *StaticRegistry) Resolve(code courier.Code) (courier.Client, error) {
	client, ok := r.clients[code]
	if !ok {
		return nil, courier.ErrUnknownCourier
	}
	return client, nil
}
