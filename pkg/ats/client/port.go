package client

import "context"

// ClientRepository define el contrato de persistencia de clientes
type ClientRepository interface {
	FindByCode(ctx context.Context, code string) (*Client, error)
	FindAll(ctx context.Context, filter ClientFilter) ([]Client, int, error)
	Save(ctx context.Context, c *Client) error
	ExistsByName(ctx context.Context, name string) (bool, error)
}
