package clientsrv

import (
	"context"
	"time"

	"github.com/proconsultancy/backend/pkg/ats/activity"
	"github.com/proconsultancy/backend/pkg/ats/client"
	"github.com/proconsultancy/backend/pkg/kernel"
)

// ClientService maneja el CRUD de clientes
type ClientService struct {
	clientRepo client.ClientRepository
	recorder   activity.Recorder
}

func NewClientService(clientRepo client.ClientRepository, recorder activity.Recorder) *ClientService {
	return &ClientService{
		clientRepo: clientRepo,
		recorder:   recorder,
	}
}

// CreateClient registra un cliente nuevo en estado prospect
func (s *ClientService) CreateClient(ctx context.Context, actor kernel.AuthContext, req client.CreateClientRequest) (*client.Client, error) {
	exists, err := s.clientRepo.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, client.ErrClientAlreadyExists().WithDetail("name", req.Name)
	}

	now := time.Now()
	c := &client.Client{
		ClientCode:   kernel.NewEntityCode(kernel.CodePrefixClient),
		Name:         req.Name,
		Industry:     req.Industry,
		ContactName:  req.ContactName,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		Status:       client.ClientStatusProspect,
		Notes:        req.Notes,
		CreatedBy:    actor.UserID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.clientRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, activity.Entry{
		Module:     "clients",
		Action:     "create",
		EntityCode: c.ClientCode,
		ActorID:    actor.UserID,
		Detail:     activity.DetailMap{"name": c.Name},
	})

	return c, nil
}

// GetClient busca un cliente por código
func (s *ClientService) GetClient(ctx context.Context, code string) (*client.Client, error) {
	return s.clientRepo.FindByCode(ctx, code)
}

// ListClients lista clientes con filtros
func (s *ClientService) ListClients(ctx context.Context, filter client.ClientFilter) (*client.ClientListResponse, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}

	clients, total, err := s.clientRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	dtos := make([]client.ClientDTO, len(clients))
	for i := range clients {
		dtos[i] = clients[i].ToDTO()
	}

	return &client.ClientListResponse{
		Clients: dtos,
		Total:   total,
		Limit:   filter.Limit,
		Offset:  filter.Offset,
	}, nil
}

// UpdateClient actualiza campos editables, incluido el estado comercial
func (s *ClientService) UpdateClient(ctx context.Context, actor kernel.AuthContext, code string, req client.UpdateClientRequest) (*client.Client, error) {
	c, err := s.clientRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != c.Name {
		exists, err := s.clientRepo.ExistsByName(ctx, *req.Name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, client.ErrClientAlreadyExists().WithDetail("name", *req.Name)
		}
		c.Name = *req.Name
	}
	if req.Industry != nil {
		c.Industry = *req.Industry
	}
	if req.ContactName != nil {
		c.ContactName = *req.ContactName
	}
	if req.ContactEmail != nil {
		c.ContactEmail = *req.ContactEmail
	}
	if req.ContactPhone != nil {
		c.ContactPhone = *req.ContactPhone
	}
	if req.Status != nil {
		if !client.IsValidStatus(*req.Status) {
			return nil, client.ErrInvalidClientStatus(string(*req.Status))
		}
		c.Status = *req.Status
	}
	if req.Notes != nil {
		c.Notes = *req.Notes
	}
	c.UpdatedAt = time.Now()

	if err := s.clientRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, activity.Entry{
		Module:     "clients",
		Action:     "update",
		EntityCode: c.ClientCode,
		ActorID:    actor.UserID,
	})

	return c, nil
}

// DeleteClient aplica el soft delete
func (s *ClientService) DeleteClient(ctx context.Context, actor kernel.AuthContext, code string) error {
	c, err := s.clientRepo.FindByCode(ctx, code)
	if err != nil {
		return err
	}

	c.MarkDeleted()

	if err := s.clientRepo.Save(ctx, c); err != nil {
		return err
	}

	s.recorder.Record(ctx, activity.Entry{
		Module:     "clients",
		Action:     "delete",
		EntityCode: c.ClientCode,
		ActorID:    actor.UserID,
	})

	return nil
}
