package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/receiptsplit/internal/models"
	"github.com/mmynk/receiptsplit/internal/storage"
)

// PeopleService manages the people items can be split between.
type PeopleService struct {
	store storage.Store
}

// NewPeopleService creates a new PeopleService with the given storage backend.
func NewPeopleService(store storage.Store) *PeopleService {
	return &PeopleService{store: store}
}

// ListPeople returns everyone in the order they were added.
func (s *PeopleService) ListPeople(ctx context.Context, req *connect.Request[ListPeopleRequest]) (*connect.Response[ListPeopleResponse], error) {
	people, err := s.store.ListPeople(ctx)
	if err != nil {
		return nil, toConnectError("ListPeople", err)
	}
	if people == nil {
		people = []models.Person{}
	}
	return connect.NewResponse(&ListPeopleResponse{People: people}), nil
}

// AddPerson creates a person. The name is required.
func (s *PeopleService) AddPerson(ctx context.Context, req *connect.Request[AddPersonRequest]) (*connect.Response[AddPersonResponse], error) {
	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument("name is required")
	}

	person := models.Person{Name: name, Emoji: strings.TrimSpace(req.Msg.Emoji)}
	if err := s.store.UpsertPerson(ctx, &person); err != nil {
		return nil, toConnectError("AddPerson", err)
	}

	slog.Info("Person added", "person_id", person.ID, "name", person.Name)
	return connect.NewResponse(&AddPersonResponse{Person: person}), nil
}

// UpdatePerson renames a person or changes their emoji.
func (s *PeopleService) UpdatePerson(ctx context.Context, req *connect.Request[UpdatePersonRequest]) (*connect.Response[UpdatePersonResponse], error) {
	if req.Msg.ID == "" {
		return nil, invalidArgument("id is required")
	}
	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument("name is required")
	}

	person, err := s.findPerson(ctx, req.Msg.ID)
	if err != nil {
		return nil, toConnectError("UpdatePerson", err)
	}
	person.Name = name
	person.Emoji = strings.TrimSpace(req.Msg.Emoji)

	if err := s.store.UpsertPerson(ctx, &person); err != nil {
		return nil, toConnectError("UpdatePerson", err)
	}
	return connect.NewResponse(&UpdatePersonResponse{Person: person}), nil
}

// RemovePerson deletes a person. Their split assignments are kept, so any
// share still pointing at them is reported as orphaned by CalculateSplits.
func (s *PeopleService) RemovePerson(ctx context.Context, req *connect.Request[RemovePersonRequest]) (*connect.Response[RemovePersonResponse], error) {
	if req.Msg.ID == "" {
		return nil, invalidArgument("id is required")
	}
	if err := s.store.DeletePerson(ctx, req.Msg.ID); err != nil {
		return nil, toConnectError("RemovePerson", err)
	}

	slog.Info("Person removed", "person_id", req.Msg.ID)
	return connect.NewResponse(&RemovePersonResponse{}), nil
}

func (s *PeopleService) findPerson(ctx context.Context, id string) (models.Person, error) {
	people, err := s.store.ListPeople(ctx)
	if err != nil {
		return models.Person{}, err
	}
	for _, p := range people {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Person{}, storage.ErrNotFound
}
