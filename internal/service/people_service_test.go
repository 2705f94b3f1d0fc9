package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddPerson(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	resp, err := env.people.AddPerson.CallUnary(ctx, connect.NewRequest(&AddPersonRequest{Name: "  Asha  ", Emoji: "🦊"}))
	require.NoError(t, err)

	p := resp.Msg.Person
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Asha", p.Name)
	assert.Equal(t, "🦊", p.Emoji)
	assert.NotZero(t, p.CreatedAt)
}

func TestAddPersonRequiresName(t *testing.T) {
	env := setupTestServer(t)

	_, err := env.people.AddPerson.CallUnary(context.Background(), connect.NewRequest(&AddPersonRequest{Name: "   "}))
	require.Error(t, err)
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
}

func TestListPeopleKeepsOrder(t *testing.T) {
	env := setupTestServer(t)
	for _, name := range []string{"Asha", "Bo", "Chen"} {
		env.addPerson(t, name)
	}

	resp, err := env.people.ListPeople.CallUnary(context.Background(), connect.NewRequest(&ListPeopleRequest{}))
	require.NoError(t, err)

	var names []string
	for _, p := range resp.Msg.People {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Asha", "Bo", "Chen"}, names)
}

func TestListPeopleEmpty(t *testing.T) {
	env := setupTestServer(t)

	resp, err := env.people.ListPeople.CallUnary(context.Background(), connect.NewRequest(&ListPeopleRequest{}))
	require.NoError(t, err)
	assert.NotNil(t, resp.Msg.People)
	assert.Empty(t, resp.Msg.People)
}

func TestUpdatePerson(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	asha := env.addPerson(t, "Asha")

	resp, err := env.people.UpdatePerson.CallUnary(ctx, connect.NewRequest(&UpdatePersonRequest{ID: asha.ID, Name: "Asha K", Emoji: "🐼"}))
	require.NoError(t, err)
	assert.Equal(t, "Asha K", resp.Msg.Person.Name)
	assert.Equal(t, asha.CreatedAt, resp.Msg.Person.CreatedAt)

	_, err = env.people.UpdatePerson.CallUnary(ctx, connect.NewRequest(&UpdatePersonRequest{ID: "missing", Name: "X"}))
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
}

func TestRemovePerson(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	asha := env.addPerson(t, "Asha")
	env.addPerson(t, "Bo")

	_, err := env.people.RemovePerson.CallUnary(ctx, connect.NewRequest(&RemovePersonRequest{ID: asha.ID}))
	require.NoError(t, err)

	resp, err := env.people.ListPeople.CallUnary(ctx, connect.NewRequest(&ListPeopleRequest{}))
	require.NoError(t, err)
	require.Len(t, resp.Msg.People, 1)
	assert.Equal(t, "Bo", resp.Msg.People[0].Name)
}
