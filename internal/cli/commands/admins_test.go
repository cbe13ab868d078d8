package commands

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deliverydesk/deliverydesk/internal/cli/client"
)

type mockAdminLister struct {
	admins []client.AdminProfile
	err    error
}

func (m *mockAdminLister) ListAdmins(ctx context.Context) ([]client.AdminProfile, error) {
	return m.admins, m.err
}

func TestAdminsList(t *testing.T) {
	api := &mockAdminLister{admins: []client.AdminProfile{
		{ID: "A1", Name: "Ada Admin", Email: "ada@x.com", Role: "super_admin"},
		{ID: "A2", Name: "Bola", Email: "bola@x.com", Role: "admin"},
	}}
	var out bytes.Buffer

	require.NoError(t, runAdminsList(context.Background(), api, &out))
	assert.Contains(t, out.String(), "ada@x.com")
	assert.Contains(t, out.String(), "super_admin")
	assert.Contains(t, out.String(), "Bola")
}

func TestAdminsList_Forbidden(t *testing.T) {
	api := &mockAdminLister{err: &client.APIError{StatusCode: 403, Message: "Not enough permissions"}}

	err := runAdminsList(context.Background(), api, &bytes.Buffer{})
	require.Error(t, err)
	assert.Equal(t, "Not enough permissions", err.Error())
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Ada", displayName(&client.AdminProfile{ID: "A1", Name: "Ada", Email: "a@x.com"}))
	assert.Equal(t, "a@x.com", displayName(&client.AdminProfile{ID: "A1", Email: "a@x.com"}))
	assert.Equal(t, "A1", displayName(&client.AdminProfile{ID: "A1"}))
}
