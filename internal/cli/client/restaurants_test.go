package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListRestaurants_SendsPaging(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/restaurants", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "10", r.URL.Query().Get("size"))
		assert.Equal(t, "pizza", r.URL.Query().Get("search"))
		w.Write([]byte(`{"items":[{"id":"R1","name":"Pizza Place","is_active":true}],"total":11,"page":2,"size":10}`))
	}))
	defer server.Close()

	c := New(server.URL, newTestStore(t))
	page, err := c.ListRestaurants(context.Background(), ListOptions{Page: 2, Size: 10, Search: "pizza"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Pizza Place", page.Items[0].Name)
	assert.Equal(t, int64(11), page.Total)
}

func TestUpdateRestaurant_SendsOnlySetFields(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/restaurants/R1", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Write([]byte(`{"id":"R1","name":"Pizza Palace","is_active":false}`))
	}))
	defer server.Close()

	name := "Pizza Palace"
	active := false
	c := New(server.URL, newTestStore(t))
	restaurant, err := c.UpdateRestaurant(context.Background(), "R1", RestaurantInput{Name: &name, IsActive: &active})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"name": "Pizza Palace", "is_active": false}, body)
	assert.Equal(t, "Pizza Palace", restaurant.Name)
}

func TestDeleteRestaurant(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	c := New(server.URL, newTestStore(t))
	require.NoError(t, c.DeleteRestaurant(context.Background(), "R1"))
}
