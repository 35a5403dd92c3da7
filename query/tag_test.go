package query_test

import (
	"testing"

	"github.com/jrsteele09/traveline-backoffice/query"
	"github.com/stretchr/testify/require"
)

func TestItemTags(t *testing.T) {
	tags := query.ItemTags("vehicles", []string{"51A-12345", "30E-99999"}, func(p string) any { return p })
	require.Equal(t, []query.Tag{
		{Resource: "vehicles", ID: "51A-12345"},
		{Resource: "vehicles", ID: "30E-99999"},
		{Resource: "vehicles", ID: query.ListID},
	}, tags)
}

func TestEntityTags(t *testing.T) {
	require.Equal(t, []query.Tag{
		{Resource: "destinations", ID: "7"},
		{Resource: "destinations", ID: "LIST"},
	}, query.EntityTags("destinations", 7))
	require.Equal(t, "destinations:7", query.IDTag("destinations", 7).String())
}
