// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package resource_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/trailhead/internal/platform/resource"
)

type guide struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type outing struct {
	Lead   resource.Ref[guide]   `json:"lead,omitzero"`
	Guides []resource.Ref[guide] `json:"guides"`
}

/*
TestRef_Unmarshal accepts both bare ids and embedded documents.
*/
func TestRef_Unmarshal(t *testing.T) {
	var value outing
	require.NoError(t, json.Unmarshal([]byte(`{"lead":"g-1","guides":["g-2",{"id":"g-3","name":"Lourdes Browning"}]}`), &value))

	assert.Equal(t, "g-1", value.Lead.ID)
	assert.False(t, value.Lead.Populated())

	require.Len(t, value.Guides, 2)
	assert.Equal(t, "g-3", value.Guides[1].ID)
	require.True(t, value.Guides[1].Populated())
	assert.Equal(t, "Lourdes Browning", value.Guides[1].Doc.Name)
}

/*
TestRef_Marshal writes the document when populated and the id otherwise.
*/
func TestRef_Marshal(t *testing.T) {
	value := outing{
		Guides: []resource.Ref[guide]{
			resource.RefTo[guide]("g-2"),
			{ID: "g-3", Doc: &guide{ID: "g-3", Name: "Lourdes Browning"}},
		},
	}

	raw, err := json.Marshal(value)
	require.NoError(t, err)
	assert.JSONEq(t, `{"guides":["g-2",{"id":"g-3","name":"Lourdes Browning"}]}`, string(raw))
}
