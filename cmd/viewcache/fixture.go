package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-view-cache/catalog"
	"github.com/goliatone/go-view-cache/store"
)

// row is one fixture entity.
type row struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Status   int    `json:"status"`
	Kind     string `json:"kind"`
	ParentID string `json:"parent_id,omitempty"`
}

func (r row) Identity() string        { return r.ID }
func (r row) DisplayValues() []string { return []string{r.Name, r.Kind} }

func (r row) EntityType() string {
	if r.Kind == "" {
		return "row"
	}
	return r.Kind
}

// newRow creates a row that has not been saved anywhere yet.
func newRow(name string) row {
	return row{ID: uuid.NewString(), Name: name}
}

type fixtureLink struct {
	Name   string `json:"name"`
	Target string `json:"target"`
	Detail bool   `json:"detail"`
}

// fixture is the JSON document the CLI reads: rows plus the links declared
// per entity type.
type fixture struct {
	Rows  []row                    `json:"rows"`
	Links map[string][]fixtureLink `json:"links"`
}

func readFixture(path string) (fixture, error) {
	var f fixture
	data, err := os.ReadFile(path)
	if err != nil {
		return f, fmt.Errorf("read fixture: %w", err)
	}
	if err := json.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("decode fixture %s: %w", path, err)
	}
	for i := range f.Rows {
		if f.Rows[i].ID == "" {
			f.Rows[i].ID = uuid.NewString()
		}
	}
	return f, nil
}

// register copies the fixture links into reg, giving each link of a type a
// distinct link type number.
func (f fixture) register(reg *catalog.Registry) {
	for typeName, links := range f.Links {
		out := make([]catalog.Link, len(links))
		for i, l := range links {
			out[i] = catalog.Link{Name: l.Name, Target: l.Target, Detail: l.Detail, Type: i + 1}
		}
		reg.Register(typeName, out...)
	}
}

func rowField(r row, field string) (string, bool) {
	switch strings.ToLower(field) {
	case "id":
		return r.ID, true
	case "name":
		return r.Name, true
	case "status":
		return strconv.Itoa(r.Status), true
	case "kind":
		return r.Kind, true
	case "parent_id":
		return r.ParentID, true
	}
	return "", false
}

// loader serves the fixture rows. A master load returns the rows whose
// parent is the master and whose kind is the link's target.
func (f fixture) loader() *store.SliceLoader[row] {
	targets := map[string]map[int]string{}
	for typeName, links := range f.Links {
		targets[typeName] = map[int]string{}
		for i, l := range links {
			targets[typeName][i+1] = l.Target
		}
	}
	rows := f.Rows
	return store.NewSliceLoader(rows,
		store.WithConditions(store.FieldConditions(rowField)),
		store.WithOrder(store.FieldOrder(rowField)),
		store.WithRelated(func(master any, linkType int) ([]row, error) {
			parent, ok := master.(row)
			if !ok {
				return nil, nil
			}
			target := targets[parent.EntityType()][linkType]
			var out []row
			for _, r := range rows {
				if r.ParentID == parent.ID && (target == "" || r.EntityType() == target) {
					out = append(out, r)
				}
			}
			return out, nil
		}),
	)
}
