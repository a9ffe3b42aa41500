package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type timestamps struct {
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

type mockCatalogRow struct {
	timestamps
	ID       string   `db:"id" json:"id"`
	Name     string   `db:"name" json:"name"`
	Internal string   `db:"-" json:"-"`
	Children []string `json:"children"`
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[mockCatalogRow]()

	assert.Equal(t, []string{"created_at", "updated_at", "id", "name"}, cols)
}

func TestExtractDBColumns_PointerType(t *testing.T) {
	cols := ExtractDBColumns[*mockCatalogRow]()

	assert.Equal(t, []string{"created_at", "updated_at", "id", "name"}, cols)
}
