package imoveis

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Repository translates entity operations into parameterized statements.
// Values always travel as bind parameters; column names are literals chosen
// by this package, never request data.
type Repository struct {
	db *gorm.DB
}

func NewRepository(gdb *gorm.DB) *Repository {
	return &Repository{db: gdb}
}

func (r *Repository) ListAll(ctx context.Context) ([]Imovel, error) {
	var imoveis []Imovel
	err := r.db.WithContext(ctx).Order("id ASC").Find(&imoveis).Error
	return imoveis, err
}

// GetByID returns (nil, nil) when no row matches.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Imovel, error) {
	var im Imovel
	err := r.db.WithContext(ctx).First(&im, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &im, nil
}

func (r *Repository) ListByTipo(ctx context.Context, tipo string) ([]Imovel, error) {
	var imoveis []Imovel
	err := r.db.WithContext(ctx).Where("tipo = ?", tipo).Order("id ASC").Find(&imoveis).Error
	return imoveis, err
}

func (r *Repository) ListByCidade(ctx context.Context, cidade string) ([]Imovel, error) {
	var imoveis []Imovel
	err := r.db.WithContext(ctx).Where("cidade = ?", cidade).Order("id ASC").Find(&imoveis).Error
	return imoveis, err
}

// Insert stores an already-validated record and returns the assigned id.
func (r *Repository) Insert(ctx context.Context, im *Imovel) (int64, error) {
	if err := r.db.WithContext(ctx).Create(im).Error; err != nil {
		return 0, err
	}
	return im.ID, nil
}

// Count is the trivial read the health check leans on.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&Imovel{}).Count(&total).Error
	return total, err
}

// Changes collects the assignment clauses of a partial update in the order
// they are Set. The handlers fill it by walking the payload fields in a fixed
// order, so the generated SQL is deterministic.
type Changes struct {
	assignments []string
	args        []interface{}
}

func (c *Changes) Set(column string, value interface{}) {
	c.assignments = append(c.assignments, column+" = ?")
	c.args = append(c.args, value)
}

func (c *Changes) Empty() bool {
	return c == nil || len(c.assignments) == 0
}

// Update applies a partial update. An empty Changes issues no statement and
// returns false. Otherwise the result is true iff exactly one row was
// affected, i.e. the id existed at execution time.
func (r *Repository) Update(ctx context.Context, id int64, ch *Changes) (bool, error) {
	if ch.Empty() {
		return false, nil
	}

	stmt := "UPDATE imoveis SET " + strings.Join(ch.assignments, ", ") + " WHERE id = ?"
	args := append(append([]interface{}{}, ch.args...), id)

	tx := r.db.WithContext(ctx).Exec(stmt, args...)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

// Delete removes a row, reporting whether anything was actually deleted.
func (r *Repository) Delete(ctx context.Context, id int64) (bool, error) {
	tx := r.db.WithContext(ctx).Delete(&Imovel{}, id)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}
