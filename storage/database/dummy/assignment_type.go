package dummydb

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/studytrack/core"
	"github.com/trezcool/studytrack/core/assignment"
)

type typeRepository struct {
	db *DB
}

var _ assignment.TypeRepository = (*typeRepository)(nil) // interface compliance check

func NewTypeRepository(db *DB) assignment.TypeRepository {
	return &typeRepository{db: db}
}

func (repo *typeRepository) find(userID, name string) *assignment.Type {
	for _, typ := range repo.db.types {
		if typ.UserID == userID && typ.Name == name {
			return typ
		}
	}
	return nil
}

func (repo *typeRepository) CheckTypeNameUniqueness(_ context.Context, userID, name string, _ ...core.DBExecutor) error {
	repo.db.RLock()
	defer repo.db.RUnlock()
	if repo.find(userID, name) != nil {
		return assignment.ErrTypeNameExists
	}
	return nil
}

func (repo *typeRepository) create(typ assignment.Type) assignment.Type {
	typ.ID = uuid.New().String()
	repo.db.types[typ.ID] = &typ
	return typ
}

func (repo *typeRepository) CreateType(_ context.Context, typ assignment.Type, _ ...core.DBExecutor) (assignment.Type, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if repo.find(typ.UserID, typ.Name) != nil {
		return assignment.Type{}, assignment.ErrTypeNameExists
	}
	return repo.create(typ), nil
}

func (repo *typeRepository) FirstOrCreateType(_ context.Context, typ assignment.Type, _ ...core.DBExecutor) (assignment.Type, bool, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if existing := repo.find(typ.UserID, typ.Name); existing != nil {
		return *existing, false, nil
	}
	return repo.create(typ), true, nil
}

func (repo *typeRepository) GetType(_ context.Context, id string, _ ...core.DBExecutor) (assignment.Type, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if typ, ok := repo.db.types[id]; ok {
		return *typ, nil
	}
	return assignment.Type{}, assignment.ErrTypeNotFound
}

func (repo *typeRepository) QueryTypes(_ context.Context, userID string, activeOnly bool, ordering []core.DBOrdering, _ ...core.DBExecutor) ([]assignment.Type, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var types []assignment.Type
	for _, typ := range repo.db.types {
		if typ.UserID == userID && (!activeOnly || typ.IsActive) {
			types = append(types, *typ)
		}
	}
	sort.SliceStable(types, func(i, j int) bool {
		for _, ord := range ordering {
			c := compareTypes(types[i], types[j], ord.Field)
			if c == 0 {
				continue
			}
			if ord.Ascending {
				return c < 0
			}
			return c > 0
		}
		return types[i].ID < types[j].ID
	})
	return types, nil
}

func compareTypes(a, b assignment.Type, field string) int {
	switch field {
	case "sort_order":
		return compareInts(a.SortOrder, b.SortOrder)
	case "label":
		return strings.Compare(a.Label, b.Label)
	case "name":
		return strings.Compare(a.Name, b.Name)
	}
	return 0
}

func (repo *typeRepository) UpdateType(_ context.Context, typ assignment.Type, _ ...core.DBExecutor) (assignment.Type, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.types[typ.ID]
	if !ok {
		return assignment.Type{}, assignment.ErrTypeNotFound
	}
	typ.UserID = orig.UserID
	typ.Name = orig.Name
	typ.CreatedAt = orig.CreatedAt
	*orig = typ
	return typ, nil
}

func (repo *typeRepository) ToggleTypeActive(_ context.Context, id, userID string, now time.Time, _ ...core.DBExecutor) (assignment.Type, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	typ, ok := repo.db.types[id]
	if !ok || typ.UserID != userID {
		return assignment.Type{}, assignment.ErrTypeNotFound
	}
	typ.IsActive = !typ.IsActive
	typ.UpdatedAt = now
	return *typ, nil
}
