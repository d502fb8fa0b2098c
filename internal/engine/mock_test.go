package engine

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/elicit/internal/model"
)

type mockRecommender struct {
	mock.Mock
}

func (m *mockRecommender) Generate(ctx context.Context, criteria SearchCriteria, rec model.Record) ([]Recommendation, error) {
	args := m.Called(ctx, criteria, rec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Recommendation), args.Error(1)
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Get(ctx context.Context, name string) (*model.Category, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *mockStore) List(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Category), args.Error(1)
}

func (m *mockStore) Close() error {
	return m.Called().Error(0)
}

type fixedConflict struct {
	id string
}

func (f fixedConflict) Conflict(schema *model.Schema, _ model.Record) (*model.AttributeSpec, bool) {
	a := schema.ByID(f.id)
	return a, a != nil
}
