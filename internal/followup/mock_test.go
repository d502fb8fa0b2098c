package followup

import (
	"github.com/stretchr/testify/mock"

	"github.com/sells-group/elicit/internal/model"
)

type mockConflictDetector struct {
	mock.Mock
}

func (m *mockConflictDetector) Conflict(schema *model.Schema, rec model.Record) (*model.AttributeSpec, bool) {
	args := m.Called(schema, rec)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*model.AttributeSpec), args.Bool(1)
}
