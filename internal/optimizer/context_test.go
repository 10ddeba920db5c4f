package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ikyoku-dev/resident-match/backend/internal/domain"
)

func testResidents(ids ...int64) []*domain.Staff {
	residents := make([]*domain.Staff, 0, len(ids))
	for _, id := range ids {
		residents = append(residents, &domain.Staff{
			ID:        id,
			StaffType: domain.StaffTypeResident,
		})
	}
	return residents
}

func testHospitals(ids ...int64) []*domain.Hospital {
	hospitals := make([]*domain.Hospital, 0, len(ids))
	for _, id := range ids {
		hospitals = append(hospitals, &domain.Hospital{
			ID:               id,
			ResidentCapacity: 1,
		})
	}
	return hospitals
}

func TestNewContext(t *testing.T) {
	t.Run("専攻医が空の場合はエラー", func(t *testing.T) {
		_, err := NewContext(2025, nil, testHospitals(10), Dataset{})
		assert.ErrorIs(t, err, ErrNoResidents)
	})

	t.Run("病院が空の場合はエラー", func(t *testing.T) {
		_, err := NewContext(2025, testResidents(1), nil, Dataset{})
		assert.ErrorIs(t, err, ErrNoHospitals)
	})

	t.Run("nil のマップは空として扱う", func(t *testing.T) {
		c, err := NewContext(2025, testResidents(1), testHospitals(10), Dataset{})
		require.NoError(t, err)

		assert.NotNil(t, c.data.Choices)
		assert.NotNil(t, c.data.Weights)
		assert.NotNil(t, c.data.AdminEvaluations)
		assert.NotNil(t, c.data.Commutes)
		assert.NotNil(t, c.data.Capacities)
		assert.Equal(t, int32(2025), c.FiscalYear())
		assert.Equal(t, 1, c.NumResidents())
		assert.Equal(t, 1, c.NumHospitals())
	})
}

func TestChoiceRank(t *testing.T) {
	c, err := NewContext(2025, testResidents(1), testHospitals(10, 20, 30), Dataset{
		Choices: map[int64]map[int32]int64{
			1: {1: 20, 2: 10},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, int32(1), c.choiceRank(1, 20))
	assert.Equal(t, int32(2), c.choiceRank(1, 10))
	assert.Equal(t, int32(0), c.choiceRank(1, 30))
	assert.Equal(t, int32(0), c.choiceRank(999, 20))
}

func TestNarrowTo(t *testing.T) {
	c, err := NewContext(2025, testResidents(1, 2, 3), testHospitals(10, 20), Dataset{
		Choices: map[int64]map[int32]int64{
			2: {1: 20},
		},
	})
	require.NoError(t, err)

	narrowed := c.NarrowTo(1)
	assert.Equal(t, 1, narrowed.NumResidents())
	assert.Equal(t, int64(2), narrowed.residents[0].ID)
	assert.Equal(t, c.NumHospitals(), narrowed.NumHospitals())
	assert.Equal(t, int32(1), narrowed.choiceRank(2, 20))
}
