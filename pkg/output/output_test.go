package output

import (
	"encoding/json"
	"testing"

	"github.com/kittclouds/ontokit/pkg/dimension"
	"github.com/kittclouds/ontokit/pkg/moment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAs(t *testing.T) {
	var o Output = IntegerOutput(21)

	n, err := As[IntegerOutput](o)
	require.NoError(t, err)
	assert.Equal(t, IntegerOutput(21), n)

	_, err = As[TimeOutput](o)
	assert.ErrorIs(t, err, ErrWrongOutput)

	_, err = As[IntegerOutput](nil)
	assert.ErrorIs(t, err, ErrWrongOutput)
}

func TestParseKinds(t *testing.T) {
	kinds, err := ParseKinds("number, Time,datetime,money")
	require.NoError(t, err)
	assert.Equal(t, []Kind{Number, Time, AmountOfMoney}, kinds)

	_, err = ParseKinds("number,colour")
	assert.Error(t, err)
}

func TestKindJSON(t *testing.T) {
	b, err := json.Marshal([]Kind{Temperature, Ordinal})
	require.NoError(t, err)
	assert.JSONEq(t, `["Temperature","Ordinal"]`, string(b))

	var decoded []Kind
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, []Kind{Temperature, Ordinal}, decoded)
}

func TestAllCoversEveryKind(t *testing.T) {
	all := All()
	assert.Len(t, all, len(kindNames))
	seen := make(map[Kind]bool)
	for _, k := range all {
		seen[k] = true
	}
	assert.Len(t, seen, len(kindNames))
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		dim  dimension.Dimension
		want Kind
		ok   bool
	}{
		{dimension.Integer{Value: 3}, Number, true},
		{dimension.Float{Value: 3.5}, Number, true},
		{dimension.Ordinal{Value: 2}, Ordinal, true},
		{dimension.Temperature{Value: 20, IsLatent: true}, Temperature, true},
		{dimension.Duration{Period: moment.PeriodOf(moment.GrainDay, 3)}, Duration, true},
		{dimension.Time{Form: dimension.FormNow}, Time, true},
		{dimension.AmountOfMoney{Value: 5, Unit: "USD"}, AmountOfMoney, true},
		{dimension.Percentage{Value: 12}, Percentage, true},
		{dimension.UnitOfDuration{Grain: moment.GrainDay}, 0, false},
		{dimension.Cycle{Grain: moment.GrainWeek}, 0, false},
		{dimension.MoneyUnit{Unit: "EUR"}, 0, false},
		{nil, 0, false},
	}
	for _, tt := range tests {
		got, ok := KindOf(tt.dim)
		assert.Equal(t, tt.ok, ok, "%#v", tt.dim)
		if tt.ok {
			assert.Equal(t, tt.want, got, "%#v", tt.dim)
		}
	}
}
