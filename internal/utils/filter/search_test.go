package filter_test

import (
	"testing"

	"github.com/SscSPs/arap_ledger/internal/apperrors"
	"github.com/SscSPs/arap_ledger/internal/core/domain"
	"github.com/SscSPs/arap_ledger/internal/utils/filter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot() []domain.Account {
	return []domain.Account{
		{AccountID: "c-1", Name: "Steel Supply Co", ContactInfo: "orders@steel.test"},
		{AccountID: "c-2", Name: "Paper Mill", ContactInfo: ""},
		{AccountID: "c-3", Name: "", ContactInfo: "+1 555 0100 STEELWORKS"},
	}
}

func ids(accs []domain.Account) []string {
	out := make([]string, len(accs))
	for i, a := range accs {
		out[i] = a.AccountID
	}
	return out
}

func TestSearch(t *testing.T) {
	tests := []struct {
		name string
		term string
		want []string
	}{
		{name: "case insensitive across name and contact", term: "STEEL", want: []string{"c-1", "c-3"}},
		{name: "unanchored substring", term: "mill", want: []string{"c-2"}},
		{name: "empty term matches all", term: "", want: []string{"c-1", "c-2", "c-3"}},
		{name: "whitespace term matches all", term: "  ", want: []string{"c-1", "c-2", "c-3"}},
		{name: "no match", term: "lumber", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filter.Search(snapshot(), tt.term)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestSearch_ConfiguredFields(t *testing.T) {
	got := filter.Search(snapshot(), "steel", filter.FieldName)
	assert.Equal(t, []string{"c-1"}, ids(got))

	got = filter.Search(snapshot(), "c-2", filter.FieldID)
	assert.Equal(t, []string{"c-2"}, ids(got))
}

func TestSearch_DoesNotMutateSnapshot(t *testing.T) {
	snap := snapshot()
	got := filter.Search(snap, "steel")
	got[0].Name = "changed"
	assert.Equal(t, "Steel Supply Co", snap[0].Name)
}

func TestFieldsByName(t *testing.T) {
	fields, err := filter.FieldsByName([]string{"name", " Contact "})
	require.NoError(t, err)
	assert.Len(t, fields, 2)

	fields, err = filter.FieldsByName(nil)
	require.NoError(t, err)
	assert.Len(t, fields, len(filter.DefaultFields))

	_, err = filter.FieldsByName([]string{"balance"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
