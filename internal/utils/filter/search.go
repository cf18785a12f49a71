package filter

import (
	"fmt"
	"strings"

	"github.com/SscSPs/arap_ledger/internal/apperrors"
	"github.com/SscSPs/arap_ledger/internal/core/domain"
)

// Field extracts one searchable string from an account.
type Field func(acc domain.Account) string

// Built-in searchable fields.
var (
	FieldName    Field = func(acc domain.Account) string { return acc.Name }
	FieldContact Field = func(acc domain.Account) string { return acc.ContactInfo }
	FieldID      Field = func(acc domain.Account) string { return acc.AccountID }
	FieldTerms   Field = func(acc domain.Account) string { return acc.CreditTerms }
)

var fieldsByName = map[string]Field{
	"name":        FieldName,
	"contact":     FieldContact,
	"id":          FieldID,
	"creditterms": FieldTerms,
}

// DefaultFields are searched when none are configured.
var DefaultFields = []Field{FieldName, FieldContact}

// FieldsByName resolves configured field names ("name", "contact", "id", "creditTerms").
func FieldsByName(names []string) ([]Field, error) {
	fields := make([]Field, 0, len(names))
	for _, n := range names {
		key := strings.ToLower(strings.TrimSpace(n))
		if key == "" {
			continue
		}
		f, ok := fieldsByName[key]
		if !ok {
			return nil, fmt.Errorf("%w: unknown search field %q", apperrors.ErrValidation, n)
		}
		fields = append(fields, f)
	}
	if len(fields) == 0 {
		return DefaultFields, nil
	}
	return fields, nil
}

// Search returns the accounts of snapshot where any field contains term,
// case-insensitively and unanchored. An empty term matches everything.
// The snapshot is never modified; matches are copies.
func Search(snapshot []domain.Account, term string, fields ...Field) []domain.Account {
	if len(fields) == 0 {
		fields = DefaultFields
	}
	needle := strings.ToLower(strings.TrimSpace(term))

	out := make([]domain.Account, 0, len(snapshot))
	for _, acc := range snapshot {
		if needle == "" || matches(acc, needle, fields) {
			out = append(out, acc.Clone())
		}
	}
	return out
}

func matches(acc domain.Account, needle string, fields []Field) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f(acc)), needle) {
			return true
		}
	}
	return false
}
