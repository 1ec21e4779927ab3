package expr

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParenthesizeThreeTerms(t *testing.T) {
	got, err := Parenthesize([]string{"1", "2", "3"}, []Operator{Add, Mul})
	require.NoError(t, err)

	want := []string{
		"1+2*3", "(1+2*3)",
		"(1+2)*3", "((1+2))*3", "((1+2)*3)", "(((1+2))*3)",
		"1+(2*3)", "1+((2*3))", "(1+(2*3))", "(1+((2*3)))",
	}
	assert.ElementsMatch(t, want, got)
}

func TestParenthesizeSmallChains(t *testing.T) {
	got, err := Parenthesize([]string{"42"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"42"}, got)

	got, err = Parenthesize([]string{"1", "2"}, []Operator{Pow})
	require.NoError(t, err)
	assert.Equal(t, []string{"1^2", "(1^2)"}, got)
}

func TestCatalogSize(t *testing.T) {
	want := []int64{1, 2, 10, 102, 1526, 28506}
	for i, w := range want {
		assert.Equal(t, w, CatalogSize(i+1).Int64(), "a(%d)", i+1)
	}
	assert.Zero(t, CatalogSize(0).Sign())
}

func TestEnumerateMatchesCatalogSize(t *testing.T) {
	ops := []Operator{Add, Mul, Pow, Add, Mul}
	for n := 1; n <= 6; n++ {
		operands := strings.Split("123456"[:n], "")
		count, err := CountCatalog(Numbers(operands), ops[:n-1])
		require.NoError(t, err)
		assert.Equal(t, CatalogSize(n).Int64(), int64(count), "n=%d", n)
	}
}

func TestEnumeratePreservesOrder(t *testing.T) {
	operands := []string{"1", "2", "3", "4"}
	ops := []Operator{Add, Mul, Pow}
	flat := MustEncode(operands, ops)

	got, err := Parenthesize(operands, ops)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, flat, got[0])
	assert.Equal(t, "("+flat+")", got[1])

	strip := strings.NewReplacer("(", "", ")", "")
	for _, s := range got {
		assert.Equal(t, flat, strip.Replace(s), "grouping of %q changed operand or operator order", s)
		assert.Equal(t, strings.Count(s, "("), strings.Count(s, ")"))
	}
}

func TestEnumerateKeepsDuplicates(t *testing.T) {
	got, err := Parenthesize([]string{"1", "2", "3", "4"}, []Operator{Add, Add, Add})
	require.NoError(t, err)
	assert.Len(t, got, 102)
	assert.Less(t, len(Unique(got)), len(got))
	assert.Contains(t, got, "(1+2)+(3+4)")
}

func TestEnumerateStops(t *testing.T) {
	seq, err := Enumerate(Numbers([]string{"1", "2", "3", "4", "5"}), []Operator{Add, Add, Add, Add})
	require.NoError(t, err)

	seen := 0
	for range seq {
		seen++
		if seen == 7 {
			break
		}
	}
	assert.Equal(t, 7, seen)
}

func TestEnumerateErrors(t *testing.T) {
	_, err := Enumerate(Numbers([]string{"1", "2"}), nil)
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = Parenthesize([]string{"1"}, []Operator{Add})
	assert.ErrorIs(t, err, ErrLengthMismatch)

	terms := Numbers(strings.Split(strings.Repeat("1", MaxTerms+1), ""))
	ops := make([]Operator, MaxTerms)
	for i := range ops {
		ops[i] = Add
	}
	_, err = Enumerate(terms, ops)
	assert.ErrorIs(t, err, ErrTooManyTerms)
}

func TestUnique(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, Unique([]string{"a", "b", "a", "c", "b"}))
	assert.Empty(t, Unique(nil))
}
