package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var binary = []Operator{Add, Mul, Pow}

func TestDecode(t *testing.T) {
	operands, delimiters, err := Decode("1*2+3^4+5", binary)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, operands)
	assert.Equal(t, []Operator{Mul, Add, Pow, Add}, delimiters)
}

func TestEncode(t *testing.T) {
	got, err := Encode([]string{"1", "2", "3", "4", "5"}, []Operator{Mul, Add, Pow, Add})
	require.NoError(t, err)
	assert.Equal(t, "1*2+3^4+5", got)
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	tests := []struct {
		name       string
		operands   []string
		delimiters []Operator
		alphabet   []Operator
	}{
		{"single operand", []string{"7"}, nil, binary},
		{"multi-digit operands", []string{"12", "345", "6"}, []Operator{Pow, Mul}, binary},
		{"placeholders", []string{"1", "2", "3"}, []Operator{Placeholder, Placeholder}, []Operator{Placeholder}},
		{"grouped operands", []string{"(1", "2)", "3"}, []Operator{Add, Mul}, binary},
		{"division", []string{"8", "4"}, []Operator{Div}, []Operator{Div}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Encode(tt.operands, tt.delimiters)
			require.NoError(t, err)

			operands, delimiters, err := Decode(s, tt.alphabet)
			require.NoError(t, err)
			assert.Equal(t, tt.operands, operands)
			assert.Equal(t, len(tt.delimiters), len(delimiters))
			for i := range tt.delimiters {
				assert.Equal(t, tt.delimiters[i], delimiters[i])
			}
			assert.Equal(t, s, MustEncode(operands, delimiters))
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		alphabet   []Operator
		wantErr    error
	}{
		{"operator outside alphabet", "1+2", []Operator{Placeholder}, ErrUnrecognizedDelimiter},
		{"letter", "1+x", binary, ErrUnrecognizedDelimiter},
		{"space", "1 +2", binary, ErrUnrecognizedDelimiter},
		{"leading delimiter", "+1", binary, ErrEmptyOperand},
		{"trailing delimiter", "1+", binary, ErrEmptyOperand},
		{"doubled delimiter", "1++2", binary, ErrEmptyOperand},
		{"empty input", "", binary, ErrEmptyOperand},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Decode(tt.expression, tt.alphabet)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestEncodeLengthMismatch(t *testing.T) {
	_, err := Encode([]string{"1", "2"}, []Operator{Add, Mul})
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = Encode(nil, nil)
	assert.ErrorIs(t, err, ErrLengthMismatch)

	assert.Panics(t, func() { MustEncode([]string{"1"}, []Operator{Add}) })
}
