package taxid

import (
	"math/rand"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agro/pkg/apperr"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr error
	}{
		{name: "valid cpf", raw: "12345678909", want: "12345678909"},
		{name: "valid cpf formatted", raw: "123.456.789-09", want: "12345678909"},
		{name: "valid cpf trailing zeros", raw: "98765432100", want: "98765432100"},
		{name: "valid cnpj", raw: "11222333000181", want: "11222333000181"},
		{name: "valid cnpj formatted", raw: "11.222.333/0001-81", want: "11222333000181"},
		{name: "cpf bad second digit", raw: "12345678900", wantErr: apperr.ErrInvalidChecksum},
		{name: "cpf bad first digit", raw: "12345678919", wantErr: apperr.ErrInvalidChecksum},
		{name: "cnpj bad digit", raw: "11222333000182", wantErr: apperr.ErrInvalidChecksum},
		{name: "too short", raw: "1234567890", wantErr: apperr.ErrInvalidFormat},
		{name: "between lengths", raw: "123456789012", wantErr: apperr.ErrInvalidFormat},
		{name: "empty", raw: "", wantErr: apperr.ErrInvalidFormat},
		{name: "letters only", raw: "abc.def", wantErr: apperr.ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Validate(tt.raw)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, "tax_id", apperr.FieldOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidate_RepeatedDigits(t *testing.T) {
	for d := '0'; d <= '9'; d++ {
		for _, n := range []int{11, 14} {
			raw := strings.Repeat(string(d), n)
			_, err := Validate(raw)
			assert.ErrorIs(t, err, apperr.ErrInvalidChecksum, raw)
		}
	}
}

// refDigit computes a check digit from the weight sequence directly.
func refDigit(base string, weights []int) byte {
	sum := 0
	for i := range base {
		sum += int(base[i]-'0') * weights[i]
	}
	if r := sum % 11; r >= 2 {
		return byte('0' + 11 - r)
	}
	return '0'
}

func randomDigits(r *rand.Rand, n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteString(strconv.Itoa(r.Intn(10)))
	}
	return b.String()
}

func TestValidate_GeneratedIDs(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	cpfW1 := []int{10, 9, 8, 7, 6, 5, 4, 3, 2}
	cpfW2 := []int{11, 10, 9, 8, 7, 6, 5, 4, 3, 2}

	for i := 0; i < 500; i++ {
		base := randomDigits(r, 9)
		d1 := refDigit(base, cpfW1)
		d2 := refDigit(base+string(d1), cpfW2)
		id := base + string(d1) + string(d2)
		if repeated(id) {
			continue
		}

		got, err := Validate(id)
		require.NoError(t, err, id)
		assert.Equal(t, id, got)

		bad := id[:10] + string('0'+(id[10]-'0'+1)%10)
		_, err = Validate(bad)
		assert.ErrorIs(t, err, apperr.ErrInvalidChecksum, bad)
	}

	for i := 0; i < 500; i++ {
		base := randomDigits(r, 12)
		d1 := refDigit(base, cnpjWeights1)
		d2 := refDigit(base+string(d1), cnpjWeights2)
		id := base + string(d1) + string(d2)
		if repeated(id) {
			continue
		}

		got, err := Validate(id)
		require.NoError(t, err, id)
		assert.Equal(t, id, got)

		bad := id[:12] + string('0'+(id[12]-'0'+1)%10) + id[13:]
		_, err = Validate(bad)
		assert.ErrorIs(t, err, apperr.ErrInvalidChecksum, bad)
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "123.456.789-09", Format("12345678909"))
	assert.Equal(t, "11.222.333/0001-81", Format("11222333000181"))
	assert.Equal(t, "123", Format("123"))
}

func TestKindOf(t *testing.T) {
	k, ok := KindOf("12345678909")
	assert.True(t, ok)
	assert.Equal(t, CPF, k)

	k, ok = KindOf("11222333000181")
	assert.True(t, ok)
	assert.Equal(t, CNPJ, k)

	_, ok = KindOf("1")
	assert.False(t, ok)
}
