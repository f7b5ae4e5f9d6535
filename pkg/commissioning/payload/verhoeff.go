package payload

import "errors"

// Verhoeff check digits for base-10 strings, using the dihedral group D5.
// A single check digit catches every single-digit error and every
// adjacent transposition.
//
// See: https://en.wikipedia.org/wiki/Verhoeff_algorithm

// Verhoeff errors
var (
	ErrVerhoeffInvalidDigit = errors.New("verhoeff: invalid digit character")
	ErrVerhoeffEmptyString  = errors.New("verhoeff: empty string")
)

// verhoeffD is the D5 multiplication table.
var verhoeffD = [10][10]uint8{
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
	{1, 2, 3, 4, 0, 6, 7, 8, 9, 5},
	{2, 3, 4, 0, 1, 7, 8, 9, 5, 6},
	{3, 4, 0, 1, 2, 8, 9, 5, 6, 7},
	{4, 0, 1, 2, 3, 9, 5, 6, 7, 8},
	{5, 9, 8, 7, 6, 0, 4, 3, 2, 1},
	{6, 5, 9, 8, 7, 1, 0, 4, 3, 2},
	{7, 6, 5, 9, 8, 2, 1, 0, 4, 3},
	{8, 7, 6, 5, 9, 3, 2, 1, 0, 4},
	{9, 8, 7, 6, 5, 4, 3, 2, 1, 0},
}

// verhoeffP[i] is the base permutation applied i times. It has order 8.
var verhoeffP = [8][10]uint8{
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
	{1, 5, 7, 6, 2, 8, 3, 0, 9, 4},
	{5, 8, 0, 3, 7, 9, 6, 1, 4, 2},
	{8, 9, 1, 6, 0, 4, 3, 5, 2, 7},
	{9, 4, 5, 3, 1, 2, 6, 8, 7, 0},
	{4, 2, 8, 6, 5, 7, 3, 9, 0, 1},
	{2, 7, 9, 3, 8, 0, 6, 4, 1, 5},
	{7, 0, 4, 6, 9, 1, 3, 2, 5, 8},
}

// verhoeffInv[i] is j such that verhoeffD[i][j] == 0.
var verhoeffInv = [10]uint8{0, 4, 3, 2, 1, 5, 6, 7, 8, 9}

// VerhoeffCompute returns the check digit ('0'-'9') for digits.
// digits must not already include a check digit.
func VerhoeffCompute(digits string) (byte, error) {
	if len(digits) == 0 {
		return 0, ErrVerhoeffEmptyString
	}

	var c uint8
	for i := len(digits) - 1; i >= 0; i-- {
		ch := digits[i]
		if ch < '0' || ch > '9' {
			return 0, ErrVerhoeffInvalidDigit
		}
		// position 1 is the rightmost input digit
		pos := len(digits) - i
		c = verhoeffD[c][verhoeffP[pos%8][ch-'0']]
	}

	return '0' + verhoeffInv[c], nil
}

// VerhoeffValidate reports whether the last character of digits is the
// correct check digit for the rest of the string.
func VerhoeffValidate(digits string) bool {
	if len(digits) < 2 {
		return false
	}
	return VerhoeffValidateCheckChar(digits[len(digits)-1], digits[:len(digits)-1])
}

// VerhoeffValidateCheckChar validates a check digit supplied separately.
func VerhoeffValidateCheckChar(checkChar byte, digits string) bool {
	expected, err := VerhoeffCompute(digits)
	if err != nil {
		return false
	}
	return checkChar == expected
}
