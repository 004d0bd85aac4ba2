package addressmatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLine(t *testing.T) {
	cases := map[string]string{
		"123 Main Street":            "123 MAIN ST",
		"  123   main   st.  ":       "123 MAIN ST",
		"45 North Oak Avenue, Apt 3": "45 N OAK AVE APT 3",
		"9 Elm Blvd.":                "9 ELM BLVD",
		"77 West-End Road Suite 200": "77 W END RD STE 200",
		"":                           "",
		"!!!":                        "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeLine(in), in)
	}
}

func TestNormalizePostal(t *testing.T) {
	assert.Equal(t, "12345", NormalizePostal("12345-6789"))
	assert.Equal(t, "12345", NormalizePostal(" 12345 "))
	assert.Equal(t, "SW1A1", NormalizePostal("sw1a 1aa"))
	assert.Equal(t, "", NormalizePostal(""))
	assert.Equal(t, "ÅÄÖ12", NormalizePostal("åäö12345"), "prefix counts characters, not bytes")
	assert.Equal(t, "ÅÄÖ12", NormalizePostal("ÅÄÖ 12345"))
}

func TestKey(t *testing.T) {
	assert.Equal(t, "123 MAIN ST|12345", Key("123 Main Street", "12345-0001"))
}

func TestKeysMatchAcrossSpellings(t *testing.T) {
	assert.Equal(t, Key("123 Main Street", "12345"), Key("123 MAIN ST.", "12345-6789"))
	assert.Equal(t, Key("1 North Ave", "90210"), Key("1 n avenue", "90210"))
	assert.NotEqual(t, Key("123 Main Street", "12345"), Key("124 Main Street", "12345"))
	assert.NotEqual(t, Key("123 Main Street", "12345"), Key("123 Main Street", "54321"))
}
